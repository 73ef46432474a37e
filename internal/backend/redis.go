// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// redis.go — Redis-backed Backend implementation: maps redis.Nil onto the
// absence boolean so callers never have to know go-redis error sentinels,
// and namespaces keys with an optional prefix for multi-tenant instances.

package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis is a Backend stored in Redis. Entries are written without TTL;
// value lifetime is owned by the Store contract, not by Redis expiry.
type Redis struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedis creates a Redis backend over an existing client. keyPrefix, when
// non-empty, namespaces every key as "<keyPrefix>:<key>".
func NewRedis(client redis.UniversalClient, keyPrefix string) *Redis {
	return &Redis{client: client, keyPrefix: keyPrefix}
}

// key returns the namespaced Redis key. String concatenation instead of
// fmt.Sprintf keeps the hot path allocation-light.
func (r *Redis) key(key string) string {
	if r.keyPrefix != "" {
		return r.keyPrefix + ":" + key
	}
	return key
}

// Get returns the entry stored under key; redis.Nil maps to absence.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	k := r.key(key)
	v, err := r.client.Get(ctx, k).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %s: %w", k, err)
	}
	return v, true, nil
}

// Set stores value under key with no expiry.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	k := r.key(key)
	if err := r.client.Set(ctx, k, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", k, err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is a no-op.
func (r *Redis) Delete(ctx context.Context, key string) error {
	k := r.key(key)
	if err := r.client.Del(ctx, k).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis delete %s: %w", k, err)
	}
	return nil
}

// Ping checks that Redis is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
