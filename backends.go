// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// backends.go — constructors for the bundled Backend implementations
// (memory, Redis, Bolt, PostgreSQL), re-exported so callers only import
// this package.

package hyperstorage

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Khoeckman/HyperStorage/internal/backend"
)

// NewMemoryBackend returns an in-memory Backend. Suitable for tests and for
// values whose persistence scope is the process lifetime.
func NewMemoryBackend() *backend.Memory {
	return backend.NewMemory()
}

// NewRedisBackend returns a Backend stored in Redis over an existing client.
// keyPrefix, when non-empty, namespaces every key as "<keyPrefix>:<key>".
func NewRedisBackend(client redis.UniversalClient, keyPrefix string) *backend.Redis {
	return backend.NewRedis(client, keyPrefix)
}

// NewBoltBackend opens (creating if needed) a BoltDB file at path and returns
// a Backend persisted in it. This is the durable local store: the closest
// analog to a browser's storage area. The caller must Close it when done.
func NewBoltBackend(path string) (*backend.Bolt, error) {
	return backend.NewBolt(path)
}

// NewPostgresBackend returns a Backend stored in a PostgreSQL key/value
// table over an existing pool. An empty table name selects
// backend.DefaultPostgresTable. Call EnsureTable on the result once during
// deployment or test setup.
func NewPostgresBackend(pool *pgxpool.Pool, table string) *backend.Postgres {
	return backend.NewPostgres(pool, table)
}
