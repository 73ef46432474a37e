package backend

import (
	"context"
	"sync"

	xxhash "github.com/cespare/xxhash/v2"
)

const numShards = 64

// memoryShard is one partition of the in-memory backend.
type memoryShard struct {
	mu      sync.RWMutex
	entries map[string]string
}

// Memory is an in-memory Backend. It is the test and single-process
// implementation: durable for the lifetime of the process only.
//
// Keys are distributed across shards by xxhash so unrelated stores do not
// contend on one lock.
type Memory struct {
	shards [numShards]*memoryShard
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	m := &Memory{}
	for i := range m.shards {
		m.shards[i] = &memoryShard{entries: make(map[string]string)}
	}
	return m
}

func (m *Memory) shard(key string) *memoryShard {
	return m.shards[xxhash.Sum64String(key)%numShards]
}

// Get returns the entry stored under key.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	sh := m.shard(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	v, ok := sh.entries[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *Memory) Set(_ context.Context, key, value string) error {
	sh := m.shard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.entries[key] = value
	return nil
}

// Delete removes key. Deleting a missing key is a no-op.
func (m *Memory) Delete(_ context.Context, key string) error {
	sh := m.shard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.entries, key)
	return nil
}

// Len returns the number of entries across all shards.
func (m *Memory) Len() int {
	total := 0
	for _, sh := range m.shards {
		sh.mu.RLock()
		total += len(sh.entries)
		sh.mu.RUnlock()
	}
	return total
}
