package hyperstorage

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Khoeckman/HyperStorage/internal/backend"
	"github.com/Khoeckman/HyperStorage/internal/clock"
	"github.com/Khoeckman/HyperStorage/internal/codec"
	"github.com/Khoeckman/HyperStorage/internal/metrics"
)

// Re-export types so callers only import this package.
type Codec = codec.Codec
type Backend = backend.Backend
type Clock = clock.Clock
type MetricsRecorder = metrics.Recorder

// ────────────────────────────────────────────────────────────────────────────
// Options
// ────────────────────────────────────────────────────────────────────────────

// Options configures a Store. The zero value is not usable on its own: a
// Backend is always required, explicitly — there is no ambient default store.
type Options[T any] struct {
	// Backend is the string-keyed persistence capability. Required.
	Backend Backend

	// Codec converts T to and from the stored string. Defaults to the
	// Tagged codec. A substituted codec must round-trip at least the
	// subset of types the caller depends on; that is the caller's
	// responsibility, not enforced here.
	Codec Codec

	// Validate, when set, runs after every successful decode during Sync.
	// A non-nil return is treated exactly like a decode failure: the store
	// resets to the default value and reports the entry as corrupt. This is
	// the hook for callers who do not trust externally written entries to
	// actually have shape T.
	Validate func(T) error

	// Optional overrideable components
	Logger  Logger
	Clock   Clock
	Metrics MetricsRecorder
}

func (o *Options[T]) defaults() {
	if o.Codec == nil {
		o.Codec = codec.Default
	}
	if o.Logger == nil {
		o.Logger = noopLogger{}
	}
	if o.Clock == nil {
		o.Clock = clock.Real{}
	}
	if o.Metrics == nil {
		o.Metrics = metrics.Noop{}
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Stats
// ────────────────────────────────────────────────────────────────────────────

type storeStats struct {
	Reads     atomic.Int64
	Writes    atomic.Int64
	Syncs     atomic.Int64
	Fallbacks atomic.Int64
	Errors    atomic.Int64
}

// Stats is the snapshot returned by Store.Stats().
type Stats struct {
	Reads     int64
	Writes    int64
	Syncs     int64
	Fallbacks int64
	Errors    int64
}

// ────────────────────────────────────────────────────────────────────────────
// Store
// ────────────────────────────────────────────────────────────────────────────

// Store is a typed, cached accessor over one backend entry.
//
// The cache is the single source of truth for reads: Value never touches the
// backend and never decodes. Every successful write leaves the backend entry
// equal to the encoding of the cache. The backend may still be mutated out
// of band; the cache and the entry then diverge until Sync is called.
//
// A Store is safe for concurrent use. Coherence across multiple Store
// instances sharing one key is last-write-wins with manual resync only.
type Store[T any] struct {
	key      string
	def      T
	backend  Backend
	codec    Codec
	validate func(T) error
	logger   Logger
	clock    Clock
	metrics  MetricsRecorder

	mu       sync.RWMutex
	cache    T
	lastSync time.Time
	stats    storeStats
}

// New creates a Store for key, seeded from the backend: the constructor runs
// one Sync, so the cache holds the decoded backend entry, or defaultValue
// (now persisted) when the entry is absent or undecodable.
//
// Validation failures — empty key, nil backend, a half-supplied Funcs codec —
// return ErrInvalidKey, ErrNilBackend, or ErrInvalidCodec and produce no
// partial Store.
func New[T any](ctx context.Context, key string, defaultValue T, opts Options[T]) (*Store[T], error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	if opts.Backend == nil {
		return nil, ErrNilBackend
	}
	if f, ok := opts.Codec.(codec.Funcs); ok && !f.Valid() {
		return nil, ErrInvalidCodec
	}
	opts.defaults()

	s := &Store[T]{
		key:      key,
		def:      defaultValue,
		backend:  opts.Backend,
		codec:    opts.Codec,
		validate: opts.Validate,
		logger:   opts.Logger,
		clock:    opts.Clock,
		metrics:  opts.Metrics,
		cache:    defaultValue,
	}
	if _, err := s.Sync(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ────────────────────────────────────────────────────────────────────────────
// Read / Write
// ────────────────────────────────────────────────────────────────────────────

// Value returns the cached value verbatim. No I/O, no decode.
func (s *Store[T]) Value() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.stats.Reads.Add(1)
	return s.cache
}

// Set writes v: the backend entry is set to encode(v) and the cache to v.
// On failure — encode error (ErrEncodeFailed) or backend error — both the
// cache and the backend entry are left unchanged and the previous cached
// value is returned alongside the error.
func (s *Store[T]) Set(ctx context.Context, v T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, v)
}

// Update applies fn to the cached value and writes the result. Returns the
// new value. fn runs with the store's write lock held, which makes the
// read-modify-write atomic with respect to concurrent writers; fn must not
// call back into the store (Value, IsDefault, another write) or it will
// deadlock.
func (s *Store[T]) Update(ctx context.Context, fn func(T) T) (T, error) {
	if fn == nil {
		var zero T
		return zero, ErrInvalidUpdater
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, fn(s.cache))
}

// SetField writes a shallow copy of the cached value with one field (struct,
// pointer-to-struct) or entry (string-keyed map) replaced. Returns the new
// value. Calling SetField on a non-record T fails with ErrNotRecord rather
// than corrupting the cache; an unknown or unassignable field fails with
// ErrInvalidField.
func (s *Store[T]) SetField(ctx context.Context, name string, value any) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := replaceField(s.cache, name, value)
	if err != nil {
		s.stats.Errors.Add(1)
		s.metrics.RecordError(s.key, "set")
		return s.cache, err
	}
	return s.write(ctx, next)
}

// Reset writes the default value and returns it. Idempotent.
func (s *Store[T]) Reset(ctx context.Context) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, s.def)
}

// write pushes v to the backend and then updates the cache. Encoding happens
// before any mutation, so a failure on either step leaves the cache and the
// backend entry exactly as they were. Caller must hold mu.
func (s *Store[T]) write(ctx context.Context, v T) (T, error) {
	start := s.clock.Now()
	raw, err := s.codec.Encode(v)
	if err != nil {
		s.stats.Errors.Add(1)
		s.metrics.RecordError(s.key, "set")
		return s.cache, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}
	if err := s.backend.Set(ctx, s.key, raw); err != nil {
		s.stats.Errors.Add(1)
		s.metrics.RecordError(s.key, "set")
		return s.cache, fmt.Errorf("hyperstorage: backend set %q: %w", s.key, err)
	}
	s.cache = v
	s.stats.Writes.Add(1)
	s.metrics.RecordLatency(s.key, "set", s.clock.Now().Sub(start))
	return v, nil
}

// ────────────────────────────────────────────────────────────────────────────
// Introspection
// ────────────────────────────────────────────────────────────────────────────

// IsDefault reports whether the cached value is the default value under
// shallow identity equality: pointers, maps, slices, channels, and functions
// compare by identity, comparable value types by ==. A structurally equal
// but distinct record is therefore NOT default.
func (s *Store[T]) IsDefault() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return shallowEqual(s.cache, s.def)
}

// Key returns the backend key this Store is bound to.
func (s *Store[T]) Key() string { return s.key }

// Backend returns the backend handle for inspection and debugging.
func (s *Store[T]) Backend() Backend { return s.backend }

// LastSync returns the time of the most recent successful Sync, or the zero
// time if none has completed.
func (s *Store[T]) LastSync() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSync
}

// Stats returns a snapshot of operational counters.
func (s *Store[T]) Stats() Stats {
	return Stats{
		Reads:     s.stats.Reads.Load(),
		Writes:    s.stats.Writes.Load(),
		Syncs:     s.stats.Syncs.Load(),
		Fallbacks: s.stats.Fallbacks.Load(),
		Errors:    s.stats.Errors.Load(),
	}
}
