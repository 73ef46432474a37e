package hyperstorage

import (
	"context"
	"fmt"
	"time"

	"github.com/Khoeckman/HyperStorage/internal/codec"
	"github.com/Khoeckman/HyperStorage/internal/metrics"
)

// SyncStatus tags the outcome of a Sync call.
type SyncStatus int

const (
	// SyncDecoded: the backend entry decoded successfully and is now cached.
	SyncDecoded SyncStatus = iota
	// SyncDefaultedAbsent: no backend entry existed; the default value was
	// written and cached. This is the normal first-use condition.
	SyncDefaultedAbsent
	// SyncDefaultedCorrupt: an entry existed but could not be decoded (or
	// failed validation); the default value was written and cached, and
	// SyncResult.Err carries the captured failure. This is the anomaly path
	// callers should detect and log.
	SyncDefaultedCorrupt
)

// String returns the metrics label for the status.
func (st SyncStatus) String() string {
	switch st {
	case SyncDecoded:
		return metrics.OutcomeDecoded
	case SyncDefaultedAbsent:
		return metrics.OutcomeDefaultedAbsent
	case SyncDefaultedCorrupt:
		return metrics.OutcomeDefaultedCorrupt
	default:
		return "unknown"
	}
}

// SyncResult is the tagged outcome of a Sync: the three statuses are
// observably distinct, so "defaulted because absent" is never confused with
// "defaulted because corrupt".
type SyncResult[T any] struct {
	Status SyncStatus

	// Value is the cache content after the sync: the decoded entry for
	// SyncDecoded, the default value otherwise.
	Value T

	// Err is the captured decode or validation failure (wrapping
	// ErrDecodeFailed) when Status is SyncDefaultedCorrupt; nil otherwise.
	Err error
}

// Sync re-reads the backend entry for the store's key and decodes it into
// the cache with the store's own codec.
//
//   - entry absent     → the default value is written back (Reset semantics)
//     and returned with SyncDefaultedAbsent.
//   - decode succeeds  → only the cache is updated (the entry already holds
//     a valid encoding) and the value is returned with SyncDecoded.
//   - decode fails     → the default value is written back and returned with
//     SyncDefaultedCorrupt plus the captured failure in Err.
//
// The error return carries backend I/O failures only; on that path neither
// the cache nor the backend entry has been touched. Decode failure is never
// surfaced there; it lands in SyncResult.Err with SyncDefaultedCorrupt.
func (s *Store[T]) Sync(ctx context.Context) (SyncResult[T], error) {
	return s.sync(ctx, nil)
}

// SyncWith is Sync with an alternate decode codec, used to migrate entries
// written in a different encoding. When dec decodes the entry successfully,
// the entry is rewritten with the store's own codec so future syncs decode
// natively. A nil dec behaves exactly like Sync.
func (s *Store[T]) SyncWith(ctx context.Context, dec Codec) (SyncResult[T], error) {
	return s.sync(ctx, dec)
}

func (s *Store[T]) sync(ctx context.Context, dec codec.Codec) (SyncResult[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.clock.Now()
	raw, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		s.stats.Errors.Add(1)
		s.metrics.RecordError(s.key, "sync")
		return SyncResult[T]{}, fmt.Errorf("hyperstorage: backend get %q: %w", s.key, err)
	}

	if !ok {
		v, err := s.write(ctx, s.def)
		if err != nil {
			return SyncResult[T]{}, err
		}
		s.finishSync(start, SyncDefaultedAbsent)
		return SyncResult[T]{Status: SyncDefaultedAbsent, Value: v}, nil
	}

	foreign := dec != nil && dec.Name() != s.codec.Name()
	if dec == nil {
		dec = s.codec
	}

	var decoded T
	derr := dec.Decode(raw, &decoded)
	if derr == nil && s.validate != nil {
		derr = s.validate(decoded)
	}
	if derr != nil {
		if _, err := s.write(ctx, s.def); err != nil {
			return SyncResult[T]{}, err
		}
		s.stats.Fallbacks.Add(1)
		s.logger.Warn("hyperstorage: undecodable backend entry, reset to default",
			"key", s.key, "codec", dec.Name(), "err", derr)
		s.finishSync(start, SyncDefaultedCorrupt)
		return SyncResult[T]{
			Status: SyncDefaultedCorrupt,
			Value:  s.def,
			Err:    fmt.Errorf("%w: %v", ErrDecodeFailed, derr),
		}, nil
	}

	if foreign {
		// Readable only by the caller-supplied codec; rewrite in the
		// store's own encoding.
		if _, err := s.write(ctx, decoded); err != nil {
			return SyncResult[T]{}, err
		}
	} else {
		s.cache = decoded
	}
	s.finishSync(start, SyncDecoded)
	return SyncResult[T]{Status: SyncDecoded, Value: decoded}, nil
}

// finishSync records counters, the sync timestamp, and latency. Caller must
// hold mu.
func (s *Store[T]) finishSync(start time.Time, st SyncStatus) {
	s.stats.Syncs.Add(1)
	s.lastSync = s.clock.Now()
	s.metrics.RecordSyncOutcome(s.key, st.String())
	s.metrics.RecordLatency(s.key, "sync", s.lastSync.Sub(start))
}
