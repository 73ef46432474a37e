// Package backend defines the string-keyed persistence capability consumed
// by a Store, together with memory, Redis, Bolt, and PostgreSQL
// implementations.
package backend

import "context"

// Backend is the persistence capability: a string-keyed store of strings.
//
// Get reports absence through its boolean; the error return is reserved for
// genuine I/O failures. Implementations must be safe for concurrent use.
// A backend is shared external state — entries may be mutated out of band
// by other processes or Store instances, and no locking discipline is
// imposed here.
type Backend interface {
	// Get returns the entry stored under key, and whether one exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, overwriting any existing entry.
	Set(ctx context.Context, key, value string) error
}
