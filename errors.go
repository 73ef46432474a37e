// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// errors.go — sentinel error variables returned by the public HyperStorage
// API, covering constructor validation, the encode/decode failure paths, and
// the structured-update contract.

// Package hyperstorage provides a typed, cached accessor over a string-keyed
// persistence backend. A Store[T] keeps an in-memory value of type T coherent
// with its encoded representation on the backend: reads are served from the
// cache, writes push through to the backend, and an explicit Sync re-reads
// and re-decodes the backend entry, falling back to the default value when
// the entry is absent or corrupt.
package hyperstorage

import "errors"

// Validation errors (construction fails, no partial Store is produced)
var (
	ErrInvalidKey     = errors.New("hyperstorage: key must be a non-empty string")
	ErrNilBackend     = errors.New("hyperstorage: backend must not be nil")
	ErrInvalidCodec   = errors.New("hyperstorage: codec must provide both encode and decode")
	ErrInvalidUpdater = errors.New("hyperstorage: updater function must not be nil")
)

// Codec errors
var (
	ErrEncodeFailed = errors.New("hyperstorage: failed to encode value for storage")
	ErrDecodeFailed = errors.New("hyperstorage: failed to decode stored value")
)

// Structured-update errors
var (
	ErrNotRecord    = errors.New("hyperstorage: value is not a record type (struct or string-keyed map)")
	ErrInvalidField = errors.New("hyperstorage: no assignable field with that name")
)
