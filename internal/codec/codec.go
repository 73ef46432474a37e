// Package codec provides encode/decode interfaces for backend serialization.
package codec

// Codec converts values to and from their string-persisted form.
// Decode must fail loudly on malformed input; it must never return a
// wrong-shaped value disguised as success.
type Codec interface {
	// Encode serializes v into the string stored on the backend.
	Encode(v any) (string, error)
	// Decode deserializes raw into dest (must be a pointer).
	Decode(raw string, dest any) error
	// Name returns the codec identifier used for diagnostics.
	Name() string
}

// Funcs adapts a caller-supplied encode/decode pair to the Codec interface.
// Both halves must be set; Valid reports whether the pair is usable.
type Funcs struct {
	EncodeFunc func(v any) (string, error)
	DecodeFunc func(raw string, dest any) error
}

// Valid reports whether both halves of the pair are present.
func (f Funcs) Valid() bool {
	return f.EncodeFunc != nil && f.DecodeFunc != nil
}

// Encode calls the wrapped encode function.
func (f Funcs) Encode(v any) (string, error) { return f.EncodeFunc(v) }

// Decode calls the wrapped decode function.
func (f Funcs) Decode(raw string, dest any) error { return f.DecodeFunc(raw, dest) }

// Name returns "funcs".
func (f Funcs) Name() string { return "funcs" }
