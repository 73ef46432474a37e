// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// json.go — plain JSON codec wrapping encoding/json; used when the stored
// string must stay human-readable and no extended types are involved.

package codec

import "encoding/json"

// JSON is a plain codec using standard library encoding/json.
// It does not carry type tags; time.Time survives (RFC 3339) but most
// extended types do not round-trip. Prefer Tagged unless interoperability
// with other JSON consumers matters.
type JSON struct{}

// Encode serializes v to a JSON string.
func (JSON) Encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode deserializes a JSON string into dest.
func (JSON) Decode(raw string, dest any) error {
	return json.Unmarshal([]byte(raw), dest)
}

// Name returns "json".
func (JSON) Name() string { return "json" }
