// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// tagged.go — the default codec: a tagged JSON envelope that round-trips
// extended value types (times, durations, big integers, regular expressions,
// URLs, IPs, raw bytes) which bare JSON would flatten or reject. Plain
// structs, maps, slices, and scalars fall through to a generic "json" tag.

package codec

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net"
	"net/url"
	"regexp"
	"time"
)

// Envelope tags. The tag travels with the payload so Decode can reconstruct
// the concrete type instead of guessing from JSON shape.
const (
	tagJSON   = "json"
	tagTime   = "time"
	tagDur    = "dur"
	tagBigInt = "bigint"
	tagRegexp = "regexp"
	tagURL    = "url"
	tagIP     = "ip"
	tagBytes  = "bytes"
)

var errNotEnvelope = errors.New("codec: raw value is not a tagged envelope")

// envelope is the persisted representation: one tag plus one JSON payload.
type envelope struct {
	T string          `json:"t"`
	V json.RawMessage `json:"v"`
}

// Tagged is the default codec. Values of the extended types below are stored
// under a dedicated tag; everything else is stored under the "json" tag with
// standard encoding/json semantics.
//
//	time.Time        → "time"   (RFC 3339 with nanoseconds)
//	time.Duration    → "dur"    (time.Duration.String form)
//	*big.Int         → "bigint" (decimal string)
//	*regexp.Regexp   → "regexp" (source pattern)
//	*url.URL         → "url"    (url.URL.String form)
//	net.IP           → "ip"     (textual form)
//	[]byte           → "bytes"  (base64)
//
// Tag dispatch happens on the top-level value only; extended types nested
// inside a struct follow that type's own JSON behaviour.
type Tagged struct{}

// Encode wraps v in a tagged envelope and serializes it to a string.
func (Tagged) Encode(v any) (string, error) {
	tag, payload, err := encodePayload(v)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(envelope{T: tag, V: payload})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func encodePayload(v any) (string, json.RawMessage, error) {
	switch tv := v.(type) {
	case time.Time:
		return marshalTag(tagTime, tv.Format(time.RFC3339Nano))
	case *time.Time:
		if tv == nil {
			break
		}
		return marshalTag(tagTime, tv.Format(time.RFC3339Nano))
	case time.Duration:
		return marshalTag(tagDur, tv.String())
	case *big.Int:
		if tv == nil {
			break
		}
		return marshalTag(tagBigInt, tv.String())
	case *regexp.Regexp:
		if tv == nil {
			break
		}
		return marshalTag(tagRegexp, tv.String())
	case *url.URL:
		if tv == nil {
			break
		}
		return marshalTag(tagURL, tv.String())
	case url.URL:
		return marshalTag(tagURL, tv.String())
	case net.IP:
		if tv == nil {
			break
		}
		return marshalTag(tagIP, tv.String())
	case []byte:
		return marshalTag(tagBytes, base64.StdEncoding.EncodeToString(tv))
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	return tagJSON, payload, nil
}

func marshalTag(tag, s string) (string, json.RawMessage, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return "", nil, err
	}
	return tag, payload, nil
}

// Decode parses a tagged envelope and reconstructs the value into dest.
// dest must be a pointer whose element type matches the envelope tag
// (e.g. *time.Time or **time.Time for "time", **regexp.Regexp for "regexp");
// malformed
// envelopes, unknown tags, and tag/dest mismatches all return an error.
func (Tagged) Decode(raw string, dest any) error {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return fmt.Errorf("%w: %v", errNotEnvelope, err)
	}
	if env.T == "" {
		return errNotEnvelope
	}
	if env.T == tagJSON {
		return json.Unmarshal(env.V, dest)
	}

	var s string
	if err := json.Unmarshal(env.V, &s); err != nil {
		return fmt.Errorf("codec: malformed %q payload: %w", env.T, err)
	}

	switch env.T {
	case tagTime:
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("codec: bad time payload: %w", err)
		}
		// Encode accepts both time.Time and *time.Time, so Decode must too.
		if p, ok := dest.(**time.Time); ok {
			*p = &ts
			return nil
		}
		return assign(dest, ts, env.T)
	case tagDur:
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("codec: bad duration payload: %w", err)
		}
		return assign(dest, d, env.T)
	case tagBigInt:
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return fmt.Errorf("codec: bad bigint payload %q", s)
		}
		return assign(dest, n, env.T)
	case tagRegexp:
		re, err := regexp.Compile(s)
		if err != nil {
			return fmt.Errorf("codec: bad regexp payload: %w", err)
		}
		return assign(dest, re, env.T)
	case tagURL:
		u, err := url.Parse(s)
		if err != nil {
			return fmt.Errorf("codec: bad url payload: %w", err)
		}
		if p, ok := dest.(*url.URL); ok {
			*p = *u
			return nil
		}
		return assign(dest, u, env.T)
	case tagIP:
		ip := net.ParseIP(s)
		if ip == nil {
			return fmt.Errorf("codec: bad ip payload %q", s)
		}
		return assign(dest, ip, env.T)
	case tagBytes:
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return fmt.Errorf("codec: bad bytes payload: %w", err)
		}
		return assign(dest, b, env.T)
	default:
		return fmt.Errorf("codec: unknown envelope tag %q", env.T)
	}
}

// assign stores v into the pointer dest, failing when the pointee type does
// not match the decoded type.
func assign[V any](dest any, v V, tag string) error {
	p, ok := dest.(*V)
	if !ok {
		return fmt.Errorf("codec: envelope tag %q does not match destination type %T", tag, dest)
	}
	*p = v
	return nil
}

// Name returns "tagged".
func (Tagged) Name() string { return "tagged" }

// Default is the default codec instance.
var Default Codec = Tagged{}
