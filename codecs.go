// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// codecs.go — bundled codec instances (tagged, JSON, MessagePack), the
// function-pair adapter used for caller-supplied encode/decode, and the
// AES-256-GCM encrypting wrapper.

package hyperstorage

import (
	"encoding/base64"

	"github.com/Khoeckman/HyperStorage/internal/codec"
)

// Bundled codec instances.
var (
	// TaggedCodec is the default: a tagged JSON envelope that round-trips
	// extended types (times, durations, big integers, regular expressions,
	// URLs, IPs, raw bytes) beyond bare JSON.
	TaggedCodec Codec = codec.Tagged{}

	// JSONCodec stores plain encoding/json output, for interoperability
	// with other JSON consumers of the same backend.
	JSONCodec Codec = codec.JSON{}

	// MsgPackCodec stores base64-wrapped MessagePack, for compact entries.
	MsgPackCodec Codec = codec.MsgPack{}
)

// NewFuncsCodec adapts a caller-supplied encode/decode pair to the Codec
// interface. Supplying only half the pair is caught at Store construction
// with ErrInvalidCodec.
func NewFuncsCodec(encode func(v any) (string, error), decode func(raw string, dest any) error) Codec {
	return codec.Funcs{EncodeFunc: encode, DecodeFunc: decode}
}

// encryptedCodec wraps an inner codec with AES-256-GCM, base64-encoding the
// ciphertext for the string-only backend.
type encryptedCodec struct {
	inner Codec
	enc   Encryptor
}

// NewEncryptedCodec wraps inner (nil selects the default Tagged codec) with
// AES-256-GCM encryption under the given 32-byte key, so values are
// unreadable at rest on shared backends.
func NewEncryptedCodec(inner Codec, key []byte) (Codec, error) {
	if inner == nil {
		inner = TaggedCodec
	}
	enc, err := NewAES256GCM(key)
	if err != nil {
		return nil, err
	}
	return &encryptedCodec{inner: inner, enc: enc}, nil
}

func (c *encryptedCodec) Encode(v any) (string, error) {
	raw, err := c.inner.Encode(v)
	if err != nil {
		return "", err
	}
	ct, err := c.enc.Encrypt([]byte(raw))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}

func (c *encryptedCodec) Decode(raw string, dest any) error {
	ct, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return err
	}
	pt, err := c.enc.Decrypt(ct)
	if err != nil {
		return err
	}
	return c.inner.Decode(string(pt), dest)
}

func (c *encryptedCodec) Name() string { return "encrypted+" + c.inner.Name() }
