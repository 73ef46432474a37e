package codec

import (
	"encoding/base64"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgPack is a compact binary codec using MessagePack encoding. The binary
// payload is base64-encoded because backends only store strings.
type MsgPack struct{}

// Encode serializes v to base64-wrapped MessagePack.
func (MsgPack) Encode(v any) (string, error) {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Decode deserializes base64-wrapped MessagePack into dest.
func (MsgPack) Decode(raw string, dest any) error {
	b, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return err
	}
	return msgpack.Unmarshal(b, dest)
}

// Name returns "msgpack".
func (MsgPack) Name() string { return "msgpack" }
