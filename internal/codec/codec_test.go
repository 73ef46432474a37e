package codec_test

import (
	"errors"
	"testing"

	"github.com/Khoeckman/HyperStorage/internal/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int    `json:"id" msgpack:"id"`
	Name string `json:"name" msgpack:"name"`
}

func TestJSONCodec(t *testing.T) {
	c := codec.JSON{}
	orig := item{ID: 1, Name: "test"}
	raw, err := c.Encode(orig)
	require.NoError(t, err)

	var got item
	require.NoError(t, c.Decode(raw, &got))
	assert.Equal(t, orig, got)
	assert.Equal(t, "json", c.Name())
}

func TestJSONCodec_Malformed(t *testing.T) {
	var got item
	assert.Error(t, codec.JSON{}.Decode("{not json", &got))
}

func TestMsgPackCodec(t *testing.T) {
	c := codec.MsgPack{}
	orig := item{ID: 42, Name: "pack"}
	raw, err := c.Encode(orig)
	require.NoError(t, err)

	var got item
	require.NoError(t, c.Decode(raw, &got))
	assert.Equal(t, orig, got)
	assert.Equal(t, "msgpack", c.Name())
}

func TestMsgPackCodec_NotBase64(t *testing.T) {
	var got item
	assert.Error(t, codec.MsgPack{}.Decode("!!! not base64 !!!", &got))
}

func TestFuncs_Valid(t *testing.T) {
	full := codec.Funcs{
		EncodeFunc: func(v any) (string, error) { return "x", nil },
		DecodeFunc: func(raw string, dest any) error { return nil },
	}
	assert.True(t, full.Valid())
	assert.Equal(t, "funcs", full.Name())

	assert.False(t, codec.Funcs{}.Valid())
	assert.False(t, codec.Funcs{EncodeFunc: full.EncodeFunc}.Valid())
	assert.False(t, codec.Funcs{DecodeFunc: full.DecodeFunc}.Valid())
}

func TestFuncs_Delegates(t *testing.T) {
	errBoom := errors.New("boom")
	c := codec.Funcs{
		EncodeFunc: func(v any) (string, error) { return v.(string) + "!", nil },
		DecodeFunc: func(raw string, dest any) error { return errBoom },
	}
	raw, err := c.Encode("hi")
	require.NoError(t, err)
	assert.Equal(t, "hi!", raw)
	assert.ErrorIs(t, c.Decode("x", nil), errBoom)
}
