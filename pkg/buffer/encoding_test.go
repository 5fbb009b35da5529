package buffer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHex(t *testing.T) {
	b := NewReadable([]byte{0x0a, 0xff, 0x10}, BigEndian)
	assert.Equal(t, "0AFF10", EncodeHex(b))

	d, err := DecodeHex("0aff10", LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a, 0xff, 0x10}, d.ToArray())
	assert.Equal(t, LittleEndian, d.Endianness())

	_, err = DecodeHex("zz", BigEndian)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBase64(t *testing.T) {
	b := NewReadable([]byte("hello"), BigEndian)
	assert.Equal(t, "aGVsbG8=", EncodeBase64(b))

	d, err := DecodeBase64("aGVsbG8=", BigEndian)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), d.ToArray())

	_, err = DecodeBase64("!!", BigEndian)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestJSONFields(t *testing.T) {
	type frame struct {
		Payload Base64 `json:"payload"`
		Digest  Hex    `json:"digest"`
	}

	in := frame{
		Payload: Base64{NewReadable([]byte("hi"), BigEndian)},
		Digest:  Hex{NewReadable([]byte{0xde, 0xad}, BigEndian)},
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"payload":"aGk=","digest":"DEAD"}`, string(data))

	var out frame
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, []byte("hi"), out.Payload.ToArray())
	assert.Equal(t, []byte{0xde, 0xad}, out.Digest.ToArray())
}
