package busclient

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPayloadBytes(t *testing.T) {
	b, ok := toPayloadBytes(nil)
	assert.True(t, ok)
	assert.Nil(t, b)

	orig := []byte{0x01, 0x02, 0x03}
	b, ok = toPayloadBytes(orig)
	assert.True(t, ok)
	assert.Equal(t, orig, b)

	b, ok = toPayloadBytes("hello")
	assert.True(t, ok)
	assert.Equal(t, []byte("hello"), b)

	type S struct {
		A int    `json:"a"`
		B string `json:"b"`
	}
	b, ok = toPayloadBytes(S{A: 5, B: "x"})
	assert.True(t, ok)
	var s S
	assert.NoError(t, json.Unmarshal(b, &s))
	assert.Equal(t, 5, s.A)
	assert.Equal(t, "x", s.B)
}

func TestFillPath(t *testing.T) {
	assert.Equal(t, "bus/list", fillPath("bus/LIST", nil))
	assert.Equal(t, "bus/7/add", fillPath("bus/{id}/add", map[string]string{"id": "7"}))
	assert.Equal(t, "bus/a%2fb/add", fillPath("bus/{id}/add", map[string]string{"id": "a/b"}))
}
