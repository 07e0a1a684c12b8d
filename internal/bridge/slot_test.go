package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlot(t *testing.T) {
	var s Slot[int]

	_, ok := s.Load()
	assert.False(t, ok, "empty slot is absent")

	s.Store(0)
	v, ok := s.Load()
	assert.True(t, ok, "stored zero is present, not absent")
	assert.Equal(t, 0, v)

	s.Store(7)
	s.Store(9)
	v, _ = s.Load()
	assert.Equal(t, 9, v, "latest value supersedes")

	s.Clear()
	_, ok = s.Load()
	assert.False(t, ok)
}
