package bridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPacerAdaptiveDelta(t *testing.T) {
	p := NewPacer()

	// 2.5ms elapsed at 188 units per 1.25ms
	got := p.advance(2500 * time.Microsecond)
	assert.Equal(t, uint16(376), got)

	// nominal interval advances the nominal delta
	got = p.advance(1250 * time.Microsecond)
	assert.Equal(t, uint16(376+188), got)
}

func TestPacerWraps(t *testing.T) {
	p := NewPacer()
	p.timestamp = 65320

	got := p.advance(2500 * time.Microsecond)
	assert.Equal(t, uint16(160), got, "16-bit overflow is silent")
}

func TestPacerLongStallWraps(t *testing.T) {
	p := NewPacer()

	// a full second is 150400 ticks, several times around the counter
	got := p.advance(time.Second)
	assert.Equal(t, uint16(150400%65536), got)
}

func TestPacerWallClock(t *testing.T) {
	base := time.Unix(0, 0)
	times := []time.Time{base, base.Add(2 * time.Millisecond), base.Add(4 * time.Millisecond)}
	i := 0
	p := &Pacer{now: func() time.Time { t := times[i]; i++; return t }}

	first := p.Next()
	assert.Equal(t, uint16(188), first, "first emission uses nominal delta")

	// 2ms * 150.4 ticks/ms = 300.8 -> 301
	second := p.Next()
	assert.Equal(t, uint16(188+301), second)

	third := p.Next()
	assert.Equal(t, uint16(188+301+301), third)
}
