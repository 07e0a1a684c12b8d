package bridge

import (
	"math"
	"time"
)

// Report timestamp pacing. The protocol's timestamp field is a rolling
// 16-bit counter in 5.33us units; a stock pad advances it by 188 units per
// 1.25ms report. We pace adaptively: the increment is derived from measured
// elapsed wall-clock time, so consumers computing angular velocity from
// consecutive timestamps see a physically accurate rate even when the
// emission loop is jittered by the scheduler.
const (
	NominalTimestampDelta = 188
	NominalIntervalMs     = 1.25

	timestampTicksPerMs = NominalTimestampDelta / NominalIntervalMs
)

// Pacer computes the wrapping report timestamp. Not safe for concurrent use;
// it is owned by the emission loop.
type Pacer struct {
	timestamp uint16
	last      time.Time
	now       func() time.Time
}

func NewPacer() *Pacer {
	return &Pacer{now: time.Now}
}

// Next measures the time since the previous emission and returns the
// timestamp for the current one. The first call returns the nominal delta.
func (p *Pacer) Next() uint16 {
	now := p.now()
	elapsed := time.Duration(NominalIntervalMs * float64(time.Millisecond))
	if !p.last.IsZero() {
		elapsed = now.Sub(p.last)
	}
	p.last = now
	return p.advance(elapsed)
}

// advance adds the elapsed-proportional delta, wrapping at the 16-bit
// boundary. Wrapping is correct behavior: the consuming protocol defines the
// field as a rolling counter.
func (p *Pacer) advance(elapsed time.Duration) uint16 {
	ms := float64(elapsed) / float64(time.Millisecond)
	// int64 first: float->uint16 is implementation-defined once the tick
	// count exceeds the 16-bit range
	delta := uint16(int64(math.Round(ms * timestampTicksPerMs)))
	p.timestamp += delta
	return p.timestamp
}
