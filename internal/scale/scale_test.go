package scale

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGyroRangeAndMonotonic(t *testing.T) {
	prev := Gyro(-10000)
	for v := -10000.0; v <= 10000.0; v += 12.5 {
		got := Gyro(v)
		assert.GreaterOrEqual(t, got, int16(math.MinInt16))
		assert.LessOrEqual(t, got, int16(math.MaxInt16))
		assert.GreaterOrEqual(t, got, prev, "not monotonic at %v", v)
		prev = got
	}
}

func TestGyroClampIdempotent(t *testing.T) {
	for _, v := range []float64{-99999, -501, 501, 1e9, math.Inf(1), math.Inf(-1)} {
		clamped := Clamp(v, -GyroMaxDPS, GyroMaxDPS)
		assert.Equal(t, Gyro(clamped), Gyro(v), "input %v", v)
	}
	assert.Equal(t, int16(GyroScalePeak), Gyro(GyroMaxDPS))
	assert.Equal(t, int16(-GyroScalePeak), Gyro(-GyroMaxDPS))
	assert.Equal(t, int16(0), Gyro(math.NaN()))
}

func TestAccel(t *testing.T) {
	assert.Equal(t, int16(0), Accel(0))
	assert.Equal(t, int16(AccelScalePeak), Accel(AccelMaxG))
	assert.Equal(t, int16(-AccelScalePeak), Accel(-100))
	// 1 g of gravity
	assert.Equal(t, int16(math.Round(AccelScalePeak/AccelMaxG)), Accel(1))
}

func TestStickByte(t *testing.T) {
	type testCase struct {
		raw      int16
		invert   bool
		expected uint8
	}
	cases := []testCase{
		{0, false, 128},
		{32767, false, 255},
		{-32768, false, 0},
		{0, true, 127},
		{32767, true, 0},
		{-32768, true, 255},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, StickByte(tc.raw, tc.invert), "raw=%d invert=%v", tc.raw, tc.invert)
	}
}

func TestTriggerByte(t *testing.T) {
	assert.Equal(t, uint8(0), TriggerByte(-32768))
	assert.Equal(t, uint8(255), TriggerByte(32767))
}
