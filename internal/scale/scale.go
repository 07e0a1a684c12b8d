// Package scale converts physical sensor and input value domains into the
// integer domains of the outbound controller report. All functions are pure
// and total: inputs are clamped before conversion, so no value of the input
// type can overflow the output type.
package scale

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Scaling policy. The gyro factor is max-range-derived: readings are clamped
// to ±GyroMaxDPS and that range maps linearly onto ±GyroScalePeak. The accel
// peak is the empirically calibrated magnitude the target protocol expects
// for ±AccelMaxG, not the full int16 range.
const (
	GyroMaxDPS    = 500.0
	GyroScalePeak = 20000.0

	AccelMaxG      = 4.2
	AccelScalePeak = 31900.0
)

// Clamp returns v limited to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Gyro converts an angular velocity in degrees/second to the report's signed
// 16-bit gyro domain.
func Gyro(dps float64) int16 {
	if math.IsNaN(dps) {
		return 0
	}
	v := Clamp(dps, -GyroMaxDPS, GyroMaxDPS)
	scaled := math.Round(v / GyroMaxDPS * GyroScalePeak)
	// guard against rounding overshoot
	return int16(Clamp(scaled, math.MinInt16, math.MaxInt16))
}

// Accel converts a linear acceleration in g to the report's signed 16-bit
// accelerometer domain.
func Accel(g float64) int16 {
	if math.IsNaN(g) {
		return 0
	}
	v := Clamp(g, -AccelMaxG, AccelMaxG)
	scaled := math.Round(v / AccelMaxG * AccelScalePeak)
	return int16(Clamp(scaled, math.MinInt16, math.MaxInt16))
}

// StickByte remaps a raw signed 16-bit stick axis onto [0,255], rounding to
// nearest. With invert set the axis is mirrored (vertical axes are inverted
// relative to horizontal in the report convention).
func StickByte(raw int16, invert bool) uint8 {
	b := uint8(((int32(raw)+32768)*255 + 32767) / 65535)
	if invert {
		return 255 - b
	}
	return b
}

// TriggerByte remaps a raw signed 16-bit trigger axis (-32768 released,
// 32767 fully pressed) onto [0,255].
func TriggerByte(raw int16) uint8 {
	return StickByte(raw, false)
}
