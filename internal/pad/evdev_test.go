package pad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testDevice() *Device {
	d := &Device{axes: make(map[uint16]absInfo)}
	d.state = Rest()
	return d
}

func key(code uint16, value int32) *inputEvent {
	return &inputEvent{Type: evKey, Code: code, Value: value}
}

func abs(code uint16, value int32) *inputEvent {
	return &inputEvent{Type: evAbs, Code: code, Value: value}
}

func TestApplyDigitalTriggers(t *testing.T) {
	d := testDevice()

	d.apply(key(btnTL2, 1))
	assert.Equal(t, int16(32767), d.state.L2)

	d.apply(key(btnTL2, 0))
	assert.Equal(t, int16(-32768), d.state.L2)

	d.apply(key(btnTR2, 1))
	assert.Equal(t, int16(32767), d.state.R2)
}

func TestAnalogTriggerWinsOverDigital(t *testing.T) {
	d := testDevice()
	d.axes[absRZ] = absInfo{Minimum: 0, Maximum: 255}

	d.apply(abs(absRZ, 128))
	analog := d.state.R2

	// a stale key release must not clobber the axis value
	d.apply(key(btnTR2, 0))
	assert.Equal(t, analog, d.state.R2)
}

func TestApplyHatAndButtons(t *testing.T) {
	d := testDevice()

	d.apply(abs(absHat0X, -1))
	assert.True(t, d.state.Left)
	assert.False(t, d.state.Right)

	d.apply(abs(absHat0X, 0))
	assert.False(t, d.state.Left)

	d.apply(key(btnSouth, 1))
	assert.True(t, d.state.Cross)
}

func TestNormalizeUsesAbsInfo(t *testing.T) {
	d := testDevice()
	d.axes[absX] = absInfo{Minimum: 0, Maximum: 255}

	assert.Equal(t, int16(-32768), d.normalize(absX, 0))
	assert.Equal(t, int16(32767), d.normalize(absX, 255))

	// no range info: values pass through as int16
	assert.Equal(t, int16(1000), d.normalize(absRY, 1000))
}
