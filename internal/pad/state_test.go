package pad

import (
	"testing"

	"github.com/Originalimoc/compatctl/pkg/device/dualshock4"
	"github.com/stretchr/testify/assert"
)

func TestDecodeDpad(t *testing.T) {
	type testCase struct {
		name                  string
		up, down, left, right bool
		expected              dualshock4.Direction
	}

	cases := []testCase{
		{name: "released", expected: dualshock4.DirNone},
		{name: "up", up: true, expected: dualshock4.DirNorth},
		{name: "up right", up: true, right: true, expected: dualshock4.DirNorthEast},
		{name: "right", right: true, expected: dualshock4.DirEast},
		{name: "down right", down: true, right: true, expected: dualshock4.DirSouthEast},
		{name: "down", down: true, expected: dualshock4.DirSouth},
		{name: "down left", down: true, left: true, expected: dualshock4.DirSouthWest},
		{name: "left", left: true, expected: dualshock4.DirWest},
		{name: "up left", up: true, left: true, expected: dualshock4.DirNorthWest},
		{name: "up down contradicts", up: true, down: true, expected: dualshock4.DirNone},
		{name: "left right contradicts", left: true, right: true, expected: dualshock4.DirNone},
		{name: "up down right contradicts", up: true, down: true, right: true, expected: dualshock4.DirNone},
		{name: "all four contradicts", up: true, down: true, left: true, right: true, expected: dualshock4.DirNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DecodeDpad(tc.up, tc.down, tc.left, tc.right))
		})
	}
}

func TestButtons(t *testing.T) {
	s := State{
		Cross: true,
		R1:    true,
		Share: true,
		PS:    true,
		L2:    32767,
		R2:    -32768,
	}

	buttons, special := s.Buttons(true)
	assert.Equal(t, dualshock4.ButtonCross|dualshock4.ButtonR1|dualshock4.ButtonL2|dualshock4.ButtonShare, buttons)
	assert.Equal(t, dualshock4.SpecialPS, special)

	// share button unmapped: bit stays unset, everything else untouched
	buttons, _ = s.Buttons(false)
	assert.Zero(t, buttons&dualshock4.ButtonShare)
	assert.NotZero(t, buttons&dualshock4.ButtonCross)
}

func TestButtonsAllReleased(t *testing.T) {
	s := State{L2: -32768, R2: -32768}
	buttons, special := s.Buttons(true)
	assert.Zero(t, buttons)
	assert.Zero(t, special)
}
