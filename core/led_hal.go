package core

import "gridpad/color"

// Frame is one full set of button colors, six bit per channel
type Frame [color.ButtonCount]color.RGB

// Each button is lit by a pair of adjacent LEDs on one chain
const (
	LEDsPerButton = 2
	ChainLength   = color.ButtonCount * LEDsPerButton
)

// ChainPosition returns where the first LED of a button sits on the
// chain. The chain runs across the full width in rows of eight buttons,
// while buttons are numbered per half, four per row.
func ChainPosition(button int) int {
	row, col := (button&0x1F)>>2, button&0x03
	if button >= 32 {
		col += 4
	}
	return (row*8 + col) * LEDsPerButton
}

// LEDDriver pushes frames to the LED chain. Platform code owns the
// channel order and the scaling to the driver's bit depth.
type LEDDriver interface {
	WriteFrame(f *Frame) error
}

// Global singleton used by core code.
var ledDriver LEDDriver

// SetLEDDriver is called by target-specific code to register its driver.
func SetLEDDriver(d LEDDriver) {
	ledDriver = d
}
