//go:build rp2040 || rp2350

package main

import "gridpad/core"

// LEDPin drives the WS2812 chain
const LEDPin = 16

// scale8 maps a frame level onto the LED driver's 8-bit range
func scale8(v uint8) uint8 {
	if v >= 0x3F {
		return 0xFF
	}
	return v << 2
}

var _ core.LEDDriver = (*ledChain)(nil)
