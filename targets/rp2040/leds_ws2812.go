//go:build rp2350

package main

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ws2812"

	"gridpad/core"
)

// ledChain bit-bangs the chain with the ws2812 driver
type ledChain struct {
	dev ws2812.Device
	buf [core.ChainLength]color.RGBA
}

func newLEDChain() (*ledChain, error) {
	pin := machine.Pin(LEDPin)
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &ledChain{dev: ws2812.New(pin)}, nil
}

// WriteFrame implements core.LEDDriver
func (l *ledChain) WriteFrame(f *core.Frame) error {
	for p := range f {
		c := f[p]
		rgba := color.RGBA{R: scale8(c.R), G: scale8(c.G), B: scale8(c.B), A: 0xFF}
		at := core.ChainPosition(p)
		for i := 0; i < core.LEDsPerButton; i++ {
			l.buf[at+i] = rgba
		}
	}
	return l.dev.WriteColors(l.buf[:])
}
