package core

import "gridpad/color"

// LayoutVersion is stored at AddrVersion; a mismatch at boot restores
// factory defaults
const LayoutVersion = 0x41

// StoreSize is the size of the settings image in bytes
const StoreSize = 1024

// Settings addresses
const (
	AddrVersion    Address = 0
	AddrChannel    Address = 1 // zero-based MIDI channel
	AddrVelocity   Address = 2
	AddrFourBanks  Address = 3
	AddrOutputMode Address = 4
	AddrCombos     Address = 5
	AddrAnimations Address = 6
	AddrTiltMask   Address = 7 // tilt<<4 | rotation
	AddrTiltMode   Address = 8 // wire value + 1
	AddrTiltSens   Address = 9
	AddrPitchSens  Address = 10
	AddrTiltRange  Address = 11
	AddrPitchRange Address = 12
	AddrTiltDead   Address = 13
	AddrPitchDead  Address = 14
	AddrTiltAxis   Address = 15
	AddrPickSens   Address = 16
	AddrSleepTime  Address = 17
	AddrSideBank   Address = 18
)

// Color tables
const (
	Banks = 2

	// ColorTableSize is one full table: every bank, every button, RGB
	ColorTableSize = Banks * color.ButtonCount * 3

	AddrColorsIdle   Address = 32
	AddrColorsActive         = AddrColorsIdle + ColorTableSize
)

// ColorAddress returns the store address of a button's color
func ColorAddress(base Address, bank, button uint8) Address {
	return base + Address(bank)*color.ButtonCount*3 + Address(button)*3
}

// ReadColor loads one stored color
func ReadColor(s Store, base Address, bank, button uint8) color.RGB {
	a := ColorAddress(base, bank, button)
	return color.RGB{R: s.Get(a), G: s.Get(a + 1), B: s.Get(a + 2)}
}

// WriteColor stores one color
func WriteColor(s Store, base Address, bank, button uint8, c color.RGB) {
	a := ColorAddress(base, bank, button)
	s.Put(a, c.R)
	s.Put(a+1, c.G)
	s.Put(a+2, c.B)
}
