// Package serial opens the host side of a gridpad connection: a USB-MIDI
// device node or a DIN MIDI adapter exposed as a serial port
package serial

import (
	"io"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (github.com/tarm/serial)
// - go.bug.st/serial, which can also discard buffered input
// - Mock serial (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush discards any unread input
	Flush() error
}

// Backend selects the serial library used by Open
type Backend string

const (
	BackendTarm  Backend = "tarm"
	BackendBugSt Backend = "bugst"
)

// MIDIBaud is the DIN MIDI bit rate. USB-MIDI and CDC devices ignore it.
const MIDIBaud = 31250

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int

	// Backend library, BackendTarm when empty
	Backend Backend
}

// DefaultConfig returns a configuration for a serial MIDI adapter
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        MIDIBaud,
		ReadTimeout: 100,
		Backend:     BackendTarm,
	}
}
