//go:build !wasm

package serial

import (
	"fmt"
	"time"

	bugst "go.bug.st/serial"
)

// BugStPort wraps a go.bug.st/serial port
type BugStPort struct {
	port bugst.Port
}

func openBugSt(cfg *Config) (Port, error) {
	port, err := bugst.Open(cfg.Device, &bugst.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	if cfg.ReadTimeout > 0 {
		if err := port.SetReadTimeout(time.Duration(cfg.ReadTimeout) * time.Millisecond); err != nil {
			_ = port.Close()
			return nil, fmt.Errorf("failed to set read timeout: %w", err)
		}
	}
	return &BugStPort{port: port}, nil
}

// Read reads data from the serial port
func (p *BugStPort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

// Write writes data to the serial port
func (p *BugStPort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Close closes the serial port
func (p *BugStPort) Close() error {
	return p.port.Close()
}

// Flush discards unread input
func (p *BugStPort) Flush() error {
	return p.port.ResetInputBuffer()
}

// ListPorts returns the serial ports present on the system
func ListPorts() ([]string, error) {
	ports, err := bugst.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}
