//go:build !wasm

package serial

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// maxFastEOF is how many immediate empty reads in a row mean the device
// went away
const maxFastEOF = 3

// tarmPort is the part of *serial.Port that NativePort uses
type tarmPort interface {
	io.ReadWriteCloser
	Flush() error
}

// NativePort wraps the tarm/serial implementation
type NativePort struct {
	port    tarmPort
	cfg     *Config
	fastEOF int
}

// Open opens a serial port with the configured backend
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	switch cfg.Backend {
	case "", BackendTarm:
	case BackendBugSt:
		return openBugSt(cfg)
	default:
		return nil, fmt.Errorf("unknown serial backend %q", cfg.Backend)
	}

	serialConfig := &serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	}

	port, err := serial.OpenPort(serialConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	return &NativePort{
		port: port,
		cfg:  cfg,
	}, nil
}

// Read reads data from the serial port. tarm reports an expired
// ReadTimeout as io.EOF; that returns (0, nil). An empty read that comes
// back well before the timeout is a hangup, and io.EOF is returned once
// maxFastEOF of them arrive in a row.
func (p *NativePort) Read(b []byte) (int, error) {
	start := time.Now()
	n, err := p.port.Read(b)
	if n > 0 || err != io.EOF {
		p.fastEOF = 0
		return n, err
	}

	timeout := time.Duration(p.cfg.ReadTimeout) * time.Millisecond
	if timeout > 0 && time.Since(start) >= timeout/2 {
		p.fastEOF = 0
		return 0, nil
	}
	p.fastEOF++
	if timeout == 0 || p.fastEOF >= maxFastEOF {
		return 0, io.EOF
	}
	return 0, nil
}

// Write writes data to the serial port
func (p *NativePort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Close closes the serial port
func (p *NativePort) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}

// Flush discards unread input
func (p *NativePort) Flush() error {
	return p.port.Flush()
}
