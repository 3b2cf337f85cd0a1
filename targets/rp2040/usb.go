//go:build rp2040 || rp2350

package main

import (
	"machine/usb/adc/midi"

	"gridpad/protocol"
)

// USBMIDI is the class-compliant MIDI interface. Received packets are
// handed to a callback from the USB interrupt.
type USBMIDI struct {
	port *midi.Midi

	rxDropped uint32
	txErrors  uint32
}

// NewUSBMIDI claims the USB MIDI port
func NewUSBMIDI() *USBMIDI {
	return &USBMIDI{port: midi.Port()}
}

// Start installs the receive callback. receive runs in interrupt context
// and reports false when it could not queue the packet.
func (u *USBMIDI) Start(receive func(protocol.Packet) bool) {
	u.port.SetHandler(func(b []byte) {
		for len(b) >= 4 {
			if !receive(protocol.DecodePacket([4]byte{b[0], b[1], b[2], b[3]})) {
				u.rxDropped++
			}
			b = b[4:]
		}
	})
}

// WritePacket implements protocol.PacketWriter
func (u *USBMIDI) WritePacket(p protocol.Packet) error {
	b := p.Bytes()
	if _, err := u.port.Write(b[:]); err != nil {
		u.txErrors++
		return err
	}
	return nil
}
