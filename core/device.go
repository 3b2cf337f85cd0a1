package core

import (
	"gridpad/color"
	"gridpad/protocol"
)

// Device ties the protocol layer to storage, the color grid and the
// command handlers. It is driven from a single loop; nothing here is
// safe for concurrent use.
type Device struct {
	Store      Store
	Settings   Settings
	Grid       color.Grid
	Indicator  Indicator
	Bootloader func() // does not return on hardware

	output      protocol.PacketWriter
	table       CommandTable
	router      protocol.MessageRouter
	reassembler *protocol.Reassembler
	scratch     protocol.ScratchOutput
	clock       MIDIClock
	flashing    uint64 // buttons blinking with the MIDI clock

	shown   Frame // last frame written to the LED driver
	painted bool
}

var discardPackets = protocol.PacketWriterFunc(func(protocol.Packet) error { return nil })

// NewDevice creates a device over st sending replies to output
func NewDevice(st Store, output protocol.PacketWriter) *Device {
	if output == nil {
		output = discardPackets
	}
	d := &Device{
		Store:     st,
		Indicator: NewFlashIndicator(),
		output:    output,
	}
	d.router = protocol.MessageRouter{
		Commands: &d.table,
		Colors:   &d.Grid,
		Output:   output,
	}
	d.reassembler = protocol.NewReassembler(&d.router)
	return d
}

// Setup validates the store layout, loads settings and installs the
// command handlers. The command table is sealed afterwards.
func (d *Device) Setup() error {
	if CheckLayout(d.Store) {
		DebugPrintln("[DEV] store initialized with factory defaults")
	}
	d.ReloadSettings()

	if err := d.installCommands(); err != nil {
		return err
	}
	d.table.Seal()
	if IsDebugEnabled() {
		DebugPrintln("[DEV] commands:\n" + d.table.Describe())
	}
	return nil
}

// ReloadSettings refreshes the runtime settings from the store
func (d *Device) ReloadSettings() {
	d.Settings = LoadSettings(d.Store)
}

// HandlePacket processes one received packet to completion
func (d *Device) HandlePacket(p protocol.Packet) {
	switch p.CIN {
	case protocol.CINSysExContinue, protocol.CINSysExEnd1, protocol.CINSysExEnd2, protocol.CINSysExEnd3:
		dropped := d.reassembler.Dropped()
		d.reassembler.HandlePacket(p)
		if d.reassembler.Dropped() != dropped {
			RecordEvent(EvtMessageDropped, 0, d.reassembler.Dropped())
		}

	case protocol.CINNoteOn:
		d.noteOn(p.Data[0], p.Data[1], p.Data[2])

	case protocol.CINNoteOff:
		d.noteOff(p.Data[0], p.Data[1])

	case protocol.CINSingleByte:
		d.clock.Handle(p.Data[0])
	}
}

// WritePacket implements protocol.PacketWriter so a Packetizer can feed
// the device directly
func (d *Device) WritePacket(p protocol.Packet) error {
	d.HandlePacket(p)
	return nil
}

// Abort implements protocol.SysExAborter
func (d *Device) Abort() {
	d.reassembler.Abort()
}

// Compose builds the frame to display: stored idle colors, overridden by
// realtime colors, then any indicator animation on top
func (d *Device) Compose(f *Frame) {
	blink := d.clock.Running() && !d.clock.OnBeat()
	cells := d.Grid.Cells()
	for p := uint8(0); p < color.ButtonCount; p++ {
		c := cells[p]
		if c.IsOff() {
			c = ReadColor(d.Store, AddrColorsIdle, 0, p)
		} else if blink && d.flashing&(1<<p) != 0 {
			c = color.RGB{}
		}
		f[p] = c
	}

	if o, ok := d.Indicator.(Overlayer); ok {
		o.Overlay(f)
	}
}

// Render composes a frame and writes it to the registered LED driver.
// Unchanged frames are skipped unless the realtime grid was written.
func (d *Device) Render() error {
	if ledDriver == nil {
		return nil
	}
	var f Frame
	d.Compose(&f)
	if !d.Grid.TakeDirty() && d.painted && f == d.shown {
		return nil
	}
	if err := ledDriver.WriteFrame(&f); err != nil {
		return err
	}
	d.shown, d.painted = f, true
	return nil
}

// Status summarizes the receive counters and activity for the debug port
func (d *Device) Status() string {
	r := d.reassembler
	s := "[DEV] rx " + utoa(r.Delivered()) + " delivered, " + utoa(r.Dropped()) + " dropped"
	if r.Reading() {
		s += ", in " + r.State().String()
	}
	s += "; " + itoa(d.table.Count()) + " commands; " + utoa(EventCount()) + " events"
	if ev, ok := LastEvent(); ok {
		s += ", last " + eventName(ev.EventType)
	}
	if d.clock.Running() {
		s += "; beat " + utoa(d.clock.Beat())
	}
	if f, ok := d.Indicator.(*FlashIndicator); ok && f.Active() {
		s += "; animating"
	}
	return s
}

// send streams a complete SysEx message to the host
func (d *Device) send(msg []byte) error {
	return protocol.StreamSysEx(d.output, msg)
}
