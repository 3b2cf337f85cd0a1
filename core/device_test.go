package core

import (
	"bytes"
	"strings"
	"testing"

	"gridpad/color"
	"gridpad/protocol"
)

func TestSetupFactoryDefaults(t *testing.T) {
	st := NewMemoryStore()
	d, _ := newTestDevice(t, st)

	if d.Settings != DefaultSettings {
		t.Errorf("Expected default settings, got %+v", d.Settings)
	}
	if st.Get(AddrVersion) != LayoutVersion {
		t.Errorf("Layout version not written")
	}
	if d.table.Count() != 4 {
		t.Errorf("Expected 4 commands, got %d", d.table.Count())
	}
	if err := d.table.Install(5, "late", func([]byte) error { return nil }); err != ErrTableSealed {
		t.Errorf("Expected ErrTableSealed, got %v", err)
	}
}

func TestPushThenPullConfig(t *testing.T) {
	d, log := newTestDevice(t, NewMemoryStore())

	sendVendor(t, d, protocol.CommandPushConfig, 0, 3, 1, 100, 10, 4)

	// Push echoes the stored configuration
	if len(log.replies) != 1 {
		t.Fatalf("Expected config echo, got %d replies", len(log.replies))
	}

	sendVendor(t, d, protocol.CommandPullConfig, 0x00)
	rec := configReply(t, log.last(t))

	want := map[uint8]uint8{TagChannel: 3, TagVelocity: 100, TagAnimations: 4}
	for tag, v := range want {
		if got, _ := rec.Get(tag); got != v {
			t.Errorf("%s = %d, expected %d", TagName(tag), got, v)
		}
	}

	if d.Settings.Channel != 2 || d.Settings.Velocity != 100 {
		t.Errorf("Settings not reloaded: %+v", d.Settings)
	}
	if ind := d.Indicator.(*FlashIndicator); !ind.Active() {
		t.Error("Acknowledge animation should be playing")
	}
}

func TestConfigRoundTrip(t *testing.T) {
	d, log := newTestDevice(t, NewMemoryStore())

	var push []byte
	pushed := map[uint8]uint8{}
	for tag := uint8(0); tag < ConfigTags; tag++ {
		v := tag + 10
		switch tag {
		case TagRotation:
			v = 2
		case TagTilt:
			v = 9
		case TagTiltMode:
			v = 0
		}
		push = append(push, tag, v)
		pushed[tag] = v
	}
	sendVendor(t, d, protocol.CommandPushConfig, push...)
	sendVendor(t, d, protocol.CommandPullConfig, 0x00)

	rec := configReply(t, log.last(t))
	for _, tag := range PullTags {
		if got, _ := rec.Get(tag); got != pushed[tag] {
			t.Errorf("%s: pushed %d, pulled %d", TagName(tag), pushed[tag], got)
		}
	}
}

func TestPushIgnoresHighTags(t *testing.T) {
	st := NewMemoryStore()
	d, log := newTestDevice(t, st)
	before := append([]byte(nil), st.Bytes()...)

	sendVendor(t, d, protocol.CommandPushConfig, 24, 9, 25, 1)

	if !bytes.Equal(before, st.Bytes()) {
		t.Error("High tags must not write the store")
	}
	rec := configReply(t, log.last(t))
	if v, _ := rec.Get(TagChannel); v != 3 {
		t.Errorf("Channel changed to %d", v)
	}
}

func TestPushVerifyFailure(t *testing.T) {
	st := &stuckStore{MemoryStore: NewMemoryStore(), stuck: AddrVelocity}
	d, log := newTestDevice(t, st)
	st.armed = true

	sendVendor(t, d, protocol.CommandPushConfig, TagVelocity, 64)

	if !hasEvent(EvtVerifyFailed) {
		t.Error("Expected a verify failure event")
	}
	if d.Indicator.(*FlashIndicator).Active() {
		t.Error("No acknowledgement should play after a failed write")
	}
	rec := configReply(t, log.last(t))
	if v, _ := rec.Get(TagVelocity); v != 127 {
		t.Errorf("Echo should carry the stored velocity, got %d", v)
	}
}

func TestPullConfigIgnoresNonRequest(t *testing.T) {
	d, log := newTestDevice(t, NewMemoryStore())

	sendVendor(t, d, protocol.CommandPullConfig, 0x01)
	sendVendor(t, d, protocol.CommandPullConfig)

	if len(log.replies) != 0 {
		t.Errorf("Expected no reply, got %d", len(log.replies))
	}
}

func TestSystemFactoryReset(t *testing.T) {
	d, log := newTestDevice(t, NewMemoryStore())

	sendVendor(t, d, protocol.CommandPushConfig, TagVelocity, 42)
	ClearEventRing()
	sendVendor(t, d, protocol.CommandSystem, SystemFactoryReset)

	if d.Settings.Velocity != 127 {
		t.Errorf("Velocity not restored, got %d", d.Settings.Velocity)
	}
	rec := configReply(t, log.last(t))
	if v, _ := rec.Get(TagVelocity); v != 127 {
		t.Errorf("Re-announced velocity %d", v)
	}
	if !hasEvent(EvtFactoryReset) {
		t.Error("Expected factory reset event")
	}
}

func TestSystemUpdateMode(t *testing.T) {
	leds := &frameLog{}
	SetLEDDriver(leds)
	t.Cleanup(func() { SetLEDDriver(nil) })

	d, _ := newTestDevice(t, NewMemoryStore())
	called := 0
	d.Bootloader = func() { called++ }

	sendVendor(t, d, protocol.CommandSystem, SystemNop)
	sendVendor(t, d, protocol.CommandSystem, 7)
	if called != 0 || len(leds.frames) != 0 {
		t.Fatal("No-op and unknown sub-commands should do nothing")
	}

	sendVendor(t, d, protocol.CommandSystem, SystemUpdateMode)
	if called != 1 {
		t.Errorf("Bootloader hook called %d times", called)
	}
	if len(leds.frames) != 1 {
		t.Fatalf("Expected update pattern rendered before the jump, got %d frames", len(leds.frames))
	}
	lit := 0
	for _, c := range leds.frames[0] {
		if !c.IsOff() {
			lit++
		}
	}
	if lit != color.ButtonCount/2 {
		t.Errorf("Expected a checkerboard of %d, got %d lit", color.ButtonCount/2, lit)
	}
}

func TestUnknownCommandIgnored(t *testing.T) {
	st := NewMemoryStore()
	d, log := newTestDevice(t, st)
	before := append([]byte(nil), st.Bytes()...)

	sendVendor(t, d, 5, 1, 2, 3)
	sendVendor(t, d, 0x7F)

	if len(log.replies) != 0 || !bytes.Equal(before, st.Bytes()) {
		t.Error("Unknown commands must have no effect")
	}
}

func TestIdentifyThroughDevice(t *testing.T) {
	d, log := newTestDevice(t, NewMemoryStore())

	sendRaw(t, d, protocol.IdentifyRequest...)

	r := log.last(t)
	if r.state != protocol.StateNonRealtime {
		t.Fatalf("Expected non-realtime reply, got %s", r.state)
	}
	id, ok := protocol.ParseIdentity(r.msg)
	if !ok || id.Model != protocol.DeviceModel {
		t.Errorf("Bad identity %+v", id)
	}
}

func TestRawColorMessages(t *testing.T) {
	d, _ := newTestDevice(t, NewMemoryStore())

	sendRaw(t, d, protocol.SysExStart, protocol.MarkerFlatList, 0, 0x30, 0, 0, protocol.SysExEnd)
	if d.Grid.Get(0) != (color.RGB{R: 50}) {
		t.Errorf("Flat list not applied: %+v", d.Grid.Get(0))
	}

	sendRaw(t, d, protocol.SysExStart, protocol.MarkerCompressed, 0, 0, 0x40|5, 0x62, protocol.SysExEnd)
	if d.Grid.Get(8) != (color.RGB{B: 7}) || d.Grid.Get(43) != (color.RGB{B: 7}) {
		t.Errorf("Compressed row not applied")
	}

	d.HandlePacket(protocol.NewPacket(protocol.CINSysExEnd3, protocol.SysExStart, protocol.MarkerClear, protocol.SysExEnd))
	for p := uint8(0); p < color.ButtonCount; p++ {
		if !d.Grid.Get(p).IsOff() {
			t.Fatalf("Button %d still lit after clear", p)
		}
	}
}

func TestDroppedMessageRecorded(t *testing.T) {
	d, _ := newTestDevice(t, NewMemoryStore())

	sendRaw(t, d, protocol.SysExStart, 0x43, 0x10, 0x4C, protocol.SysExEnd)

	if !hasEvent(EvtMessageDropped) {
		t.Error("Expected dropped message event")
	}
}

func TestNoteFeedback(t *testing.T) {
	d, _ := newTestDevice(t, NewMemoryStore())
	ch := d.Settings.Channel

	d.HandlePacket(protocol.NewPacket(protocol.CINNoteOn, 0x90|ch, FeedbackBaseNote, 5))
	if d.Grid.Get(0) != (color.RGB{R: 65}) {
		t.Errorf("Note-on not shown: %+v", d.Grid.Get(0))
	}

	d.HandlePacket(protocol.NewPacket(protocol.CINNoteOn, 0x90|(ch+5), FeedbackBaseNote+1, 5))
	d.HandlePacket(protocol.NewPacket(protocol.CINNoteOn, 0x90|ch, FeedbackBaseNote+color.ButtonCount, 5))
	d.HandlePacket(protocol.NewPacket(protocol.CINNoteOn, 0x90|ch, FeedbackBaseNote-1, 5))
	if !d.Grid.Get(1).IsOff() {
		t.Error("Other channels must be ignored")
	}

	d.HandlePacket(protocol.NewPacket(protocol.CINNoteOff, 0x80|ch, FeedbackBaseNote, 0))
	if !d.Grid.Get(0).IsOff() {
		t.Error("Note-off should clear the button")
	}
}

func TestClockBlink(t *testing.T) {
	d, _ := newTestDevice(t, NewMemoryStore())
	blinkCh := (d.Settings.Channel + 1) & 0x0F

	d.HandlePacket(protocol.NewPacket(protocol.CINNoteOn, 0x90|blinkCh, FeedbackBaseNote+2, 21))
	d.HandlePacket(protocol.NewPacket(protocol.CINSingleByte, rtStart, 0, 0))

	var f Frame
	d.Compose(&f)
	if f[2].IsOff() {
		t.Error("Blinking button should show on the beat")
	}

	for i := 0; i < PulsesPerBeat/2; i++ {
		d.HandlePacket(protocol.NewPacket(protocol.CINSingleByte, rtClock, 0, 0))
	}
	d.Compose(&f)
	if !f[2].IsOff() {
		t.Error("Blinking button should be dark off the beat")
	}

	d.HandlePacket(protocol.NewPacket(protocol.CINSingleByte, rtStop, 0, 0))
	d.Compose(&f)
	if f[2].IsOff() {
		t.Error("Stopped clock should hold the button lit")
	}
}

func TestComposeUsesIdleColors(t *testing.T) {
	st := NewMemoryStore()
	d, _ := newTestDevice(t, st)
	WriteColor(st, AddrColorsIdle, 0, 9, color.Palette[color.Pink])

	var f Frame
	d.Compose(&f)
	if f[9] != color.Palette[color.Pink] {
		t.Errorf("Idle color not shown: %+v", f[9])
	}

	d.Grid.Set(9, 10, 10, 10)
	d.Compose(&f)
	if f[9] != (color.RGB{R: 12, G: 12, B: 12}) {
		t.Errorf("Realtime color should override idle: %+v", f[9])
	}
}

func TestPacketizerFeedsDevice(t *testing.T) {
	d, log := newTestDevice(t, NewMemoryStore())

	z := protocol.NewPacketizer(d)
	z.Write([]byte{protocol.SysExStart, 0x00, 0x01, 0x79, protocol.CommandPullConfig, 0x00, protocol.SysExEnd})

	configReply(t, log.last(t))
}

func TestDeviceStatus(t *testing.T) {
	d, _ := newTestDevice(t, NewMemoryStore())
	ClearEventRing()

	sendVendor(t, d, protocol.CommandPullConfig, 0x00)
	d.HandlePacket(protocol.NewPacket(protocol.CINSysExContinue, protocol.SysExStart, 0x00, 0x01))
	d.HandlePacket(protocol.NewPacket(protocol.CINSingleByte, rtStart, 0, 0))
	RecordEvent(EvtPartRejected, 3, 0)

	want := "[DEV] rx 1 delivered, 0 dropped, in check-signature; 4 commands; 1 events, last PART_REJECTED; beat 0"
	if got := d.Status(); got != want {
		t.Errorf("Status =\n  %q\nexpected\n  %q", got, want)
	}

	d.Abort()
	d.Indicator.Acknowledge()
	if got := d.Status(); !strings.HasPrefix(got, "[DEV] rx 1 delivered, 1 dropped; ") || !strings.HasSuffix(got, "; animating") {
		t.Errorf("Expected a counted drop and a running animation, got %q", got)
	}
}
