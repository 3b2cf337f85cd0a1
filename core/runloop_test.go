package core

import (
	"testing"

	"gridpad/color"
	"gridpad/protocol"
)

func TestRunLoopProcessesQueuedPackets(t *testing.T) {
	d, _ := newTestDevice(t, NewMemoryStore())
	l := NewRunLoop(d, 8)

	status := 0x90 | d.Settings.Channel
	if !l.Receive(protocol.NewPacket(protocol.CINNoteOn, status, FeedbackBaseNote, 5)) {
		t.Fatal("Receive rejected a packet on an empty queue")
	}
	if !d.Grid.Get(0).IsOff() {
		t.Fatal("Packet handled before Step")
	}

	l.Step()
	if got := d.Grid.Get(0); got.IsOff() {
		t.Errorf("Expected button 0 lit after Step, got %+v", got)
	}
}

func TestRunLoopOverrun(t *testing.T) {
	d, _ := newTestDevice(t, NewMemoryStore())
	l := NewRunLoop(d, 4)

	accepted := 0
	for i := 0; i < 5; i++ {
		if l.Receive(protocol.NewPacket(protocol.CINSingleByte, rtClock, 0, 0)) {
			accepted++
		}
	}
	if accepted != 3 || l.Overruns() != 2 {
		t.Errorf("Expected 3 accepted and 2 overruns, got %d and %d", accepted, l.Overruns())
	}

	l.Step()
	if !l.Receive(protocol.NewPacket(protocol.CINSingleByte, rtClock, 0, 0)) {
		t.Error("Queue should accept packets after draining")
	}
}

func TestRunLoopRenderAndFlush(t *testing.T) {
	d, _ := newTestDevice(t, NewMemoryStore())
	frames := &frameLog{}
	SetLEDDriver(frames)
	defer SetLEDDriver(nil)

	flushes := 0
	l := NewRunLoop(d, 8)
	l.Flush = func() error {
		flushes++
		return nil
	}
	l.Start()

	d.Grid.Set(3, 48, 0, 0)
	SetTime(renderInterval)
	l.Step()
	if len(frames.frames) != 1 {
		t.Fatalf("Expected one frame, got %d", len(frames.frames))
	}
	if frames.frames[0][3] == (color.RGB{}) {
		t.Error("Rendered frame should show the realtime color")
	}

	SetTime(flushInterval)
	l.Step()
	if flushes != 1 {
		t.Errorf("Expected one flush after a second, got %d", flushes)
	}
	if len(frames.frames) != 1 {
		t.Errorf("Unchanged frames should not be rewritten, got %d frames", len(frames.frames))
	}

	d.Grid.Set(3, 0, 48, 0)
	SetTime(flushInterval + renderInterval)
	l.Step()
	if len(frames.frames) != 2 || frames.frames[1][3] == frames.frames[0][3] {
		t.Errorf("Expected a second frame with the new color, got %d frames", len(frames.frames))
	}
}

func TestRenderRewritesAfterGridWrite(t *testing.T) {
	d, _ := newTestDevice(t, NewMemoryStore())
	frames := &frameLog{}
	SetLEDDriver(frames)
	defer SetLEDDriver(nil)

	for i := 0; i < 3; i++ {
		if err := d.Render(); err != nil {
			t.Fatalf("Render: %v", err)
		}
	}
	if len(frames.frames) != 1 {
		t.Fatalf("Expected the first frame only, got %d", len(frames.frames))
	}

	// Same color again still marks the grid changed
	d.Grid.Set(5, 0, 0, 0)
	d.Render()
	if len(frames.frames) != 2 {
		t.Errorf("Expected a rewrite after a grid write, got %d frames", len(frames.frames))
	}

	d.Indicator.Acknowledge()
	d.Render()
	if len(frames.frames) != 3 {
		t.Errorf("Expected the indicator overlay rendered, got %d frames", len(frames.frames))
	}
}

func TestRunLoopStartTwice(t *testing.T) {
	d, _ := newTestDevice(t, NewMemoryStore())
	frames := &frameLog{}
	SetLEDDriver(frames)
	defer SetLEDDriver(nil)

	l := NewRunLoop(d, 8)
	l.Start()
	SetTime(renderInterval / 2)
	l.Start()

	// The second Start must not push the render back
	SetTime(renderInterval)
	l.Step()
	if len(frames.frames) != 1 {
		t.Errorf("Expected a render at the first interval, got %d frames", len(frames.frames))
	}
}

func TestRunLoopReportsOverruns(t *testing.T) {
	d, _ := newTestDevice(t, NewMemoryStore())
	l := NewRunLoop(d, 2)

	l.Receive(protocol.NewPacket(protocol.CINSingleByte, rtClock, 0, 0))
	l.Receive(protocol.NewPacket(protocol.CINSingleByte, rtClock, 0, 0))
	l.Receive(protocol.NewPacket(protocol.CINSingleByte, rtClock, 0, 0))

	l.Step()
	if l.reported != 2 {
		t.Errorf("Expected 2 overruns reported, got %d", l.reported)
	}
	l.Step()
	if l.reported != l.Overruns() {
		t.Errorf("Report should track Overruns, got %d of %d", l.reported, l.Overruns())
	}
}

func TestRunLoopWithoutFlush(t *testing.T) {
	d, _ := newTestDevice(t, NewMemoryStore())
	l := NewRunLoop(d, 8)
	l.Start()

	if TimerPending(&l.flushTimer) {
		t.Error("Flush timer should not run without a Flush hook")
	}
	SetTime(flushInterval)
	l.Step()
}

func TestRunLoopDefersPacketsQueuedDuringStep(t *testing.T) {
	d, _ := newTestDevice(t, NewMemoryStore())
	l := NewRunLoop(d, 8)

	note := protocol.NewPacket(protocol.CINNoteOn, 0x90|d.Settings.Channel, FeedbackBaseNote, 5)
	d.Bootloader = func() { l.Receive(note) }

	queue := protocol.PacketWriterFunc(func(p protocol.Packet) error {
		if !l.Receive(p) {
			return protocol.ErrFifoFull
		}
		return nil
	})
	msg := append([]byte{}, protocol.VendorHeader[:]...)
	msg = append(msg, protocol.CommandSystem, SystemUpdateMode, protocol.SysExEnd)
	if err := protocol.StreamSysEx(queue, msg); err != nil {
		t.Fatalf("StreamSysEx: %v", err)
	}

	l.Step()
	if !d.Grid.Get(0).IsOff() {
		t.Error("Packet queued by a handler ran in the same Step")
	}
	l.Step()
	if d.Grid.Get(0).IsOff() {
		t.Error("Deferred packet not handled on the next Step")
	}
}
