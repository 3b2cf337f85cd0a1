package core

import (
	"math/bits"
	"testing"

	"gridpad/color"
)

func newTestIndicator() *FlashIndicator {
	ResetTimers()
	SetTime(0)
	return NewFlashIndicator()
}

func advance(ticks uint32) {
	SetTime(GetTime() + ticks)
	ProcessTimers()
}

func maskOf(buttons ...int) uint64 {
	var m uint64
	for _, b := range buttons {
		m |= 1 << uint(b)
	}
	return m
}

func TestAcknowledgeSweep(t *testing.T) {
	f := newTestIndicator()
	f.Acknowledge()

	if !f.Active() || f.mask != maskOf(0) {
		t.Fatalf("Step 0: expected button 0 lit, got %064b", f.mask)
	}

	advance(ackInterval - 1)
	if f.step != 0 {
		t.Fatal("Sweep advanced before its interval")
	}

	advance(1)
	if f.mask != maskOf(1, 4) {
		t.Errorf("Step 1: got %064b", f.mask)
	}

	for f.step < 8 {
		advance(ackInterval)
	}
	if want := maskOf(23, 26, 29, 39, 42, 45, 48); f.mask != want {
		t.Errorf("Step 8: got %064b, want %064b", f.mask, want)
	}

	for i := 0; i < ackSteps; i++ {
		advance(ackInterval)
	}
	if f.Active() {
		t.Error("Sweep should finish after its last step")
	}
	if TimerPending(&f.timer) {
		t.Error("Timer should not be rescheduled after the sweep")
	}
}

func TestAcknowledgeOverlayShowsThrough(t *testing.T) {
	f := newTestIndicator()
	f.Acknowledge()

	var fr Frame
	fr[10] = color.Palette[color.Red]
	f.Overlay(&fr)

	if fr[0] != color.Palette[color.Blue] {
		t.Errorf("Button 0 should be blue, got %+v", fr[0])
	}
	if fr[10] != color.Palette[color.Red] {
		t.Errorf("Unmasked button should keep its color, got %+v", fr[10])
	}
}

func TestConfirmResetBlinks(t *testing.T) {
	f := newTestIndicator()
	f.ConfirmReset()

	var fr Frame
	for i := range fr {
		fr[i] = color.Palette[color.Green]
	}

	phases := []bool{true, false, true}
	for i, lit := range phases {
		got := fr
		f.Overlay(&got)
		want := color.RGB{}
		if lit {
			want = color.Palette[color.White]
		}
		for p := range got {
			if got[p] != want {
				t.Fatalf("Phase %d button %d: got %+v, want %+v", i, p, got[p], want)
			}
		}
		advance(flashInterval)
	}

	if f.Active() {
		t.Error("Reset blink should end after three phases")
	}
	got := fr
	f.Overlay(&got)
	if got != fr {
		t.Error("Idle indicator must not touch the frame")
	}
}

func TestUpdateModeCheckerboard(t *testing.T) {
	f := newTestIndicator()
	f.Acknowledge()
	f.EnterUpdateMode()

	if TimerPending(&f.timer) {
		t.Error("Update mode should cancel running animations")
	}
	if n := bits.OnesCount64(f.mask); n != 32 {
		t.Errorf("Expected 32 lit buttons, got %d", n)
	}
	if f.mask&maskOf(0) == 0 || f.mask&maskOf(1) != 0 || f.mask&maskOf(4) != 0 || f.mask&maskOf(5) == 0 {
		t.Errorf("Unexpected checkerboard %064b", f.mask)
	}

	advance(10 * flashInterval)
	if !f.Active() {
		t.Error("Update mode pattern should persist")
	}
}
