package core

import "gridpad/color"

// Indicator shows device status animations
type Indicator interface {
	// Acknowledge plays after a configuration push was stored
	Acknowledge()
	// ConfirmReset plays after a factory reset
	ConfirmReset()
	// EnterUpdateMode shows the firmware update pattern
	EnterUpdateMode()
}

// Overlayer is implemented by indicators that draw over the frame
type Overlayer interface {
	Overlay(f *Frame)
}

const (
	ackSteps    = 15
	resetPhases = 3
)

var (
	ackInterval   = TimerFromMS(14)
	flashInterval = TimerFromMS(100)
)

const (
	modeIdle uint8 = iota
	modeAck
	modeReset
	modeUpdate
)

const allButtons = ^uint64(0)

// FlashIndicator animates on the LED grid using the timer scheduler. The
// acknowledgement is a blue band sweeping across both halves, a reset
// blinks white (on, off, on) and update mode holds a checkerboard.
type FlashIndicator struct {
	timer Timer
	mode  uint8
	step  uint8
	mask  uint64
	fill  color.RGB
	cover bool // unmasked buttons go dark instead of showing through
}

// NewFlashIndicator creates an idle indicator
func NewFlashIndicator() *FlashIndicator {
	f := &FlashIndicator{}
	f.timer.Handler = f.tick
	return f
}

// Active reports whether an animation is showing
func (f *FlashIndicator) Active() bool {
	return f.mode != modeIdle
}

// Acknowledge implements Indicator
func (f *FlashIndicator) Acknowledge() {
	f.start(modeAck, ackInterval)
	f.fill = color.Palette[color.Blue]
	f.cover = false
	f.drawAck()
}

// ConfirmReset implements Indicator
func (f *FlashIndicator) ConfirmReset() {
	f.start(modeReset, flashInterval)
	f.fill = color.Palette[color.White]
	f.cover = true
	f.mask = allButtons
}

// EnterUpdateMode implements Indicator. The pattern stays until the
// device restarts.
func (f *FlashIndicator) EnterUpdateMode() {
	CancelTimer(&f.timer)
	f.mode = modeUpdate
	f.step = 0
	f.fill = color.Palette[color.Orange]
	f.cover = true
	f.mask = checkerboard()
}

func (f *FlashIndicator) start(mode uint8, interval uint32) {
	f.mode = mode
	f.step = 0
	f.timer.WakeTime = GetTime() + interval
	ScheduleTimer(&f.timer)
}

func (f *FlashIndicator) stop() uint8 {
	f.mode = modeIdle
	f.mask = 0
	return SF_DONE
}

func (f *FlashIndicator) tick(t *Timer) uint8 {
	f.step++
	switch f.mode {
	case modeAck:
		if f.step >= ackSteps {
			return f.stop()
		}
		f.drawAck()
		t.WakeTime += ackInterval

	case modeReset:
		if f.step >= resetPhases {
			return f.stop()
		}
		if f.step&1 == 1 {
			f.mask = 0
		} else {
			f.mask = allButtons
		}
		t.WakeTime += flashInterval

	default:
		return SF_DONE
	}
	return SF_RESCHEDULE
}

// drawAck lights the current step of the sweep: a diagonal band that
// grows to four buttons and shrinks again, the right half trailing the
// left by four steps
func (f *FlashIndicator) drawAck() {
	f.mask = ackBand(0, int(f.step)) | ackBand(32, int(f.step)-4)
}

func ackBand(start, pos int) uint64 {
	var n int
	switch {
	case pos < 0:
		return 0
	case pos < 3:
		n = pos + 1
	case pos < 8:
		n = 4
	case pos < 11:
		n = 11 - pos
	default:
		return 0
	}

	offset := pos
	if pos >= 4 {
		offset = 4*pos - 9
	}

	var m uint64
	for i := 0; i < n; i++ {
		m |= 1 << uint(start+offset+i*3)
	}
	return m
}

// checkerboard alternates buttons by physical row and column. Buttons
// 0-31 are the left half, four per row.
func checkerboard() uint64 {
	var m uint64
	for p := 0; p < color.ButtonCount; p++ {
		row, col := (p&0x1F)>>2, p&0x03
		if p >= 32 {
			col += 4
		}
		if (row+col)&1 == 0 {
			m |= 1 << uint(p)
		}
	}
	return m
}

// Overlay implements Overlayer
func (f *FlashIndicator) Overlay(fr *Frame) {
	if f.mode == modeIdle {
		return
	}
	for p := range fr {
		switch {
		case f.mask&(1<<uint(p)) != 0:
			fr[p] = f.fill
		case f.cover:
			fr[p] = color.RGB{}
		}
	}
}
