package core

import "gridpad/color"

// FeedbackBaseNote is the note lighting button 0
const FeedbackBaseNote = 36

// feedbackButton maps a note to a button index
func feedbackButton(note uint8) (uint8, bool) {
	if note < FeedbackBaseNote || note >= FeedbackBaseNote+color.ButtonCount {
		return 0, false
	}
	return note - FeedbackBaseNote, true
}

// noteOn lights a button from the velocity palette. Notes on the
// configured channel are steady, notes on the following channel blink
// with the MIDI clock.
func (d *Device) noteOn(status, note, velocity uint8) {
	p, ok := feedbackButton(note)
	if !ok {
		return
	}

	ch := status & 0x0F
	switch ch {
	case d.Settings.Channel & 0x0F:
		d.flashing &^= 1 << p
	case (d.Settings.Channel + 1) & 0x0F:
		d.flashing |= 1 << p
	default:
		return
	}
	d.Grid.SetFromPalette(p, velocity)
}

func (d *Device) noteOff(status, note uint8) {
	p, ok := feedbackButton(note)
	if !ok {
		return
	}
	ch := status & 0x0F
	if ch != d.Settings.Channel&0x0F && ch != (d.Settings.Channel+1)&0x0F {
		return
	}
	d.flashing &^= 1 << p
	d.Grid.SetUnsafe(p, 0, 0, 0)
}
