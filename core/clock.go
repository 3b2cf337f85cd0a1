package core

// MIDI realtime bytes
const (
	rtClock    = 0xF8
	rtStart    = 0xFA
	rtContinue = 0xFB
	rtStop     = 0xFC
)

// PulsesPerBeat is the MIDI clock resolution
const PulsesPerBeat = 24

// MIDIClock follows the host's realtime clock
type MIDIClock struct {
	pulses  uint32
	running bool
}

// Handle consumes one realtime byte
func (c *MIDIClock) Handle(b byte) {
	switch b {
	case rtClock:
		if c.running {
			c.pulses++
		}
	case rtStart:
		c.pulses = 0
		c.running = true
	case rtContinue:
		c.running = true
	case rtStop:
		c.running = false
	}
}

// Running reports whether the clock is started
func (c *MIDIClock) Running() bool {
	return c.running
}

// Beat returns the number of whole beats since start
func (c *MIDIClock) Beat() uint32 {
	return c.pulses / PulsesPerBeat
}

// OnBeat reports whether the clock is in the first half of a beat
func (c *MIDIClock) OnBeat() bool {
	return c.pulses%PulsesPerBeat < PulsesPerBeat/2
}
