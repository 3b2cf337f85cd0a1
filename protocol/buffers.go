package protocol

// ScratchOutput builds an outgoing message in a fixed-size buffer.
// Writes past capacity are truncated and flagged.
type ScratchOutput struct {
	buf       [MaxSysEx]byte
	pos       int
	truncated bool
}

// Output appends data to the buffer
func (s *ScratchOutput) Output(data ...byte) {
	n := copy(s.buf[s.pos:], data)
	s.pos += n
	if n < len(data) {
		s.truncated = true
	}
}

// Truncated reports whether any write was cut short
func (s *ScratchOutput) Truncated() bool {
	return s.truncated
}

// Result returns the accumulated output data
func (s *ScratchOutput) Result() []byte {
	return s.buf[:s.pos]
}

// Reset clears the buffer
func (s *ScratchOutput) Reset() {
	s.pos = 0
	s.truncated = false
}

// PacketFifo is a circular buffer of USB-MIDI packets
type PacketFifo struct {
	buf   []Packet
	read  int
	write int
	size  int
}

// NewPacketFifo creates a new PacketFifo with the specified capacity
func NewPacketFifo(capacity int) *PacketFifo {
	return &PacketFifo{
		buf:  make([]Packet, capacity),
		size: capacity,
	}
}

// Push appends a packet, returning false when the FIFO is full
func (f *PacketFifo) Push(p Packet) bool {
	nextWrite := (f.write + 1) % f.size
	if nextWrite == f.read {
		// Buffer full
		return false
	}
	f.buf[f.write] = p
	f.write = nextWrite
	return true
}

// WritePacket implements PacketWriter
func (f *PacketFifo) WritePacket(p Packet) error {
	if !f.Push(p) {
		return ErrFifoFull
	}
	return nil
}

// Pop removes the oldest packet
func (f *PacketFifo) Pop() (Packet, bool) {
	if f.read == f.write {
		return Packet{}, false
	}
	p := f.buf[f.read]
	f.read = (f.read + 1) % f.size
	return p, true
}

// Available returns the number of packets available for reading
func (f *PacketFifo) Available() int {
	if f.write >= f.read {
		return f.write - f.read
	}
	return f.size - f.read + f.write
}

// Reset clears the buffer
func (f *PacketFifo) Reset() {
	f.read = 0
	f.write = 0
}
