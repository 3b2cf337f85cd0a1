package protocol

// State is the classification of the SysEx message being reassembled
type State uint8

const (
	StateBegin          State = iota // No message in progress
	StateCheckSignature              // Two manufacturer bytes seen, third pending
	StateInvalid                     // Foreign, malformed or overflowed; absorb until the end
	StateNonRealtime                 // Universal non-realtime message
	StateVendor                      // Manufacturer signature confirmed
	StateRawList                     // Flat color list, no command framing
	StateRawCompressed               // Compressed color list, no command framing
)

func (s State) String() string {
	switch s {
	case StateBegin:
		return "begin"
	case StateCheckSignature:
		return "check-signature"
	case StateInvalid:
		return "invalid"
	case StateNonRealtime:
		return "non-realtime"
	case StateVendor:
		return "vendor"
	case StateRawList:
		return "raw-list"
	case StateRawCompressed:
		return "raw-compressed"
	default:
		return "unknown"
	}
}

// Router receives completed messages from the Reassembler
type Router interface {
	// Route handles a complete message. msg holds the bytes after the
	// signature with the end marker removed, and is only valid for the
	// duration of the call.
	Route(state State, msg []byte)

	// ClearColors handles the out-of-band clear marker
	ClearColors()
}

// Reassembler rebuilds SysEx messages from USB-MIDI packets.
// It holds a single in-flight message and is not reentrant.
type Reassembler struct {
	buf     [MaxSysEx]byte
	n       int
	reading bool
	state   State
	router  Router

	delivered uint32
	dropped   uint32
}

// NewReassembler creates a Reassembler delivering to router
func NewReassembler(router Router) *Reassembler {
	return &Reassembler{router: router}
}

// State returns the current reassembly state
func (r *Reassembler) State() State {
	return r.state
}

// Reading reports whether a message is in progress
func (r *Reassembler) Reading() bool {
	return r.reading
}

// Delivered returns the number of messages handed to the router
func (r *Reassembler) Delivered() uint32 {
	return r.delivered
}

// Dropped returns the number of messages abandoned at their end packet
func (r *Reassembler) Dropped() uint32 {
	return r.dropped
}

// WritePacket implements PacketWriter
func (r *Reassembler) WritePacket(p Packet) error {
	r.HandlePacket(p)
	return nil
}

// HandlePacket consumes one packet. Non-SysEx packets are ignored.
func (r *Reassembler) HandlePacket(p Packet) {
	switch {
	case !p.IsSysEx():
	case p.IsTerminal():
		r.handleEnd(p)
	default:
		r.handleContinue(p.Data)
	}
}

// Abort abandons the message in progress without delivering it
func (r *Reassembler) Abort() {
	if r.reading {
		r.dropped++
	}
	r.reset()
}

func (r *Reassembler) handleContinue(d [3]byte) {
	if !r.reading {
		// Start a new message
		r.reading = true
		r.n = 0
		r.state = r.classify(d)
		return
	}

	switch r.state {
	case StateInvalid:
		// Ignore until the end packet
	case StateCheckSignature:
		r.confirmSignature(d)
	default:
		r.append(d[0], d[1], d[2])
	}
}

// classify matches the first packet of a message against the known signatures
func (r *Reassembler) classify(d [3]byte) State {
	if d[0] != SysExStart {
		return StateInvalid
	}

	switch {
	case d[1] == UniversalNonRealtime && d[2] == AllCallDevice:
		return StateNonRealtime
	case d[1] == ManufacturerID0 && d[2] == ManufacturerID1:
		return StateCheckSignature
	case d[1] == MarkerFlatList:
		r.buf[0] = d[2]
		r.n = 1
		return StateRawList
	case d[1] == MarkerCompressed:
		r.buf[0] = d[2]
		r.n = 1
		return StateRawCompressed
	default:
		return StateInvalid
	}
}

func (r *Reassembler) confirmSignature(d [3]byte) {
	if d[0] != ManufacturerID2 {
		r.state = StateInvalid
		return
	}
	r.state = StateVendor
	r.append(d[1], d[2])
}

// append adds bytes to the buffer, moving to StateInvalid on overflow
func (r *Reassembler) append(data ...byte) {
	if r.n+len(data) > len(r.buf) {
		r.state = StateInvalid
		return
	}
	r.n += copy(r.buf[r.n:], data)
}

func (r *Reassembler) handleEnd(p Packet) {
	defer r.reset()

	if !r.reading {
		// A complete message in one packet; only the clear marker is meaningful
		if p.CIN == CINSysExEnd3 && p.Data[0] == SysExStart && p.Data[1] == MarkerClear {
			if r.router != nil {
				r.router.ClearColors()
			}
		}
		return
	}

	switch r.state {
	case StateInvalid:
		// Already abandoned
	case StateCheckSignature:
		// The third manufacturer byte arrives with the end packet
		if p.CIN != CINSysExEnd3 {
			r.state = StateInvalid
			break
		}
		r.confirmSignature(p.Data)
	default:
		r.append(p.Payload()...)
	}

	r.deliver()
}

func (r *Reassembler) deliver() {
	if r.state == StateInvalid || r.state == StateBegin {
		r.dropped++
		return
	}

	msg := r.buf[:r.n]
	if len(msg) > 0 && msg[len(msg)-1] == SysExEnd {
		msg = msg[:len(msg)-1]
	}

	r.delivered++
	if r.router != nil {
		r.router.Route(r.state, msg)
	}
}

func (r *Reassembler) reset() {
	r.reading = false
	r.state = StateBegin
	r.n = 0
}
