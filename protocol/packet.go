package protocol

// CodeIndex is the USB-MIDI code index number of an event packet
type CodeIndex uint8

// USB-MIDI code index numbers
const (
	CINMisc          CodeIndex = 0x0
	CINCable         CodeIndex = 0x1
	CINSystemCommon2 CodeIndex = 0x2
	CINSystemCommon3 CodeIndex = 0x3
	CINSysExContinue CodeIndex = 0x4 // 3-byte SysEx start or continue
	CINSysExEnd1     CodeIndex = 0x5 // 1-byte SysEx end or system common
	CINSysExEnd2     CodeIndex = 0x6
	CINSysExEnd3     CodeIndex = 0x7
	CINNoteOff       CodeIndex = 0x8
	CINNoteOn        CodeIndex = 0x9
	CINPolyPressure  CodeIndex = 0xA
	CINControlChange CodeIndex = 0xB
	CINProgramChange CodeIndex = 0xC
	CINChannelPress  CodeIndex = 0xD
	CINPitchBend     CodeIndex = 0xE
	CINSingleByte    CodeIndex = 0xF
)

// Packet is one 4-byte USB-MIDI event packet
type Packet struct {
	Cable uint8
	CIN   CodeIndex
	Data  [3]byte
}

// NewPacket builds a packet on cable 0
func NewPacket(cin CodeIndex, b1, b2, b3 byte) Packet {
	return Packet{CIN: cin, Data: [3]byte{b1, b2, b3}}
}

// DecodePacket decodes the 4-byte wire form (cable in the high nibble of byte 0)
func DecodePacket(b [4]byte) Packet {
	return Packet{
		Cable: b[0] >> 4,
		CIN:   CodeIndex(b[0] & 0x0F),
		Data:  [3]byte{b[1], b[2], b[3]},
	}
}

// Bytes encodes the packet to its 4-byte wire form
func (p Packet) Bytes() [4]byte {
	return [4]byte{p.Cable<<4 | uint8(p.CIN&0x0F), p.Data[0], p.Data[1], p.Data[2]}
}

// PayloadLen returns how many of the data bytes are meaningful
func (p Packet) PayloadLen() int {
	switch p.CIN {
	case CINSysExEnd1, CINSingleByte:
		return 1
	case CINSysExEnd2, CINSystemCommon2, CINProgramChange, CINChannelPress:
		return 2
	case CINMisc, CINCable:
		return 0
	default:
		return 3
	}
}

// Payload returns the meaningful data bytes
func (p *Packet) Payload() []byte {
	return p.Data[:p.PayloadLen()]
}

// IsSysEx reports whether the packet belongs to a SysEx transfer
func (p Packet) IsSysEx() bool {
	return p.CIN >= CINSysExContinue && p.CIN <= CINSysExEnd3
}

// IsTerminal reports whether the packet ends a SysEx transfer
func (p Packet) IsTerminal() bool {
	return p.CIN >= CINSysExEnd1 && p.CIN <= CINSysExEnd3
}

// PacketWriter accepts outgoing packets
type PacketWriter interface {
	WritePacket(p Packet) error
}

// PacketWriterFunc adapts a function to PacketWriter
type PacketWriterFunc func(p Packet) error

func (f PacketWriterFunc) WritePacket(p Packet) error {
	return f(p)
}
