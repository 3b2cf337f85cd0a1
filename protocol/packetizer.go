package protocol

// SysExAborter is implemented by packet consumers that can abandon a
// message interrupted by a status byte
type SysExAborter interface {
	Abort()
}

// Packetizer converts a raw MIDI byte stream (serial MIDI) into USB-MIDI
// packets so the same Reassembler can consume it
type Packetizer struct {
	out PacketWriter

	sysex   [3]byte
	sysexN  int
	inSysEx bool

	status  byte // running status
	data    [2]byte
	dataN   int
	dataLen int
}

// NewPacketizer creates a Packetizer writing to out
func NewPacketizer(out PacketWriter) *Packetizer {
	return &Packetizer{out: out}
}

// Write implements io.Writer
func (z *Packetizer) Write(data []byte) (int, error) {
	for i, b := range data {
		if err := z.WriteByte(b); err != nil {
			return i, err
		}
	}
	return len(data), nil
}

// WriteByte feeds one byte of the stream
func (z *Packetizer) WriteByte(b byte) error {
	switch {
	case b >= 0xF8:
		// Realtime bytes may appear anywhere, including inside SysEx
		return z.out.WritePacket(NewPacket(CINSingleByte, b, 0, 0))

	case b == SysExStart:
		z.abortSysEx()
		z.inSysEx = true
		z.status = 0
		z.sysex[0] = b
		z.sysexN = 1
		return nil

	case b == SysExEnd:
		if !z.inSysEx {
			return nil
		}
		z.sysex[z.sysexN] = b
		z.sysexN++
		z.inSysEx = false
		return z.flushSysEx(true)

	case b&0x80 != 0:
		// Any other status byte terminates SysEx without completing it
		z.abortSysEx()
		return z.startStatus(b)

	case z.inSysEx:
		z.sysex[z.sysexN] = b
		z.sysexN++
		if z.sysexN == 3 {
			return z.flushSysEx(false)
		}
		return nil

	default:
		return z.dataByte(b)
	}
}

func (z *Packetizer) flushSysEx(end bool) error {
	n := z.sysexN
	z.sysexN = 0
	if !end {
		return z.out.WritePacket(NewPacket(CINSysExContinue, z.sysex[0], z.sysex[1], z.sysex[2]))
	}

	switch n {
	case 1:
		return z.out.WritePacket(NewPacket(CINSysExEnd1, z.sysex[0], 0, 0))
	case 2:
		return z.out.WritePacket(NewPacket(CINSysExEnd2, z.sysex[0], z.sysex[1], 0))
	default:
		return z.out.WritePacket(NewPacket(CINSysExEnd3, z.sysex[0], z.sysex[1], z.sysex[2]))
	}
}

func (z *Packetizer) abortSysEx() {
	if !z.inSysEx {
		return
	}
	z.inSysEx = false
	z.sysexN = 0
	if a, ok := z.out.(SysExAborter); ok {
		a.Abort()
	}
}

func (z *Packetizer) startStatus(b byte) error {
	z.dataN = 0
	switch {
	case b < 0xF0:
		z.status = b
		switch b & 0xF0 {
		case 0xC0, 0xD0:
			z.dataLen = 1
		default:
			z.dataLen = 2
		}
		return nil
	case b == 0xF1 || b == 0xF3:
		z.status = b
		z.dataLen = 1
		return nil
	case b == 0xF2:
		z.status = b
		z.dataLen = 2
		return nil
	default:
		// F4, F5, F6: single byte system common, clears running status
		z.status = 0
		return z.out.WritePacket(NewPacket(CINSysExEnd1, b, 0, 0))
	}
}

func (z *Packetizer) dataByte(b byte) error {
	if z.status == 0 {
		return nil
	}
	z.data[z.dataN] = b
	z.dataN++
	if z.dataN < z.dataLen {
		return nil
	}
	z.dataN = 0

	var cin CodeIndex
	switch {
	case z.status < 0xF0:
		cin = CodeIndex(z.status >> 4)
	case z.dataLen == 1:
		cin = CINSystemCommon2
	default:
		cin = CINSystemCommon3
	}

	p := NewPacket(cin, z.status, z.data[0], 0)
	if z.dataLen == 2 {
		p.Data[2] = z.data[1]
	}
	if z.status >= 0xF0 {
		// System common messages do not establish running status
		z.status = 0
	}
	return z.out.WritePacket(p)
}
