package protocol

// StreamSysEx splits a complete F0 ... F7 message into USB-MIDI packets.
// Full 3-byte packets are sent while more than three bytes remain, the
// rest goes out in a single end packet sized to fit.
func StreamSysEx(w PacketWriter, msg []byte) error {
	if len(msg) < 2 || msg[0] != SysExStart || msg[len(msg)-1] != SysExEnd {
		return ErrNotSysEx
	}

	i := 0
	for len(msg)-i > 3 {
		if err := w.WritePacket(NewPacket(CINSysExContinue, msg[i], msg[i+1], msg[i+2])); err != nil {
			return err
		}
		i += 3
	}

	switch len(msg) - i {
	case 1:
		return w.WritePacket(NewPacket(CINSysExEnd1, msg[i], 0, 0))
	case 2:
		return w.WritePacket(NewPacket(CINSysExEnd2, msg[i], msg[i+1], 0))
	default:
		return w.WritePacket(NewPacket(CINSysExEnd3, msg[i], msg[i+1], msg[i+2]))
	}
}

// VendorMessage wraps a command and payload in the vendor envelope. The
// result aliases out and is only valid until the next Reset.
func VendorMessage(out *ScratchOutput, command byte, payload ...byte) ([]byte, error) {
	out.Reset()
	out.Output(VendorHeader[:]...)
	out.Output(command)
	out.Output(payload...)
	out.Output(SysExEnd)
	if out.Truncated() {
		return nil, ErrMessageTooLong
	}
	return out.Result(), nil
}
