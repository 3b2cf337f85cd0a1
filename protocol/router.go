package protocol

// CommandDispatcher runs vendor commands by id
type CommandDispatcher interface {
	Dispatch(id uint8, payload []byte)
}

// ColorSink receives raw-mode color updates
type ColorSink interface {
	DecodeList(data []byte)
	DecodeCompressed(data []byte)
	Clear()
}

// MessageRouter is the device-side Router: vendor messages go to the
// command table, raw messages to the color codec, and identify requests
// are answered on Output.
type MessageRouter struct {
	Commands CommandDispatcher
	Colors   ColorSink
	Output   PacketWriter
}

// Route implements Router
func (m *MessageRouter) Route(state State, msg []byte) {
	switch state {
	case StateVendor:
		if len(msg) == 0 || m.Commands == nil {
			return
		}
		// First byte is the command id
		m.Commands.Dispatch(msg[0], msg[1:])

	case StateRawList:
		if m.Colors != nil {
			m.Colors.DecodeList(msg)
		}

	case StateRawCompressed:
		if m.Colors != nil {
			m.Colors.DecodeCompressed(msg)
		}

	case StateNonRealtime:
		if IsIdentifyRequest(msg) && m.Output != nil {
			_ = StreamSysEx(m.Output, IdentifyResponse())
		}
	}
}

// ClearColors implements Router
func (m *MessageRouter) ClearColors() {
	if m.Colors != nil {
		m.Colors.Clear()
	}
}

// IsIdentifyRequest reports whether a non-realtime payload is a device inquiry
func IsIdentifyRequest(msg []byte) bool {
	return len(msg) >= 2 && msg[0] == identifySubID && msg[1] == identifyReq
}
