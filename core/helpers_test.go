package core

import (
	"testing"

	"gridpad/protocol"
)

type reply struct {
	state protocol.State
	msg   []byte
}

// replyLog reassembles everything the device sends
type replyLog struct {
	replies []reply
}

func (r *replyLog) Route(state protocol.State, msg []byte) {
	r.replies = append(r.replies, reply{state: state, msg: append([]byte(nil), msg...)})
}

func (r *replyLog) ClearColors() {}

func (r *replyLog) last(t *testing.T) reply {
	t.Helper()
	if len(r.replies) == 0 {
		t.Fatal("Device sent nothing")
	}
	return r.replies[len(r.replies)-1]
}

func newTestDevice(t *testing.T, st Store) (*Device, *replyLog) {
	t.Helper()
	ResetTimers()
	SetTime(0)
	ClearEventRing()

	log := &replyLog{}
	d := NewDevice(st, protocol.NewReassembler(log))
	if err := d.Setup(); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	return d, log
}

func sendVendor(t *testing.T, d *Device, cmd byte, payload ...byte) {
	t.Helper()
	msg := append([]byte{}, protocol.VendorHeader[:]...)
	msg = append(msg, cmd)
	msg = append(msg, payload...)
	msg = append(msg, protocol.SysExEnd)
	if err := protocol.StreamSysEx(d, msg); err != nil {
		t.Fatalf("StreamSysEx: %v", err)
	}
}

func sendRaw(t *testing.T, d *Device, msg ...byte) {
	t.Helper()
	if err := protocol.StreamSysEx(d, msg); err != nil {
		t.Fatalf("StreamSysEx: %v", err)
	}
}

// configReply decodes a pull response
func configReply(t *testing.T, r reply) ConfigRecord {
	t.Helper()
	if r.state != protocol.StateVendor || len(r.msg) < 2 ||
		r.msg[0] != protocol.CommandPullConfig || r.msg[1] != configResponse {
		t.Fatalf("Not a config response: %s %X", r.state, r.msg)
	}
	if len(r.msg) != 2+2*len(PullTags) {
		t.Fatalf("Expected %d pairs, got %d bytes", len(PullTags), len(r.msg)-2)
	}
	return DecodeConfigRecord(r.msg[2:])
}

func hasEvent(eventType uint8) bool {
	for i := range eventRing {
		if eventRing[i].EventType == eventType {
			return true
		}
	}
	return false
}

// stuckStore ignores writes to one address once armed
type stuckStore struct {
	*MemoryStore
	stuck Address
	armed bool
}

func (s *stuckStore) Put(addr Address, v uint8) {
	if s.armed && addr == s.stuck {
		return
	}
	s.MemoryStore.Put(addr, v)
}

type frameLog struct {
	frames []Frame
}

func (l *frameLog) WriteFrame(f *Frame) error {
	l.frames = append(l.frames, *f)
	return nil
}
