package protocol

import (
	"bytes"
	"testing"
)

type dispatchLog struct {
	ids      []uint8
	payloads [][]byte
}

func (d *dispatchLog) Dispatch(id uint8, payload []byte) {
	d.ids = append(d.ids, id)
	d.payloads = append(d.payloads, append([]byte(nil), payload...))
}

type colorLog struct {
	lists, compressed, clears int
}

func (c *colorLog) DecodeList([]byte)       { c.lists++ }
func (c *colorLog) DecodeCompressed([]byte) { c.compressed++ }
func (c *colorLog) Clear()                  { c.clears++ }

func TestMessageRouter(t *testing.T) {
	commands := &dispatchLog{}
	colors := &colorLog{}
	out := NewPacketFifo(32)
	re := NewReassembler(&MessageRouter{Commands: commands, Colors: colors, Output: out})

	StreamSysEx(re, vendor(CommandBulkTransfer, 1, 0, 1))
	StreamSysEx(re, []byte{SysExStart, MarkerFlatList, 0, 1, 2, 3, SysExEnd})
	StreamSysEx(re, []byte{SysExStart, MarkerCompressed, 0x40, 0, 0, 0x60, SysExEnd})
	re.HandlePacket(NewPacket(CINSysExEnd3, SysExStart, MarkerClear, SysExEnd))

	if len(commands.ids) != 1 || commands.ids[0] != CommandBulkTransfer {
		t.Fatalf("Expected one bulk transfer dispatch, got %v", commands.ids)
	}
	if !bytes.Equal(commands.payloads[0], []byte{1, 0, 1}) {
		t.Errorf("Unexpected payload %v", commands.payloads[0])
	}
	if colors.lists != 1 || colors.compressed != 1 || colors.clears != 1 {
		t.Errorf("Color routing wrong: %+v", colors)
	}
	if out.Available() != 0 {
		t.Error("No output expected")
	}
}

func TestIdentify(t *testing.T) {
	out := NewPacketFifo(32)
	re := NewReassembler(&MessageRouter{Output: out})

	StreamSysEx(re, IdentifyRequest)

	var packets []Packet
	for {
		p, ok := out.Pop()
		if !ok {
			break
		}
		packets = append(packets, p)
	}
	reply := rawBytes(packets)
	if !bytes.Equal(reply, IdentifyResponse()) {
		t.Fatalf("Unexpected reply %X", reply)
	}

	id, ok := ParseIdentity(reply[3 : len(reply)-1])
	if !ok {
		t.Fatal("ParseIdentity failed")
	}
	if id.Year != VersionYear || id.Month != VersionMonth || id.Day != VersionDay {
		t.Errorf("Unexpected version %d-%d-%d", id.Year, id.Month, id.Day)
	}
	if id.Family != DeviceFamily || id.Model != DeviceModel {
		t.Errorf("Unexpected family/model %#x/%#x", id.Family, id.Model)
	}
}

func TestStreamSysExRejectsUnframed(t *testing.T) {
	if err := StreamSysEx(NewPacketFifo(4), []byte{0x01, 0x02}); err != ErrNotSysEx {
		t.Errorf("Expected ErrNotSysEx, got %v", err)
	}
}

func TestVendorMessage(t *testing.T) {
	out := &ScratchOutput{}
	msg, err := VendorMessage(out, CommandSystem, 2)
	if err != nil {
		t.Fatalf("VendorMessage: %v", err)
	}

	want := []byte{SysExStart, ManufacturerID0, ManufacturerID1, ManufacturerID2, CommandSystem, 2, SysExEnd}
	if !bytes.Equal(msg, want) {
		t.Errorf("VendorMessage = %X, expected %X", msg, want)
	}
}

func TestVendorMessageTooLong(t *testing.T) {
	out := &ScratchOutput{}

	// Header, command and F7 leave MaxSysEx-6 payload bytes
	if _, err := VendorMessage(out, CommandBulkTransfer, make([]byte, MaxSysEx-6)...); err != nil {
		t.Fatalf("Message filling the buffer rejected: %v", err)
	}
	if msg, err := VendorMessage(out, CommandBulkTransfer, make([]byte, MaxSysEx-5)...); err != ErrMessageTooLong || msg != nil {
		t.Errorf("Expected ErrMessageTooLong and no message, got %v and %d bytes", err, len(msg))
	}
}

func TestIdentifyResponseYear(t *testing.T) {
	reply := IdentifyResponse()

	// Seven bits per byte keeps every year bit: 2017 is 0F 61
	hi, lo := reply[10], reply[11]
	if hi != 0x0F || lo != 0x61 {
		t.Errorf("Year bytes = %02X %02X, expected 0F 61", hi, lo)
	}
	for i, b := range reply[1 : len(reply)-1] {
		if b&0x80 != 0 {
			t.Errorf("Byte %d (%#x) is not a SysEx data byte", i+1, b)
		}
	}

	id, ok := ParseIdentity(reply[3 : len(reply)-1])
	if !ok || id.Year != VersionYear {
		t.Errorf("ParseIdentity year = %d, expected %d", id.Year, VersionYear)
	}
}
