package protocol

import "testing"

func TestScratchOutput(t *testing.T) {
	scratch := &ScratchOutput{}

	scratch.Output(1, 2, 3)

	result := scratch.Result()
	if len(result) != 3 {
		t.Errorf("Expected 3 bytes in result, got %d", len(result))
	}

	scratch.Output(4, 5)

	result = scratch.Result()
	if len(result) != 5 || result[0] != 1 || result[4] != 5 {
		t.Errorf("Expected [1 2 3 4 5], got %v", result)
	}

	// Test Reset
	scratch.Reset()
	if len(scratch.Result()) != 0 {
		t.Errorf("After reset, expected empty result, got %v", scratch.Result())
	}
}

func TestScratchOutputTruncates(t *testing.T) {
	scratch := &ScratchOutput{}

	scratch.Output(make([]byte, MaxSysEx-1)...)
	if scratch.Truncated() {
		t.Error("Buffer should not be truncated below capacity")
	}

	scratch.Output(1, 2)
	if !scratch.Truncated() {
		t.Error("Expected truncation past capacity")
	}
	if len(scratch.Result()) != MaxSysEx {
		t.Errorf("Expected %d bytes, got %d", MaxSysEx, len(scratch.Result()))
	}

	scratch.Reset()
	if scratch.Truncated() {
		t.Error("Reset should clear the truncation flag")
	}
}

func TestPacketFifo(t *testing.T) {
	fifo := NewPacketFifo(10)

	if fifo.Available() != 0 {
		t.Errorf("Empty FIFO should have 0 available, got %d", fifo.Available())
	}

	for i := 0; i < 5; i++ {
		if err := fifo.WritePacket(NewPacket(CINNoteOn, 0x90, byte(36+i), 127)); err != nil {
			t.Fatalf("WritePacket %d: %v", i, err)
		}
	}

	if fifo.Available() != 5 {
		t.Errorf("Expected 5 packets available, got %d", fifo.Available())
	}

	for i := 0; i < 3; i++ {
		p, ok := fifo.Pop()
		if !ok {
			t.Fatalf("Pop %d returned nothing", i)
		}
		if p.Data[1] != byte(36+i) {
			t.Errorf("Pop %d: expected note %d, got %d", i, 36+i, p.Data[1])
		}
	}

	if fifo.Available() != 2 {
		t.Errorf("After popping 3, expected 2 available, got %d", fifo.Available())
	}

	// One slot is reserved to tell full from empty
	fifo.Reset()
	pushed := 0
	for i := 0; i < 12; i++ {
		if fifo.Push(Packet{}) {
			pushed++
		}
	}
	if pushed != 9 {
		t.Errorf("Expected to push 9 packets to size-10 FIFO, pushed %d", pushed)
	}
	if fifo.Available() != 9 {
		t.Errorf("Full FIFO should hold 9 packets, got %d", fifo.Available())
	}
	if err := fifo.WritePacket(Packet{}); err != ErrFifoFull {
		t.Errorf("Expected ErrFifoFull, got %v", err)
	}
}

func TestPacketFifoWrapAround(t *testing.T) {
	fifo := NewPacketFifo(5)

	for i := byte(1); i <= 4; i++ {
		fifo.Push(NewPacket(CINSingleByte, i, 0, 0))
	}

	fifo.Pop()
	fifo.Pop()

	// Wraps past the end of the backing slice
	if !fifo.Push(NewPacket(CINSingleByte, 5, 0, 0)) || !fifo.Push(NewPacket(CINSingleByte, 6, 0, 0)) {
		t.Fatal("Expected room after popping two packets")
	}

	var got []byte
	for {
		p, ok := fifo.Pop()
		if !ok {
			break
		}
		got = append(got, p.Data[0])
	}
	if len(got) != 4 || got[0] != 3 || got[1] != 4 || got[2] != 5 || got[3] != 6 {
		t.Errorf("Wrap-around data mismatch: got %v", got)
	}
}
