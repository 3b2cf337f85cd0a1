//go:build rp2040

package main

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"gridpad/core"
)

// WS2812 bit program, ten cycles per bit at 8MHz: a zero is three cycles
// high, a one seven. Autopull stalls on "out" with the line low, which
// latches the chain between frames.
func buildWS2812Program() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Out(rp2pio.OutDestX, 1).Encode(),             // 0: out x, 1
		asm.Set(rp2pio.SetDestPins, 1).Delay(1).Encode(), // 1: set pins, 1 [1]
		asm.Jmp(4, rp2pio.JmpXZero).Encode(),             // 2: jmp !x, 4
		asm.Jmp(5, rp2pio.JmpAlways).Delay(3).Encode(),   // 3: jmp 5 [3]
		asm.Set(rp2pio.SetDestPins, 0).Delay(3).Encode(), // 4: set pins, 0 [3]
		asm.Set(rp2pio.SetDestPins, 0).Delay(1).Encode(), // 5: set pins, 0 [1]
		// .wrap
	}
}

const ws2812Origin = 0 // absolute jump targets

// ledChain feeds GRB words to a PIO state machine
type ledChain struct {
	sm  rp2pio.StateMachine
	pin machine.Pin
}

func newLEDChain() (*ledChain, error) {
	pio := rp2pio.PIO0
	l := &ledChain{sm: pio.StateMachine(0), pin: machine.Pin(LEDPin)}
	l.sm.TryClaim()

	program := buildWS2812Program()
	offset, err := pio.AddProgram(program, ws2812Origin)
	if err != nil {
		return nil, err
	}

	l.pin.Configure(machine.PinConfig{Mode: pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(l.pin, 1)
	// MSB first, autopull after 24 bits of GRB
	cfg.SetOutShift(false, true, 24)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	// 125MHz / 15.625 = 8MHz
	cfg.SetClkDivIntFrac(15, 160)

	l.sm.Init(offset, cfg)
	l.sm.SetPindirsConsecutive(l.pin, 1, true)
	l.sm.SetPinsConsecutive(l.pin, 1, false)
	l.sm.SetEnabled(true)
	return l, nil
}

// WriteFrame implements core.LEDDriver
func (l *ledChain) WriteFrame(f *core.Frame) error {
	var words [core.ChainLength]uint32
	for p := range f {
		c := f[p]
		w := uint32(scale8(c.G))<<24 | uint32(scale8(c.R))<<16 | uint32(scale8(c.B))<<8
		at := core.ChainPosition(p)
		for i := 0; i < core.LEDsPerButton; i++ {
			words[at+i] = w
		}
	}
	for _, w := range words {
		for l.sm.IsTxFIFOFull() {
		}
		l.sm.TxPut(w)
	}
	return nil
}
