//go:build rp2040 || rp2350

package main

import (
	"gridpad/core"
	"runtime/volatile"
	"unsafe"
)

// Raw timer low word, offset from the chip's timerBase
const timerTIMERAWL = timerBase + 0x0C

var (
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)

// GetHardwareTime reads the low 32 bits of the 1MHz hardware timer,
// which matches core.TimerFreq
func GetHardwareTime() uint32 {
	return timerRAWL.Get()
}

// UpdateSystemTime updates the core timer with hardware time
func UpdateSystemTime() {
	core.SetTime(GetHardwareTime())
}
