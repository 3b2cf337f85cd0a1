//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"gridpad/core"
)

// rxQueue holds packets between the USB interrupt and the main loop; a
// full 512 byte SysEx is 171 packets
const rxQueue = 256

var (
	loop     *core.RunLoop
	loopErrs uint32
)

func main() {
	// Clear any watchdog state left from before the reset
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitDebugUART()
	UpdateSystemTime()
	core.TimerInit()

	store := core.NewFlashStore(machine.Flash)
	if err := store.Load(); err != nil {
		core.DebugAsync("[STORE] " + err.Error())
	}

	if leds, err := newLEDChain(); err != nil {
		core.DebugAsync("[LED] " + err.Error())
	} else {
		core.SetLEDDriver(leds)
	}

	usb := NewUSBMIDI()
	dev := core.NewDevice(store, usb)
	dev.Bootloader = func() {
		// Persist pending settings before the jump
		if store.Dirty() {
			if err := store.Flush(); err != nil {
				core.DebugAsync("[STORE] flush: " + err.Error())
			}
		}
		machine.EnterBootloader()
	}
	if err := dev.Setup(); err != nil {
		core.DebugAsync("[DEV] setup: " + err.Error())
	}

	loop = core.NewRunLoop(dev, rxQueue)
	loop.Flush = store.Flush
	usb.Start(loop.Receive)
	loop.Start()

	for {
		step()
		// Yield to other goroutines
		time.Sleep(50 * time.Microsecond)
	}
}

// step runs one loop iteration, surviving a panic in a handler
func step() {
	defer func() {
		if r := recover(); r != nil {
			loopErrs++
			core.DebugPrintln("[LOOP] recovered, " + loop.Device.Status())
			loop.Device.Abort()
			core.DumpEventRing()
			core.ClearEventRing()
		}
	}()

	UpdateSystemTime()
	loop.Step()
}
