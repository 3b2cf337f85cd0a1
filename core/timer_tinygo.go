//go:build tinygo

package core

import "sync/atomic"

// The target main loop stores the microsecond clock; timer callbacks and
// the USB interrupt read it
var systemTicksValue uint32

func getSystemTicks() uint32 {
	return atomic.LoadUint32(&systemTicksValue)
}

func setSystemTicks(ticks uint32) {
	atomic.StoreUint32(&systemTicksValue, ticks)
}
