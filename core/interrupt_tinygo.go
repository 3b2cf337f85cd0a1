//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks the USB receive interrupt along with the rest,
// keeping the packet FIFO and timer list consistent
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
