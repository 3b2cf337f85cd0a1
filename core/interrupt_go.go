//go:build !tinygo

package core

type irqState uintptr

// disableInterrupts is a no-op off-target; host tests are single threaded
func disableInterrupts() irqState {
	return 0
}

func restoreInterrupts(irqState) {}
