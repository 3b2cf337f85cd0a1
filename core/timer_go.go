//go:build !tinygo

package core

// Off-target the clock only moves when a test calls SetTime
func getSystemTicks() uint32 {
	return systemTicks
}

func setSystemTicks(ticks uint32) {
	systemTicks = ticks
}
