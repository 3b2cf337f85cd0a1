package core

// TimerFreq is the tick rate of GetTime; one tick per microsecond
const TimerFreq = 1000000

var (
	systemTicks uint32
	bootTime    uint32
)

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return getSystemTicks()
}

// SetTime sets the current system time (for testing/hardware integration)
func SetTime(ticks uint32) {
	setSystemTicks(ticks)
}

// GetUptime returns ticks since TimerInit
func GetUptime() uint32 {
	return GetTime() - bootTime
}

// TimerFromMS converts milliseconds to timer ticks
func TimerFromMS(ms uint32) uint32 {
	return ms * (TimerFreq / 1000)
}

// TimerToMS converts timer ticks to milliseconds
func TimerToMS(ticks uint32) uint32 {
	return ticks / (TimerFreq / 1000)
}

// TimerInit records the boot time and starts with an empty schedule
func TimerInit() {
	ResetTimers()
	bootTime = GetTime()
}

// ProcessTimers runs every timer that is due
func ProcessTimers() {
	currentTime = GetTime()
	TimerDispatch()
}
