package core

// Timer is a scheduled callback run from the main loop
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
	queued   bool
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

var (
	timerList   *Timer
	currentTime uint32
)

// timeBefore compares tick counts across wraparound
func timeBefore(a, b uint32) bool {
	return int32(a-b) < 0
}

// ScheduleTimer adds a timer to the schedule. Scheduling a timer that is
// already queued moves it to its new WakeTime.
func ScheduleTimer(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if t.queued {
		removeTimer(t)
	}
	insertTimer(t)
}

// CancelTimer removes a timer from the schedule if it is queued
func CancelTimer(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if t.queued {
		removeTimer(t)
	}
}

// TimerPending reports whether t is waiting to fire
func TimerPending(t *Timer) bool {
	return t.queued
}

// insertTimer inserts a timer in sorted order by WakeTime
func insertTimer(t *Timer) {
	t.queued = true
	if timerList == nil || timeBefore(t.WakeTime, timerList.WakeTime) {
		t.Next = timerList
		timerList = t
		return
	}

	current := timerList
	for current.Next != nil && !timeBefore(t.WakeTime, current.Next.WakeTime) {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

func removeTimer(t *Timer) {
	t.queued = false
	if timerList == t {
		timerList = t.Next
		t.Next = nil
		return
	}
	for current := timerList; current != nil; current = current.Next {
		if current.Next == t {
			current.Next = t.Next
			t.Next = nil
			return
		}
	}
}

// TimerDispatch processes due timers
func TimerDispatch() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for timerList != nil && !timeBefore(currentTime, timerList.WakeTime) {
		timer := timerList
		timerList = timer.Next
		timer.Next = nil
		timer.queued = false

		if timer.Handler(timer) == SF_RESCHEDULE {
			insertTimer(timer)
		}
	}
}

// ResetTimers drops every scheduled timer
func ResetTimers() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for t := timerList; t != nil; {
		next := t.Next
		t.Next = nil
		t.queued = false
		t = next
	}
	timerList = nil
}
