package core

import "gridpad/protocol"

var (
	renderInterval = TimerFromMS(10)
	flushInterval  = TimerFromMS(1000)
)

// RunLoop is the firmware main loop: packets queued by the USB receive
// interrupt are processed in order between timer callbacks
type RunLoop struct {
	Device *Device
	Flush  func() error // writes the store back; nil for RAM stores

	rx          *protocol.PacketFifo
	renderTimer Timer
	flushTimer  Timer
	overruns    uint32
	reported    uint32 // overruns already logged
}

// NewRunLoop creates a loop for d with a receive queue of rxCapacity packets
func NewRunLoop(d *Device, rxCapacity int) *RunLoop {
	l := &RunLoop{
		Device: d,
		rx:     protocol.NewPacketFifo(rxCapacity),
	}
	l.renderTimer.Handler = l.render
	l.flushTimer.Handler = l.flush
	return l
}

// Receive queues a packet. It is called from interrupt context and
// reports false when the queue is full.
func (l *RunLoop) Receive(p protocol.Packet) bool {
	state := disableInterrupts()
	ok := l.rx.Push(p)
	if !ok {
		l.overruns++
	}
	restoreInterrupts(state)
	return ok
}

// Overruns returns the number of packets lost to a full queue
func (l *RunLoop) Overruns() uint32 {
	state := disableInterrupts()
	n := l.overruns
	restoreInterrupts(state)
	return n
}

// Start schedules the periodic render and flush timers. Calling it again
// while they run has no effect.
func (l *RunLoop) Start() {
	if TimerPending(&l.renderTimer) {
		return
	}
	now := GetTime()
	l.renderTimer.WakeTime = now + renderInterval
	ScheduleTimer(&l.renderTimer)
	if l.Flush != nil {
		l.flushTimer.WakeTime = now + flushInterval
		ScheduleTimer(&l.flushTimer)
	}
}

// Step handles the packets queued when it starts and runs due timers.
// Packets arriving meanwhile wait for the next Step.
func (l *RunLoop) Step() {
	state := disableInterrupts()
	n := l.rx.Available()
	restoreInterrupts(state)

	for ; n > 0; n-- {
		state := disableInterrupts()
		p, ok := l.rx.Pop()
		restoreInterrupts(state)
		if !ok {
			break
		}
		l.Device.HandlePacket(p)
	}
	l.reportOverruns()
	ProcessTimers()
}

// reportOverruns logs packets lost since the last report
func (l *RunLoop) reportOverruns() {
	n := l.Overruns()
	if n == l.reported {
		return
	}
	DebugAsync("[USB] rx queue full, " + utoa(n-l.reported) + " packets lost at " + utoa(TimerToMS(GetUptime())) + "ms")
	l.reported = n
}

func (l *RunLoop) render(t *Timer) uint8 {
	if err := l.Device.Render(); err != nil {
		DebugAsync("[LED] " + err.Error())
	}
	t.WakeTime += renderInterval
	return SF_RESCHEDULE
}

func (l *RunLoop) flush(t *Timer) uint8 {
	if err := l.Flush(); err != nil {
		DebugAsync("[STORE] flush: " + err.Error())
	}
	t.WakeTime += flushInterval
	return SF_RESCHEDULE
}
