package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// DebugEvent captures a protocol event for post-mortem analysis
type DebugEvent struct {
	EventType uint8  // Event type code
	Arg       uint8  // Command id, tag or part
	Clock     uint32 // System clock at event
	Value     uint32 // Context-dependent value
}

// Event type codes
const (
	EvtMessageDropped = 1 // SysEx abandoned at its end packet
	EvtCommandError   = 2 // Command handler returned an error
	EvtPartRejected   = 3 // Bulk transfer part rejected
	EvtVerifyFailed   = 4 // Stored config differs from what was pushed
	EvtFactoryReset   = 5 // Settings restored to defaults
	EvtStoreFlushed   = 6 // Store written back to flash
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Event ring buffer (non-blocking, for post-mortem)
	eventRing     [EventRingSize]DebugEvent
	eventRingHead uint8 // Next write position
	eventCount    uint32

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16) // Buffer 16 messages
	go debugOutputWorker()
}

// debugOutputWorker runs in background, drains debug channel
func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
// Blocks if debug is enabled (use DebugAsync for non-blocking)
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Returns immediately even if channel is full (drops message)
func DebugAsync(msg string) {
	if debugChan != nil {
		select {
		case debugChan <- msg:
		default:
		}
	}
}

// RecordEvent captures an event in the ring buffer
func RecordEvent(eventType, arg uint8, value uint32) {
	idx := eventRingHead
	eventRing[idx] = DebugEvent{
		EventType: eventType,
		Arg:       arg,
		Clock:     GetTime(),
		Value:     value,
	}
	eventRingHead = (idx + 1) % EventRingSize
	eventCount++
}

// EventCount returns how many events were recorded since the last clear
func EventCount() uint32 {
	return eventCount
}

// LastEvent returns the most recently recorded event
func LastEvent() (DebugEvent, bool) {
	if eventCount == 0 {
		return DebugEvent{}, false
	}
	return eventRing[(eventRingHead+EventRingSize-1)%EventRingSize], true
}

func eventName(t uint8) string {
	switch t {
	case EvtMessageDropped:
		return "DROPPED"
	case EvtCommandError:
		return "CMD_ERROR"
	case EvtPartRejected:
		return "PART_REJECTED"
	case EvtVerifyFailed:
		return "VERIFY_FAILED!"
	case EvtFactoryReset:
		return "FACTORY_RESET"
	case EvtStoreFlushed:
		return "FLUSHED"
	default:
		return "UNKNOWN"
	}
}

// DumpEventRing outputs the event ring buffer, oldest first
func DumpEventRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENT] === Event Ring Dump ===")
	debugPrintln("[EVENT] Total events: " + utoa(eventCount))

	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		idx := (start + i) % EventRingSize
		evt := &eventRing[idx]
		if evt.EventType == 0 {
			continue // Empty slot
		}

		debugPrintln("[EVENT] " + eventName(evt.EventType) +
			" arg=" + itoa(int(evt.Arg)) +
			" clock=" + utoa(evt.Clock) +
			" v=" + utoa(evt.Value))
	}
	debugPrintln("[EVENT] === End Dump ===")
}

// ClearEventRing clears the event buffer
func ClearEventRing() {
	for i := range eventRing {
		eventRing[i] = DebugEvent{}
	}
	eventRingHead = 0
	eventCount = 0
}
