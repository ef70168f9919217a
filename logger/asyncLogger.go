package logger

import (
	"log"

	"virtual-airline/models/pirep"
)

// StatusEventSink is where drained audit entries end up (the pirep store
// in production, an in-memory store in tests).
type StatusEventSink interface {
	AppendStatusEvent(ev *pirep.StatusEvent) error
}

// AsyncLogger drains PIREP lifecycle events into the audit trail without
// blocking the state machine.
type AsyncLogger struct {
	sink    StatusEventSink
	channel chan pirep.StatusEvent
}

func NewAsyncLogger(sink StatusEventSink) *AsyncLogger {
	return &AsyncLogger{
		sink:    sink,
		channel: make(chan pirep.StatusEvent, 100), // Buffered channel to hold audit entries
	}
}

func (logger *AsyncLogger) ProcessEvents() {
	log.Println("Starting asynchronous audit logger...")

	for ev := range logger.channel {
		entry := ev
		if err := logger.sink.AppendStatusEvent(&entry); err != nil {
			log.Printf("Failed to insert audit event for pirep %d: %v", ev.PirepID, err)
		}
	}
}

// Record pushes an audit entry into the channel. Drops the entry rather
// than blocking the state machine when the buffer is full.
func (logger *AsyncLogger) Record(ev pirep.StatusEvent) {
	select {
	case logger.channel <- ev:
	default:
		log.Printf("Audit buffer full, dropping event %s for pirep %d", ev.Event, ev.PirepID)
	}
}
