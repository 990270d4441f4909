package pbevents

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// eventsOutbox is the in-memory FIFO buffer of pending events. It is owned exclusively by
// the dispatcher goroutine; only the flush path drains it.
type eventsOutbox struct {
	events           []Event
	capacity         int
	droppedEvents    int
	capacityExceeded bool
	loggers          ldlog.Loggers
}

func newEventsOutbox(capacity int, loggers ldlog.Loggers) *eventsOutbox {
	return &eventsOutbox{
		events:   make([]Event, 0, capacity),
		capacity: capacity,
		loggers:  loggers,
	}
}

// addEvent appends an event at the tail, discarding it if the buffer is at capacity. The
// warning is logged only once per period of being at capacity, to avoid flooding the log.
func (b *eventsOutbox) addEvent(event Event) {
	if len(b.events) >= b.capacity {
		b.droppedEvents++
		if !b.capacityExceeded {
			b.capacityExceeded = true
			b.loggers.Warn("Exceeded event queue capacity; some events will be dropped. Increase capacity to avoid this.")
		}
		return
	}
	b.capacityExceeded = false
	b.events = append(b.events, event)
}

// popBatch removes and returns up to n events from the head of the buffer.
func (b *eventsOutbox) popBatch(n int) []Event {
	if len(b.events) == 0 {
		return nil
	}
	if n > len(b.events) {
		n = len(b.events)
	}
	batch := make([]Event, n)
	copy(batch, b.events[:n])
	remaining := len(b.events) - n
	copy(b.events, b.events[n:])
	for i := remaining; i < len(b.events); i++ {
		b.events[i] = nil
	}
	b.events = b.events[:remaining]
	return batch
}

// pushFront re-inserts events at the head of the buffer, preserving their original
// chronological priority for retry. Requeued events are not subject to the capacity
// check; they were already admitted once.
func (b *eventsOutbox) pushFront(events []Event) {
	if len(events) == 0 {
		return
	}
	b.events = append(events, b.events...)
}

func (b *eventsOutbox) count() int {
	return len(b.events)
}

func (b *eventsOutbox) clear() {
	b.events = b.events[:0]
}
