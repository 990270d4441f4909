package pbevents

import "time"

type nullEventProcessor struct{}

// NewNullEventProcessor creates a no-op implementation of EventProcessor, for use when
// the client is configured to be offline or event delivery has been disabled.
func NewNullEventProcessor() EventProcessor {
	return nullEventProcessor{}
}

func (n nullEventProcessor) SendEvent(Event) {}

func (n nullEventProcessor) SetUser(string) {}

func (n nullEventProcessor) Flush() {}

func (n nullEventProcessor) FlushBlocking(time.Duration) bool { return true }

func (n nullEventProcessor) FlushBestEffort() {}

func (n nullEventProcessor) Close() error { return nil }
