package pbevents

import "time"

// EventProcessor defines the interface for dispatching telemetry events.
type EventProcessor interface {
	// SendEvent records an event asynchronously. It never blocks and never reports
	// delivery problems to the caller.
	SendEvent(Event)
	// SetUser sets the user id attached to subsequently delivered batches. An empty
	// string reverts to anonymous-only identity.
	SetUser(userID string)
	// Flush specifies that any buffered events should be delivered as soon as possible,
	// rather than waiting for the next flush interval. This method is asynchronous, so
	// events still may not be delivered until a later time.
	Flush()
	// FlushBlocking is like Flush, but also waits until all deliveries that were
	// triggered have completed (successfully or not), up to the given timeout. It
	// returns false if the timeout elapsed first.
	FlushBlocking(timeout time.Duration) bool
	// FlushBestEffort delivers whatever is buffered without awaiting the outcome. It is
	// meant for process teardown, where there is no opportunity to retry; failures are
	// unobservable by design.
	FlushBestEffort()
	// Close shuts down all event processing, after first delivering any buffered events.
	// Subsequent calls to SendEvent or Flush are ignored.
	Close() error
}

// EventSender defines the interface for delivering an already-formatted batch payload to
// the ingest service.
type EventSender interface {
	// SendEventData attempts to deliver a payload, blocking until the outcome is known.
	SendEventData(kind EventDataKind, data []byte, eventCount int) EventSenderResult
	// SendEventDataBestEffort starts a delivery without awaiting or reporting the
	// outcome. Used on the teardown path only.
	SendEventDataBestEffort(kind EventDataKind, data []byte)
}

// EventDataKind is a parameter passed to EventSender to indicate the type of payload.
type EventDataKind string

// AnalyticsEventDataKind denotes a batch of telemetry events.
const AnalyticsEventDataKind EventDataKind = "analytics"

// EventSenderResult is the return type of EventSender.SendEventData.
type EventSenderResult struct {
	// Success is true if the payload was accepted by the ingest service.
	Success bool
	// MustShutDown is true if the service returned an error indicating that no further
	// payloads should be sent, normally because the public key is invalid.
	MustShutDown bool
}

// ConsentReporter is the interface for reporting consent changes to the ingest service.
// It is implemented by ServerSideEventSender.
type ConsentReporter interface {
	// SendConsent reports one consent change. It returns true if the service
	// acknowledged it with a 2xx status.
	SendConsent(anonymousID string, consentType string, granted bool) bool
}

// OverflowStore is a bounded, durable FIFO holding events whose delivery failed, so that
// they survive a process restart. Implementations must tolerate concurrent calls.
type OverflowStore interface {
	// Append adds events at the tail. If the store would exceed its capacity, the oldest
	// entries are evicted first until it fits.
	Append(events []Event) error
	// PopOldest atomically removes and returns up to limit of the oldest entries, in
	// insertion order. Entries are removed whether or not a subsequent delivery
	// succeeds; callers re-append on failure.
	PopOldest(limit int) ([]Event, error)
	// Count returns the number of stored events.
	Count() (int, error)
	// Close releases the store's resources.
	Close() error
}

// IdentityStore is optionally implemented by overflow stores that can also persist
// identity values (such as the anonymous id) across process restarts.
type IdentityStore interface {
	// Identity returns the stored value for a key, and whether it was present.
	Identity(key string) (string, bool, error)
	// SetIdentity stores a value for a key.
	SetIdentity(key, value string) error
}
