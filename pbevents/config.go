package pbevents

import (
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// DefaultBatchSize is the default value for EventsConfiguration.BatchSize.
const DefaultBatchSize = 50

// DefaultCapacity is the default value for EventsConfiguration.Capacity.
const DefaultCapacity = 10000

// DefaultFlushInterval is the default value for EventsConfiguration.FlushInterval.
const DefaultFlushInterval = 5 * time.Second

// DefaultSessionTimeout is the default idle timeout after which a session id rolls over.
const DefaultSessionTimeout = 30 * time.Minute

// EventsConfiguration contains options affecting the behavior of the events engine.
type EventsConfiguration struct {
	// BatchSize is the maximum number of events delivered in one batch payload. Reaching
	// this many buffered events triggers an immediate flush.
	BatchSize int
	// Capacity is the total number of events the engine will buffer in memory. If the
	// capacity is exceeded before a flush can happen, further events are discarded.
	Capacity int
	// FlushInterval is the idle interval after which buffered events are flushed. The
	// interval restarts on every enqueue that does not itself trigger a flush.
	FlushInterval time.Duration
	// EventSender delivers serialized batch payloads to the ingest service.
	EventSender EventSender
	// OverflowStore, if non-nil, durably holds events whose delivery failed. If nil,
	// failed batches are requeued at the front of the in-memory buffer instead.
	OverflowStore OverflowStore
	// EventContext is the static context snapshot included in every batch payload.
	EventContext EventContext
	// Loggers is the destination for log output.
	Loggers ldlog.Loggers
}

// AppInfo describes the application in a batch payload.
type AppInfo struct {
	BundleID    string `json:"bundle_id"`
	VersionName string `json:"version_name"`
	BuildNumber string `json:"build_number"`
}

// DeviceInfo describes the host in a batch payload.
type DeviceInfo struct {
	DeviceID  string `json:"device_id"`
	Platform  string `json:"platform"`
	OSVersion string `json:"os_version"`
	Model     string `json:"model"`
}

// EventContext is the identity and environment context captured once at initialization.
// The user id is not part of it because it is mutable; the dispatcher owns that state.
type EventContext struct {
	Environment string
	App         AppInfo
	Device      DeviceInfo
	AnonymousID string
}
