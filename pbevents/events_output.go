package pbevents

import (
	"encoding/json"
	"time"
)

// SchemaVersion is the batch payload schema version understood by the ingest service.
const SchemaVersion = "1.0"

// payloadContext is the full context snapshot for one batch: the static context captured
// at initialization plus the user id as of the moment the batch was handed off.
type payloadContext struct {
	EventContext
	UserID string
}

type payloadUserJSON struct {
	AnonymousID string `json:"anonymous_id"`
	UserID      string `json:"user_id,omitempty"`
}

type batchPayloadJSON struct {
	SchemaVersion string          `json:"schema_version"`
	SentAt        string          `json:"sent_at"`
	Environment   string          `json:"environment"`
	App           AppInfo         `json:"app"`
	Device        DeviceInfo      `json:"device"`
	User          payloadUserJSON `json:"user"`
	Events        []Event         `json:"events"`
}

// payloadFormatter assembles the wire form of a batch. It is a pure function of
// (events, context, clock): it has no side effects and never mutates the events.
type payloadFormatter struct {
	nowFn func() time.Time
}

func newPayloadFormatter(nowFn func() time.Time) payloadFormatter {
	if nowFn == nil {
		nowFn = time.Now
	}
	return payloadFormatter{nowFn: nowFn}
}

func (f payloadFormatter) makePayloadJSON(context payloadContext, events []Event) ([]byte, error) {
	payload := batchPayloadJSON{
		SchemaVersion: SchemaVersion,
		SentAt:        f.nowFn().UTC().Format(eventTimestampFormat),
		Environment:   context.Environment,
		App:           context.App,
		Device:        context.Device,
		User:          payloadUserJSON{AnonymousID: context.AnonymousID, UserID: context.UserID},
		Events:        events,
	}
	return json.Marshal(payload)
}
