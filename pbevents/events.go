package pbevents

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// EventKind is the discriminator value in the "type" property of a serialized event.
type EventKind string

const (
	// TrackedEventKind is the kind of a named analytics event.
	TrackedEventKind EventKind = "event"
	// UserPropertiesEventKind is the kind of a user property mutation event.
	UserPropertiesEventKind EventKind = "user_properties"
	// CrashEventKind is the kind of a crash report event.
	CrashEventKind EventKind = "crash"
	// TraceEventKind is the kind of a performance trace event.
	TraceEventKind EventKind = "trace"
)

// eventTimestampFormat is RFC 3339 with millisecond precision; all event timestamps are UTC.
const eventTimestampFormat = "2006-01-02T15:04:05.000Z"

// BaseEvent provides properties common to all event kinds. EventID is generated once at
// creation time and is never regenerated, even if the event is retried or persisted.
type BaseEvent struct {
	EventID   string
	Timestamp time.Time
}

// Event is implemented by all event record types.
type Event interface {
	// GetBase returns the fields common to all events.
	GetBase() BaseEvent
	// GetKind returns the event's type discriminator.
	GetKind() EventKind
}

// TrackedEvent is a named analytics event with optional structured properties.
type TrackedEvent struct {
	BaseEvent
	Name       string
	SessionID  string
	Properties ldvalue.Value
}

// UserPropertyOp is the operation discriminator for a user property mutation.
type UserPropertyOp string

const (
	// OpSet sets a property value unconditionally.
	OpSet UserPropertyOp = "set"
	// OpSetOnce sets a property value only if it has no value yet.
	OpSetOnce UserPropertyOp = "set_once"
	// OpIncrement adds a numeric delta to a property value.
	OpIncrement UserPropertyOp = "increment"
	// OpUnset removes a property.
	OpUnset UserPropertyOp = "unset"
)

// UserPropertyOperation is one step in a user property mutation. Operations are applied
// by the server in the order they appear in the event.
type UserPropertyOperation struct {
	Op    UserPropertyOp
	Key   string
	Value ldvalue.Value
}

// UserPropertiesEvent carries an ordered sequence of user property operations.
type UserPropertiesEvent struct {
	BaseEvent
	Operations []UserPropertyOperation
}

// ExceptionInfo describes the error that produced a crash event.
type ExceptionInfo struct {
	Type       string
	Message    string
	Stacktrace string
}

// Breadcrumb is one entry in the trail of application activity leading up to a crash.
type Breadcrumb struct {
	Time    string
	Type    string
	Message string
}

// CrashEvent is a crash report.
type CrashEvent struct {
	BaseEvent
	Fingerprint string
	Fatal       bool
	Exception   ExceptionInfo
	Breadcrumbs []Breadcrumb
}

// TraceEvent is a performance trace measurement.
type TraceEvent struct {
	BaseEvent
	TraceID    string
	Name       string
	DurationMS float64
	Attributes ldvalue.Value
}

// GetBase returns the fields common to all events.
func (e TrackedEvent) GetBase() BaseEvent { return e.BaseEvent }

// GetKind returns TrackedEventKind.
func (e TrackedEvent) GetKind() EventKind { return TrackedEventKind }

// GetBase returns the fields common to all events.
func (e UserPropertiesEvent) GetBase() BaseEvent { return e.BaseEvent }

// GetKind returns UserPropertiesEventKind.
func (e UserPropertiesEvent) GetKind() EventKind { return UserPropertiesEventKind }

// GetBase returns the fields common to all events.
func (e CrashEvent) GetBase() BaseEvent { return e.BaseEvent }

// GetKind returns CrashEventKind.
func (e CrashEvent) GetKind() EventKind { return CrashEventKind }

// GetBase returns the fields common to all events.
func (e TraceEvent) GetBase() BaseEvent { return e.BaseEvent }

// GetKind returns TraceEventKind.
func (e TraceEvent) GetKind() EventKind { return TraceEventKind }

// EventFactory is a configurable factory for event records. The struct is immutable once
// created, so it is safe to share between goroutines.
type EventFactory struct {
	timeFn func() time.Time
	idFn   func() string
}

// NewEventFactory creates an EventFactory. A nil timeFn means use the current time; tests
// can inject a fake clock for deterministic timestamps.
func NewEventFactory(timeFn func() time.Time) EventFactory {
	if timeFn == nil {
		timeFn = time.Now
	}
	return EventFactory{timeFn: timeFn, idFn: newUUID}
}

func newUUID() string {
	id, _ := uuid.NewRandom() // per the uuid docs, NewRandom cannot fail with the default source
	return id.String()
}

func (f EventFactory) newBase() BaseEvent {
	return BaseEvent{EventID: f.idFn(), Timestamp: f.timeFn().UTC()}
}

// NewTrackedEvent creates a tracked event. Pass ldvalue.Null() for no properties; an
// empty sessionID omits the session field.
func (f EventFactory) NewTrackedEvent(name string, properties ldvalue.Value, sessionID string) TrackedEvent {
	return TrackedEvent{BaseEvent: f.newBase(), Name: name, Properties: properties, SessionID: sessionID}
}

// NewUserPropertiesEvent creates a user properties event from an ordered operation list.
func (f EventFactory) NewUserPropertiesEvent(operations []UserPropertyOperation) UserPropertiesEvent {
	return UserPropertiesEvent{BaseEvent: f.newBase(), Operations: operations}
}

// NewCrashEvent creates a crash event.
func (f EventFactory) NewCrashEvent(
	fingerprint string,
	fatal bool,
	exception ExceptionInfo,
	breadcrumbs []Breadcrumb,
) CrashEvent {
	return CrashEvent{
		BaseEvent:   f.newBase(),
		Fingerprint: fingerprint,
		Fatal:       fatal,
		Exception:   exception,
		Breadcrumbs: breadcrumbs,
	}
}

// NewTraceEvent creates a performance trace event with a fresh trace id.
func (f EventFactory) NewTraceEvent(name string, duration time.Duration, attributes ldvalue.Value) TraceEvent {
	return TraceEvent{
		BaseEvent:  f.newBase(),
		TraceID:    f.idFn(),
		Name:       name,
		DurationMS: float64(duration) / float64(time.Millisecond),
		Attributes: attributes,
	}
}

type baseEventJSON struct {
	Type      EventKind `json:"type"`
	EventID   string    `json:"event_id"`
	Timestamp string    `json:"timestamp"`
}

type trackedEventJSON struct {
	baseEventJSON
	Name       string         `json:"name"`
	SessionID  string         `json:"session_id,omitempty"`
	Properties *ldvalue.Value `json:"properties,omitempty"`
}

type userPropertyOperationJSON struct {
	Op    UserPropertyOp `json:"op"`
	Key   string         `json:"key"`
	Value *ldvalue.Value `json:"value,omitempty"`
}

type userPropertiesEventJSON struct {
	baseEventJSON
	Operations []userPropertyOperationJSON `json:"operations"`
}

type exceptionJSON struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Stacktrace string `json:"stacktrace,omitempty"`
}

type breadcrumbJSON struct {
	Time    string `json:"ts"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

type crashEventJSON struct {
	baseEventJSON
	Fingerprint string           `json:"fingerprint"`
	Fatal       bool             `json:"fatal"`
	Exception   exceptionJSON    `json:"exception"`
	Breadcrumbs []breadcrumbJSON `json:"breadcrumbs,omitempty"`
}

type traceBodyJSON struct {
	TraceID    string         `json:"trace_id"`
	Name       string         `json:"name"`
	DurationMS float64        `json:"duration_ms"`
	Attributes *ldvalue.Value `json:"attributes,omitempty"`
}

type traceEventJSON struct {
	baseEventJSON
	Trace traceBodyJSON `json:"trace"`
}

func (b BaseEvent) toJSON(kind EventKind) baseEventJSON {
	return baseEventJSON{
		Type:      kind,
		EventID:   b.EventID,
		Timestamp: b.Timestamp.UTC().Format(eventTimestampFormat),
	}
}

func optionalValue(v ldvalue.Value) *ldvalue.Value {
	if v.IsNull() {
		return nil
	}
	return &v
}

// MarshalJSON produces the wire representation of the event.
func (e TrackedEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(trackedEventJSON{
		baseEventJSON: e.BaseEvent.toJSON(TrackedEventKind),
		Name:          e.Name,
		SessionID:     e.SessionID,
		Properties:    optionalValue(e.Properties),
	})
}

// MarshalJSON produces the wire representation of the event.
func (e UserPropertiesEvent) MarshalJSON() ([]byte, error) {
	ops := make([]userPropertyOperationJSON, 0, len(e.Operations))
	for _, op := range e.Operations {
		ops = append(ops, userPropertyOperationJSON{Op: op.Op, Key: op.Key, Value: optionalValue(op.Value)})
	}
	return json.Marshal(userPropertiesEventJSON{
		baseEventJSON: e.BaseEvent.toJSON(UserPropertiesEventKind),
		Operations:    ops,
	})
}

// MarshalJSON produces the wire representation of the event.
func (e CrashEvent) MarshalJSON() ([]byte, error) {
	var crumbs []breadcrumbJSON
	for _, b := range e.Breadcrumbs {
		crumbs = append(crumbs, breadcrumbJSON(b))
	}
	return json.Marshal(crashEventJSON{
		baseEventJSON: e.BaseEvent.toJSON(CrashEventKind),
		Fingerprint:   e.Fingerprint,
		Fatal:         e.Fatal,
		Exception:     exceptionJSON(e.Exception),
		Breadcrumbs:   crumbs,
	})
}

// MarshalJSON produces the wire representation of the event.
func (e TraceEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(traceEventJSON{
		baseEventJSON: e.BaseEvent.toJSON(TraceEventKind),
		Trace: traceBodyJSON{
			TraceID:    e.TraceID,
			Name:       e.Name,
			DurationMS: e.DurationMS,
			Attributes: optionalValue(e.Attributes),
		},
	})
}

func (b baseEventJSON) toBase() (BaseEvent, error) {
	ts, err := time.Parse(eventTimestampFormat, b.Timestamp)
	if err != nil {
		// Accept the more general RFC 3339 forms for data written by other SDK versions.
		ts, err = time.Parse(time.RFC3339Nano, b.Timestamp)
		if err != nil {
			return BaseEvent{}, fmt.Errorf("invalid event timestamp %q: %w", b.Timestamp, err)
		}
	}
	return BaseEvent{EventID: b.EventID, Timestamp: ts.UTC()}, nil
}

func valueOrNull(v *ldvalue.Value) ldvalue.Value {
	if v == nil {
		return ldvalue.Null()
	}
	return *v
}

// MarshalEvent produces the wire representation of a single event, as it would appear in
// the events array of a batch payload. It is the inverse of UnmarshalEvent.
func MarshalEvent(e Event) ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalEvent decodes the wire representation of a single event back into an Event.
// It is used by overflow store implementations to round-trip persisted events.
func UnmarshalEvent(data []byte) (Event, error) {
	var discriminator struct {
		Type EventKind `json:"type"`
	}
	if err := json.Unmarshal(data, &discriminator); err != nil {
		return nil, err
	}
	switch discriminator.Type {
	case TrackedEventKind:
		var rep trackedEventJSON
		if err := json.Unmarshal(data, &rep); err != nil {
			return nil, err
		}
		base, err := rep.baseEventJSON.toBase()
		if err != nil {
			return nil, err
		}
		return TrackedEvent{
			BaseEvent:  base,
			Name:       rep.Name,
			SessionID:  rep.SessionID,
			Properties: valueOrNull(rep.Properties),
		}, nil
	case UserPropertiesEventKind:
		var rep userPropertiesEventJSON
		if err := json.Unmarshal(data, &rep); err != nil {
			return nil, err
		}
		base, err := rep.baseEventJSON.toBase()
		if err != nil {
			return nil, err
		}
		ops := make([]UserPropertyOperation, 0, len(rep.Operations))
		for _, op := range rep.Operations {
			ops = append(ops, UserPropertyOperation{Op: op.Op, Key: op.Key, Value: valueOrNull(op.Value)})
		}
		return UserPropertiesEvent{BaseEvent: base, Operations: ops}, nil
	case CrashEventKind:
		var rep crashEventJSON
		if err := json.Unmarshal(data, &rep); err != nil {
			return nil, err
		}
		base, err := rep.baseEventJSON.toBase()
		if err != nil {
			return nil, err
		}
		var crumbs []Breadcrumb
		for _, b := range rep.Breadcrumbs {
			crumbs = append(crumbs, Breadcrumb(b))
		}
		return CrashEvent{
			BaseEvent:   base,
			Fingerprint: rep.Fingerprint,
			Fatal:       rep.Fatal,
			Exception:   ExceptionInfo(rep.Exception),
			Breadcrumbs: crumbs,
		}, nil
	case TraceEventKind:
		var rep traceEventJSON
		if err := json.Unmarshal(data, &rep); err != nil {
			return nil, err
		}
		base, err := rep.baseEventJSON.toBase()
		if err != nil {
			return nil, err
		}
		return TraceEvent{
			BaseEvent:  base,
			TraceID:    rep.Trace.TraceID,
			Name:       rep.Trace.Name,
			DurationMS: rep.Trace.DurationMS,
			Attributes: valueOrNull(rep.Trace.Attributes),
		}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", discriminator.Type)
	}
}
