package pbevents

import (
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventIDsAreUniquePerEvent(t *testing.T) {
	factory := NewEventFactory(nil)
	e1 := factory.NewTrackedEvent("a", ldvalue.Null(), "")
	e2 := factory.NewTrackedEvent("a", ldvalue.Null(), "")
	assert.NotEqual(t, "", e1.EventID)
	assert.NotEqual(t, e1.EventID, e2.EventID)
}

func TestTraceEventConvertsDurationToMilliseconds(t *testing.T) {
	factory := NewEventFactory(fakeClock)
	e := factory.NewTraceEvent("db.query", 1500*time.Microsecond, ldvalue.Null())
	assert.Equal(t, 1.5, e.DurationMS)
	assert.NotEqual(t, "", e.TraceID)
	assert.NotEqual(t, e.EventID, e.TraceID)
}

func TestCrashEventWireFormat(t *testing.T) {
	factory := NewEventFactory(fakeClock)
	e := factory.NewCrashEvent("db-timeout", true,
		ExceptionInfo{Type: "TimeoutError", Message: "query timed out", Stacktrace: "at main"},
		[]Breadcrumb{{Time: "2026-03-15T10:29:59.000Z", Type: "query", Message: "SELECT 1"}},
	)
	data, err := MarshalEvent(e)
	require.NoError(t, err)

	expected := `{
		"type": "crash",
		"event_id": "` + e.EventID + `",
		"timestamp": "2026-03-15T10:30:00.000Z",
		"fingerprint": "db-timeout",
		"fatal": true,
		"exception": {"type": "TimeoutError", "message": "query timed out", "stacktrace": "at main"},
		"breadcrumbs": [{"ts": "2026-03-15T10:29:59.000Z", "type": "query", "message": "SELECT 1"}]
	}`
	assert.JSONEq(t, expected, string(data))
}

func TestUserPropertiesEventPreservesOperationOrder(t *testing.T) {
	factory := NewEventFactory(fakeClock)
	e := factory.NewUserPropertiesEvent([]UserPropertyOperation{
		{Op: OpSet, Key: "plan", Value: ldvalue.String("pro")},
		{Op: OpIncrement, Key: "logins", Value: ldvalue.Int(1)},
		{Op: OpUnset, Key: "trial_ends"},
	})
	data, err := MarshalEvent(e)
	require.NoError(t, err)

	expected := `{
		"type": "user_properties",
		"event_id": "` + e.EventID + `",
		"timestamp": "2026-03-15T10:30:00.000Z",
		"operations": [
			{"op": "set", "key": "plan", "value": "pro"},
			{"op": "increment", "key": "logins", "value": 1},
			{"op": "unset", "key": "trial_ends"}
		]
	}`
	assert.JSONEq(t, expected, string(data))
}

func TestEventsRoundTripThroughWireFormat(t *testing.T) {
	factory := NewEventFactory(fakeClock)
	events := []Event{
		factory.NewTrackedEvent("page_view", ldvalue.ObjectBuild().Set("path", ldvalue.String("/")).Build(), "sess-1"),
		factory.NewUserPropertiesEvent([]UserPropertyOperation{{Op: OpSetOnce, Key: "signup", Value: ldvalue.String("web")}}),
		factory.NewCrashEvent("fp", false, ExceptionInfo{Type: "E", Message: "m"}, nil),
		factory.NewTraceEvent("op", time.Second, ldvalue.Null()),
	}
	for _, original := range events {
		data, err := MarshalEvent(original)
		require.NoError(t, err)
		decoded, err := UnmarshalEvent(data)
		require.NoError(t, err)
		assert.Equal(t, original, decoded)
	}
}

func TestUnmarshalEventRejectsUnknownType(t *testing.T) {
	_, err := UnmarshalEvent([]byte(`{"type":"bogus","event_id":"x","timestamp":"2026-03-15T10:30:00.000Z"}`))
	assert.Error(t, err)
}

func TestUnmarshalEventRejectsBadTimestamp(t *testing.T) {
	_, err := UnmarshalEvent([]byte(`{"type":"event","event_id":"x","timestamp":"not-a-time","name":"n"}`))
	assert.Error(t, err)
}
