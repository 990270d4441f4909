package pbevents

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fakeNow = time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

func fakeClock() time.Time { return fakeNow }

var testPayloadContext = payloadContext{
	EventContext: EventContext{
		Environment: "staging",
		App:         AppInfo{BundleID: "com.example.app", VersionName: "2.1.0", BuildNumber: "42"},
		Device:      DeviceInfo{DeviceID: "dev-1", Platform: "go", OSVersion: "linux/amd64", Model: "host-1"},
		AnonymousID: "anon-1",
	},
	UserID: "user-1",
}

func TestPayloadHasExpectedWireFormat(t *testing.T) {
	factory := NewEventFactory(fakeClock)
	e := factory.NewTrackedEvent("page_view", ldvalue.ObjectBuild().Set("path", ldvalue.String("/")).Build(), "sess-1")

	f := newPayloadFormatter(fakeClock)
	data, err := f.makePayloadJSON(testPayloadContext, []Event{e})
	require.NoError(t, err)

	var parsed map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &parsed))
	for _, field := range []string{"schema_version", "sent_at", "environment", "app", "device", "user", "events"} {
		assert.Contains(t, parsed, field)
	}

	expected := `{
		"schema_version": "1.0",
		"sent_at": "2026-03-15T10:30:00.000Z",
		"environment": "staging",
		"app": {"bundle_id": "com.example.app", "version_name": "2.1.0", "build_number": "42"},
		"device": {"device_id": "dev-1", "platform": "go", "os_version": "linux/amd64", "model": "host-1"},
		"user": {"anonymous_id": "anon-1", "user_id": "user-1"},
		"events": [
			{
				"type": "event",
				"event_id": "` + e.EventID + `",
				"timestamp": "2026-03-15T10:30:00.000Z",
				"name": "page_view",
				"session_id": "sess-1",
				"properties": {"path": "/"}
			}
		]
	}`
	assert.JSONEq(t, expected, string(data))
}

func TestPayloadOmitsUserIDWhenAnonymous(t *testing.T) {
	context := testPayloadContext
	context.UserID = ""

	f := newPayloadFormatter(fakeClock)
	data, err := f.makePayloadJSON(context, nil)
	require.NoError(t, err)

	var parsed struct {
		User map[string]json.RawMessage `json:"user"`
	}
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Contains(t, parsed.User, "anonymous_id")
	assert.NotContains(t, parsed.User, "user_id")
}

func TestPayloadFormatterDoesNotMutateEvents(t *testing.T) {
	factory := NewEventFactory(fakeClock)
	e := factory.NewTrackedEvent("x", ldvalue.Null(), "")
	before := e

	f := newPayloadFormatter(fakeClock)
	_, err := f.makePayloadJSON(testPayloadContext, []Event{e})
	require.NoError(t, err)
	assert.Equal(t, before, e)
}

func TestSentAtUsesInjectedClock(t *testing.T) {
	f := newPayloadFormatter(fakeClock)
	data, err := f.makePayloadJSON(testPayloadContext, nil)
	require.NoError(t, err)

	var parsed struct {
		SentAt string `json:"sent_at"`
	}
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, "2026-03-15T10:30:00.000Z", parsed.SentAt)
}
