package pbevents

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type receivedEvent struct {
	Type      string `json:"type"`
	EventID   string `json:"event_id"`
	Timestamp string `json:"timestamp"`
	Name      string `json:"name"`
	SessionID string `json:"session_id"`
}

type receivedPayload struct {
	SchemaVersion string `json:"schema_version"`
	SentAt        string `json:"sent_at"`
	Environment   string `json:"environment"`
	User          struct {
		AnonymousID string `json:"anonymous_id"`
		UserID      string `json:"user_id"`
	} `json:"user"`
	Events []receivedEvent `json:"events"`
}

type mockEventSender struct {
	payloads     []receivedPayload
	payloadCh    chan receivedPayload
	bestEffortCh chan receivedPayload
	payloadCount int
	result       EventSenderResult
	gateCh       <-chan struct{}
	waitingCh    chan<- struct{}
	lock         sync.Mutex
}

func newMockEventSender() *mockEventSender {
	return &mockEventSender{
		payloadCh:    make(chan receivedPayload, 100),
		bestEffortCh: make(chan receivedPayload, 100),
		result:       EventSenderResult{Success: true},
	}
}

func parsePayload(data []byte) receivedPayload {
	var payload receivedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		panic(err)
	}
	return payload
}

func (ms *mockEventSender) SendEventData(kind EventDataKind, data []byte, eventCount int) EventSenderResult {
	payload := parsePayload(data)
	ms.lock.Lock()
	ms.payloads = append(ms.payloads, payload)
	ms.payloadCh <- payload
	ms.payloadCount++
	gateCh, waitingCh := ms.gateCh, ms.waitingCh
	result := ms.result
	ms.lock.Unlock()

	if gateCh != nil {
		// instrumentation used for the blocking-flush and busy-workers tests
		waitingCh <- struct{}{}
		<-gateCh
	}

	return result
}

func (ms *mockEventSender) SendEventDataBestEffort(kind EventDataKind, data []byte) {
	ms.bestEffortCh <- parsePayload(data)
}

func (ms *mockEventSender) setGate(gateCh <-chan struct{}, waitingCh chan<- struct{}) {
	ms.lock.Lock()
	ms.gateCh = gateCh
	ms.waitingCh = waitingCh
	ms.lock.Unlock()
}

func (ms *mockEventSender) setResult(result EventSenderResult) {
	ms.lock.Lock()
	ms.result = result
	ms.lock.Unlock()
}

func (ms *mockEventSender) getPayloadCount() int {
	ms.lock.Lock()
	defer ms.lock.Unlock()
	return ms.payloadCount
}

func (ms *mockEventSender) awaitPayload(t *testing.T) receivedPayload {
	payload, ok := ms.tryAwaitPayloadCh(ms.payloadCh)
	if !ok {
		require.Fail(t, "timed out waiting for batch payload")
	}
	return payload
}

func (ms *mockEventSender) awaitBestEffortPayload(t *testing.T) receivedPayload {
	payload, ok := ms.tryAwaitPayloadCh(ms.bestEffortCh)
	if !ok {
		require.Fail(t, "timed out waiting for best-effort payload")
	}
	return payload
}

func (ms *mockEventSender) tryAwaitPayloadCh(ch <-chan receivedPayload) (receivedPayload, bool) {
	select {
	case p := <-ch:
		return p, true
	case <-time.After(time.Second):
		break
	}
	return receivedPayload{}, false
}

func (ms *mockEventSender) assertNoMorePayloads(t *testing.T) {
	require.Len(t, ms.payloadCh, 0)
}
