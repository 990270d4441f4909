package pbevents

import (
	"sync"
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epDefaultConfig = EventsConfiguration{
	Capacity:      1000,
	FlushInterval: time.Hour,
	EventContext: EventContext{
		Environment: "prod",
		AnonymousID: "anon-1",
	},
}

var testEventFactory = NewEventFactory(nil)

func createEventProcessorAndSender(config EventsConfiguration) (*defaultEventProcessor, *mockEventSender) {
	sender := newMockEventSender()
	config.EventSender = sender
	config.Loggers = ldlog.NewDisabledLoggers()
	ep := NewDefaultEventProcessor(config)
	return ep.(*defaultEventProcessor), sender
}

// waitUntilInactive blocks until the dispatcher has processed all prior messages and all
// in-flight deliveries have completed.
func (ep *defaultEventProcessor) waitUntilInactive() {
	m := syncEventsMessage{replyCh: make(chan struct{}, 1)}
	ep.inboxCh <- m
	<-m.replyCh
}

func TestTrackedEventIsDeliveredOnFlush(t *testing.T) {
	ep, es := createEventProcessorAndSender(epDefaultConfig)
	defer ep.Close()

	e := testEventFactory.NewTrackedEvent("page_view", ldvalue.Null(), "session-1")
	ep.SendEvent(e)
	ep.Flush()
	ep.waitUntilInactive()

	payload := es.awaitPayload(t)
	assert.Equal(t, SchemaVersion, payload.SchemaVersion)
	assert.Equal(t, "prod", payload.Environment)
	assert.Equal(t, "anon-1", payload.User.AnonymousID)
	if assert.Len(t, payload.Events, 1) {
		assert.Equal(t, "event", payload.Events[0].Type)
		assert.Equal(t, "page_view", payload.Events[0].Name)
		assert.Equal(t, "session-1", payload.Events[0].SessionID)
		assert.Equal(t, e.EventID, payload.Events[0].EventID)
	}
	es.assertNoMorePayloads(t)
}

func TestFlushWithEmptyQueueSendsNothing(t *testing.T) {
	ep, es := createEventProcessorAndSender(epDefaultConfig)
	defer ep.Close()

	ep.Flush()
	ep.waitUntilInactive()

	assert.Equal(t, 0, es.getPayloadCount())
}

func TestReachingBatchSizeTriggersImmediateFlush(t *testing.T) {
	config := epDefaultConfig
	config.BatchSize = 3
	ep, es := createEventProcessorAndSender(config)
	defer ep.Close()

	for i := 0; i < 3; i++ {
		ep.SendEvent(testEventFactory.NewTrackedEvent("e", ldvalue.Null(), ""))
	}

	payload := es.awaitPayload(t)
	assert.Len(t, payload.Events, 3)
	es.assertNoMorePayloads(t)
}

func TestExcessEventsBeyondBatchSizeStayQueued(t *testing.T) {
	config := epDefaultConfig
	config.BatchSize = 2
	ep, es := createEventProcessorAndSender(config)
	defer ep.Close()

	for i := 0; i < 5; i++ {
		ep.SendEvent(testEventFactory.NewTrackedEvent("e", ldvalue.Null(), ""))
	}
	assert.Len(t, es.awaitPayload(t).Events, 2)
	assert.Len(t, es.awaitPayload(t).Events, 2)
	es.assertNoMorePayloads(t)

	ep.Flush()
	ep.waitUntilInactive()
	assert.Len(t, es.awaitPayload(t).Events, 1)
}

func TestEventsAreFlushedAfterIdleInterval(t *testing.T) {
	config := epDefaultConfig
	config.FlushInterval = 10 * time.Millisecond
	ep, es := createEventProcessorAndSender(config)
	defer ep.Close()

	ep.SendEvent(testEventFactory.NewTrackedEvent("e", ldvalue.Null(), ""))

	payload := es.awaitPayload(t)
	assert.Len(t, payload.Events, 1)
}

func TestFailedBatchIsRequeuedAtHeadOfQueue(t *testing.T) {
	ep, es := createEventProcessorAndSender(epDefaultConfig)
	defer ep.Close()

	eventA := testEventFactory.NewTrackedEvent("a", ldvalue.Null(), "")
	eventB := testEventFactory.NewTrackedEvent("b", ldvalue.Null(), "")

	es.setResult(EventSenderResult{Success: false})
	ep.SendEvent(eventA)
	ep.Flush()
	ep.waitUntilInactive()
	assert.Len(t, es.awaitPayload(t).Events, 1)

	es.setResult(EventSenderResult{Success: true})
	ep.SendEvent(eventB)
	ep.Flush()
	ep.waitUntilInactive()

	payload := es.awaitPayload(t)
	if assert.Len(t, payload.Events, 2) {
		assert.Equal(t, eventA.EventID, payload.Events[0].EventID)
		assert.Equal(t, eventB.EventID, payload.Events[1].EventID)
	}
	es.assertNoMorePayloads(t)
}

func TestSuccessfulDeliveryDoesNotWriteToOverflowStore(t *testing.T) {
	store := &fakeOverflowStore{}
	config := epDefaultConfig
	config.OverflowStore = store
	ep, es := createEventProcessorAndSender(config)
	defer ep.Close()

	ep.SendEvent(testEventFactory.NewTrackedEvent("e", ldvalue.Null(), ""))
	ep.Flush()
	ep.waitUntilInactive()

	assert.Len(t, es.awaitPayload(t).Events, 1)
	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestFailedBatchIsPersistedToOverflowStore(t *testing.T) {
	store := &fakeOverflowStore{}
	config := epDefaultConfig
	config.OverflowStore = store
	ep, es := createEventProcessorAndSender(config)
	defer ep.Close()

	e := testEventFactory.NewTrackedEvent("e", ldvalue.Null(), "")
	es.setResult(EventSenderResult{Success: false})
	ep.SendEvent(e)
	ep.Flush()
	ep.waitUntilInactive()
	assert.Len(t, es.awaitPayload(t).Events, 1)

	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// The next flush drains the store first, even with nothing newly queued.
	es.setResult(EventSenderResult{Success: true})
	ep.Flush()
	ep.waitUntilInactive()

	payload := es.awaitPayload(t)
	if assert.Len(t, payload.Events, 1) {
		assert.Equal(t, e.EventID, payload.Events[0].EventID)
	}
	n, err = store.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestNoMoreEventsAreSentAfterUnrecoverableError(t *testing.T) {
	ep, es := createEventProcessorAndSender(epDefaultConfig)
	defer ep.Close()

	es.setResult(EventSenderResult{Success: false, MustShutDown: true})
	ep.SendEvent(testEventFactory.NewTrackedEvent("e", ldvalue.Null(), ""))
	ep.Flush()
	ep.waitUntilInactive()
	assert.Equal(t, 1, es.getPayloadCount())

	ep.SendEvent(testEventFactory.NewTrackedEvent("e", ldvalue.Null(), ""))
	ep.Flush()
	ep.waitUntilInactive()
	assert.Equal(t, 1, es.getPayloadCount())
}

func TestSetUserAppearsInSubsequentPayloads(t *testing.T) {
	ep, es := createEventProcessorAndSender(epDefaultConfig)
	defer ep.Close()

	ep.SetUser("user-42")
	ep.SendEvent(testEventFactory.NewTrackedEvent("e", ldvalue.Null(), ""))
	ep.Flush()
	ep.waitUntilInactive()

	payload := es.awaitPayload(t)
	assert.Equal(t, "anon-1", payload.User.AnonymousID)
	assert.Equal(t, "user-42", payload.User.UserID)
}

func TestCloseFlushesPendingEvents(t *testing.T) {
	ep, es := createEventProcessorAndSender(epDefaultConfig)

	ep.SendEvent(testEventFactory.NewTrackedEvent("e", ldvalue.Null(), ""))
	require.NoError(t, ep.Close())

	assert.Len(t, es.awaitPayload(t).Events, 1)
}

func TestFlushBestEffortUsesBestEffortDelivery(t *testing.T) {
	ep, es := createEventProcessorAndSender(epDefaultConfig)
	defer ep.Close()

	ep.SendEvent(testEventFactory.NewTrackedEvent("e", ldvalue.Null(), ""))
	ep.FlushBestEffort()

	payload := es.awaitBestEffortPayload(t)
	assert.Len(t, payload.Events, 1)
	assert.Equal(t, 0, es.getPayloadCount())
}

func TestFlushBlockingTimesOutIfDeliveryIsStuck(t *testing.T) {
	ep, es := createEventProcessorAndSender(epDefaultConfig)

	gateCh := make(chan struct{})
	waitingCh := make(chan struct{}, 10)
	es.setGate(gateCh, waitingCh)

	ep.SendEvent(testEventFactory.NewTrackedEvent("e", ldvalue.Null(), ""))
	assert.False(t, ep.FlushBlocking(50*time.Millisecond))

	<-waitingCh
	close(gateCh) // releases the worker so Close can complete
	require.NoError(t, ep.Close())
}

func TestFlushBlockingReturnsAfterDeliveryCompletes(t *testing.T) {
	ep, es := createEventProcessorAndSender(epDefaultConfig)
	defer ep.Close()

	ep.SendEvent(testEventFactory.NewTrackedEvent("e", ldvalue.Null(), ""))
	assert.True(t, ep.FlushBlocking(time.Second))
	assert.Equal(t, 1, es.getPayloadCount())
}

type fakeOverflowStore struct {
	lock   sync.Mutex
	events []Event
}

func (s *fakeOverflowStore) Append(events []Event) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.events = append(s.events, events...)
	return nil
}

func (s *fakeOverflowStore) PopOldest(limit int) ([]Event, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if limit > len(s.events) {
		limit = len(s.events)
	}
	popped := s.events[:limit]
	s.events = s.events[limit:]
	return popped, nil
}

func (s *fakeOverflowStore) Count() (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.events), nil
}

func (s *fakeOverflowStore) Close() error { return nil }
