package pbevents

import (
	"sync"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

type defaultEventProcessor struct {
	inboxCh       chan eventDispatcherMessage
	inboxFullOnce sync.Once
	closeOnce     sync.Once
	loggers       ldlog.Loggers
}

type eventDispatcher struct {
	config      EventsConfiguration
	outbox      *eventsOutbox
	flushTimer  *time.Timer
	timerActive bool
	userID      string
	disabled    bool
}

type flushPayload struct {
	events     []Event
	context    payloadContext
	bestEffort bool
}

type deliveryResult struct {
	events []Event
	result EventSenderResult
}

type sendEventsTask struct {
	sender    EventSender
	formatter payloadFormatter
	loggers   ldlog.Loggers
}

// Payload of the inboxCh channel.
type eventDispatcherMessage interface{}

type sendEventMessage struct {
	event Event
}

type flushEventsMessage struct {
	bestEffort bool
}

type setUserMessage struct {
	userID string
}

type shutdownEventsMessage struct {
	replyCh chan struct{}
}

type syncEventsMessage struct {
	replyCh chan struct{}
}

const maxFlushWorkers = 5

// NewDefaultEventProcessor creates an instance of the default implementation of the
// events engine. The configuration's EventSender must be non-nil.
func NewDefaultEventProcessor(config EventsConfiguration) EventProcessor {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.Capacity <= 0 {
		config.Capacity = DefaultCapacity
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = DefaultFlushInterval
	}
	inboxCh := make(chan eventDispatcherMessage, config.Capacity)
	startEventDispatcher(config, inboxCh)
	return &defaultEventProcessor{
		inboxCh: inboxCh,
		loggers: config.Loggers,
	}
}

func (ep *defaultEventProcessor) SendEvent(e Event) {
	ep.postNonBlockingMessageToInbox(sendEventMessage{event: e})
}

func (ep *defaultEventProcessor) SetUser(userID string) {
	ep.postNonBlockingMessageToInbox(setUserMessage{userID: userID})
}

func (ep *defaultEventProcessor) Flush() {
	ep.postNonBlockingMessageToInbox(flushEventsMessage{})
}

func (ep *defaultEventProcessor) FlushBlocking(timeout time.Duration) bool {
	ep.postNonBlockingMessageToInbox(flushEventsMessage{})
	m := syncEventsMessage{replyCh: make(chan struct{}, 1)}
	ep.inboxCh <- m
	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}
	select {
	case <-m.replyCh:
		return true
	case <-timeoutCh:
		return false
	}
}

func (ep *defaultEventProcessor) FlushBestEffort() {
	ep.postNonBlockingMessageToInbox(flushEventsMessage{bestEffort: true})
}

func (ep *defaultEventProcessor) postNonBlockingMessageToInbox(e eventDispatcherMessage) bool {
	select {
	case ep.inboxCh <- e:
		return true
	default:
	}
	// If the inbox is full, the dispatcher is seriously backed up with not-yet-processed
	// events. Blocking here would slow down the application at every capture call site,
	// so we drop the event instead. The log warning is only shown once.
	ep.inboxFullOnce.Do(func() {
		ep.loggers.Warn("Events are being produced faster than they can be processed; some events will be dropped")
	})
	return false
}

func (ep *defaultEventProcessor) Close() error {
	ep.closeOnce.Do(func() {
		// The flush and shutdown messages go directly into the channel instead of
		// through postNonBlockingMessageToInbox, because we *do* want to block to make
		// sure there is room; these messages are necessary for an orderly shutdown.
		ep.inboxCh <- flushEventsMessage{}
		m := shutdownEventsMessage{replyCh: make(chan struct{})}
		ep.inboxCh <- m
		<-m.replyCh
	})
	return nil
}

func startEventDispatcher(
	config EventsConfiguration,
	inboxCh <-chan eventDispatcherMessage,
) {
	ed := &eventDispatcher{
		config: config,
		outbox: newEventsOutbox(config.Capacity, config.Loggers),
	}

	// Start a fixed-size pool of workers that wait on flushCh. This is the maximum
	// number of deliveries that can be in flight concurrently. Each worker reports at
	// most one pending outcome on resultsCh before finishing a payload, and flushCh
	// holds at most one queued payload, so the results buffer can never fill up.
	flushCh := make(chan *flushPayload, 1)
	resultsCh := make(chan deliveryResult, maxFlushWorkers+1)
	var workersGroup sync.WaitGroup
	for i := 0; i < maxFlushWorkers; i++ {
		startFlushTask(config, flushCh, resultsCh, &workersGroup)
	}
	go ed.runMainLoop(inboxCh, flushCh, resultsCh, &workersGroup)
}

func (ed *eventDispatcher) runMainLoop(
	inboxCh <-chan eventDispatcherMessage,
	flushCh chan<- *flushPayload,
	resultsCh <-chan deliveryResult,
	workersGroup *sync.WaitGroup,
) {
	if err := recover(); err != nil {
		ed.config.Loggers.Errorf("Unexpected panic in event processing thread: %+v", err)
	}

	ed.flushTimer = time.NewTimer(ed.config.FlushInterval)
	ed.cancelFlushTimer()

	for {
		// Delivery outcomes get a higher priority than anything else, so that failed
		// batches are requeued before the next flush decision is made.
		select {
		case res := <-resultsCh:
			ed.handleResult(res)
		default:
			select {
			case res := <-resultsCh:
				ed.handleResult(res)
			case message := <-inboxCh:
				switch m := message.(type) {
				case sendEventMessage:
					ed.processEvent(m.event, flushCh, workersGroup)
				case flushEventsMessage:
					ed.triggerFlush(flushCh, workersGroup, m.bestEffort)
				case setUserMessage:
					ed.userID = m.userID
				case syncEventsMessage:
					workersGroup.Wait()
					ed.drainResults(resultsCh)
					m.replyCh <- struct{}{}
				case shutdownEventsMessage:
					ed.cancelFlushTimer()
					workersGroup.Wait() // wait for all in-progress deliveries to complete
					ed.drainResults(resultsCh)
					close(flushCh) // causes all idle flush workers to terminate
					m.replyCh <- struct{}{}
					return
				}
			case <-ed.flushTimer.C:
				ed.timerActive = false
				ed.triggerFlush(flushCh, workersGroup, false)
			}
		}
	}
}

// processEvent adds an event to the outbox. Reaching the batch size threshold initiates a
// flush immediately and synchronously within the dispatcher, so no more than one batch's
// worth of events can accumulate between flush attempts; otherwise the idle flush timer
// restarts from now.
func (ed *eventDispatcher) processEvent(evt Event, flushCh chan<- *flushPayload, workersGroup *sync.WaitGroup) {
	ed.outbox.addEvent(evt)
	if ed.outbox.count() >= ed.config.BatchSize {
		ed.triggerFlush(flushCh, workersGroup, false)
	} else {
		ed.rearmFlushTimer()
	}
}

// triggerFlush initiates delivery of everything due: first a batch drained from the
// overflow store, if any (retrying persisted events takes priority), then a batch from
// the head of the outbox. Each batch is its own payload with its own context snapshot.
func (ed *eventDispatcher) triggerFlush(flushCh chan<- *flushPayload, workersGroup *sync.WaitGroup, bestEffort bool) {
	ed.cancelFlushTimer()
	if ed.disabled {
		ed.outbox.clear()
		return
	}

	if store := ed.config.OverflowStore; store != nil && !bestEffort {
		stored, err := store.PopOldest(ed.config.BatchSize)
		if err != nil {
			ed.config.Loggers.Warnf("Error reading overflow store: %s", err)
		} else if len(stored) > 0 {
			ed.dispatchPayload(stored, flushCh, workersGroup, false, true)
		}
	}

	batch := ed.outbox.popBatch(ed.config.BatchSize)
	if len(batch) > 0 {
		ed.dispatchPayload(batch, flushCh, workersGroup, bestEffort, false)
	}
	if ed.outbox.count() > 0 {
		// More than one batch's worth was queued; the excess stays queued for the next
		// flush cycle.
		ed.rearmFlushTimer()
	}
}

func (ed *eventDispatcher) dispatchPayload(
	events []Event,
	flushCh chan<- *flushPayload,
	workersGroup *sync.WaitGroup,
	bestEffort bool,
	fromOverflow bool,
) {
	payload := flushPayload{
		events:     events,
		context:    payloadContext{EventContext: ed.config.EventContext, UserID: ed.userID},
		bestEffort: bestEffort,
	}
	workersGroup.Add(1) // increment the count of active deliveries
	select {
	case flushCh <- &payload:
		// A worker will pick up this payload and deliver it.
	default:
		// All workers are busy and one payload is already waiting. The events must not
		// be lost, so they go back where they came from until the next flush cycle.
		workersGroup.Done()
		if fromOverflow && ed.config.OverflowStore != nil {
			if err := ed.config.OverflowStore.Append(events); err != nil {
				ed.config.Loggers.Warnf("Error writing to overflow store, %d events dropped: %s", len(events), err)
			}
		} else {
			ed.outbox.pushFront(events)
		}
	}
}

// handleResult deals with a delivery outcome reported by a worker. Failed batches are
// never dropped silently: they are persisted to the overflow store when one is
// configured, or requeued at the head of the outbox otherwise.
func (ed *eventDispatcher) handleResult(res deliveryResult) {
	if res.result.MustShutDown {
		ed.disabled = true
		ed.outbox.clear()
		return
	}
	if res.result.Success {
		return
	}
	if store := ed.config.OverflowStore; store != nil {
		if err := store.Append(res.events); err != nil {
			ed.config.Loggers.Warnf("Error writing to overflow store, %d events dropped: %s", len(res.events), err)
		}
		return
	}
	ed.outbox.pushFront(res.events)
}

func (ed *eventDispatcher) drainResults(resultsCh <-chan deliveryResult) {
	for {
		select {
		case res := <-resultsCh:
			ed.handleResult(res)
		default:
			return
		}
	}
}

func (ed *eventDispatcher) rearmFlushTimer() {
	ed.cancelFlushTimer()
	ed.flushTimer.Reset(ed.config.FlushInterval)
	ed.timerActive = true
}

func (ed *eventDispatcher) cancelFlushTimer() {
	if ed.flushTimer == nil {
		return
	}
	if !ed.flushTimer.Stop() && ed.timerActive {
		// The timer already fired; drain the channel so a stale tick can't cause an
		// extra flush later.
		select {
		case <-ed.flushTimer.C:
		default:
		}
	}
	ed.timerActive = false
}

func startFlushTask(
	config EventsConfiguration,
	flushCh <-chan *flushPayload,
	resultsCh chan<- deliveryResult,
	workersGroup *sync.WaitGroup,
) {
	t := sendEventsTask{
		sender:    config.EventSender,
		formatter: newPayloadFormatter(nil),
		loggers:   config.Loggers,
	}
	go t.run(flushCh, resultsCh, workersGroup)
}

func (t *sendEventsTask) run(
	flushCh <-chan *flushPayload,
	resultsCh chan<- deliveryResult,
	workersGroup *sync.WaitGroup,
) {
	for {
		payload, more := <-flushCh
		if !more {
			// Channel has been closed - we're shutting down
			break
		}
		data, err := t.formatter.makePayloadJSON(payload.context, payload.events)
		if err != nil {
			t.loggers.Errorf("Unexpected error marshalling batch payload: %+v", err)
		} else if payload.bestEffort {
			t.sender.SendEventDataBestEffort(AnalyticsEventDataKind, data)
		} else {
			result := t.sender.SendEventData(AnalyticsEventDataKind, data, len(payload.events))
			if !result.Success {
				// The buffer size of resultsCh guarantees this never blocks.
				resultsCh <- deliveryResult{events: payload.events, result: result}
			}
		}
		workersGroup.Done() // decrement the count of in-progress deliveries
	}
}
