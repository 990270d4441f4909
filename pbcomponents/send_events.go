package pbcomponents

import (
	"time"

	"github.com/pulseboard/go-client-sdk/interfaces"
	"github.com/pulseboard/go-client-sdk/internal"
	"github.com/pulseboard/go-client-sdk/internal/endpoints"
	"github.com/pulseboard/go-client-sdk/pbevents"
)

// EventProcessorBuilder provides methods for configuring event delivery.
//
// See SendEvents for usage.
type EventProcessorBuilder struct {
	batchSize     int
	capacity      int
	flushInterval time.Duration
	overflowStore interfaces.OverflowStoreFactory
}

// SendEvents returns a configuration builder for the SDK's event delivery engine.
//
// The default configuration has events enabled with default settings. If you want to
// customize this behavior, call this function to obtain a builder, change its properties
// with the builder methods, and store it in Config.Events:
//
//	config := pbclient.Config{
//	    Events: pbcomponents.SendEvents().BatchSize(100).FlushInterval(time.Second * 10),
//	}
//
// To disable event delivery, use NoEvents instead of SendEvents.
func SendEvents() *EventProcessorBuilder {
	return &EventProcessorBuilder{
		batchSize:     pbevents.DefaultBatchSize,
		capacity:      pbevents.DefaultCapacity,
		flushInterval: pbevents.DefaultFlushInterval,
	}
}

// BatchSize sets the number of buffered events that triggers an immediate flush, and the
// maximum number of events delivered in a single request.
//
// The default is pbevents.DefaultBatchSize.
func (b *EventProcessorBuilder) BatchSize(batchSize int) *EventProcessorBuilder {
	b.batchSize = batchSize
	return b
}

// Capacity sets the capacity of the event buffer. Once this many events are queued and
// not yet delivered, additional events will be discarded until the buffer drains.
//
// The default is pbevents.DefaultCapacity.
func (b *EventProcessorBuilder) Capacity(capacity int) *EventProcessorBuilder {
	b.capacity = capacity
	return b
}

// FlushInterval sets how long the engine waits after the most recent event before
// delivering a partial batch. Any new event restarts the wait.
//
// The default is pbevents.DefaultFlushInterval.
func (b *EventProcessorBuilder) FlushInterval(interval time.Duration) *EventProcessorBuilder {
	b.flushInterval = interval
	return b
}

// OverflowStore sets a factory for a durable store that holds events whose delivery
// failed, so they survive a process restart. Normally this is set on the client
// configuration (Config.OverflowStore) rather than here; a store configured here takes
// precedence over the client-level one.
func (b *EventProcessorBuilder) OverflowStore(factory interfaces.OverflowStoreFactory) *EventProcessorBuilder {
	b.overflowStore = factory
	return b
}

// CreateEventProcessor is called internally by the SDK client to create the event
// processor instance. Applications do not need to call this method.
func (b *EventProcessorBuilder) CreateEventProcessor(
	context interfaces.ClientContext,
) (pbevents.EventProcessor, error) {
	loggers := context.GetLogging().GetLoggers()
	basic := context.GetBasic()

	var store pbevents.OverflowStore
	var eventContext pbevents.EventContext
	if cci, ok := context.(*internal.ClientContextImpl); ok {
		store = cci.OverflowStore
		eventContext = cci.EventContext
	}
	if b.overflowStore != nil {
		s, err := b.overflowStore.CreateOverflowStore(context)
		if err != nil {
			return nil, err
		}
		store = s
	}

	baseURI := endpoints.SelectBaseURI(basic.ServiceEndpoints, endpoints.IngestService, basic.BaseURI)
	sender := pbevents.NewServerSideEventSender(
		context.GetHTTP().CreateHTTPClient(),
		basic.PublicKey,
		baseURI,
		context.GetHTTP().GetDefaultHeaders(),
		loggers,
	)

	return pbevents.NewDefaultEventProcessor(pbevents.EventsConfiguration{
		BatchSize:     b.batchSize,
		Capacity:      b.capacity,
		FlushInterval: b.flushInterval,
		EventSender:   sender,
		OverflowStore: store,
		EventContext:  eventContext,
		Loggers:       loggers,
	}), nil
}
