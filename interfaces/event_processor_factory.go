package interfaces

import (
	"github.com/pulseboard/go-client-sdk/pbevents"
)

// EventProcessorFactory is a factory that creates the event processor, which buffers
// telemetry events and delivers them to the ingest service in batches.
//
// The standard implementations are pbcomponents.SendEvents() and pbcomponents.NoEvents().
type EventProcessorFactory interface {
	// CreateEventProcessor is called internally by the SDK to create the event processor
	// instance.
	CreateEventProcessor(context ClientContext) (pbevents.EventProcessor, error)
}

// OverflowStoreFactory is a factory that creates a durable overflow store, which holds
// events that failed delivery so they survive a process restart.
//
// The standard implementation is pbsqlite.OverflowStore(). If no overflow store is
// configured, failed batches are requeued in memory instead.
type OverflowStoreFactory interface {
	// CreateOverflowStore is called internally by the SDK to create the store instance.
	CreateOverflowStore(context ClientContext) (pbevents.OverflowStore, error)
}
