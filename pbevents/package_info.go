// Package pbevents implements the telemetry event batching and delivery engine used by
// the Pulseboard SDK client.
//
// Events enter through a non-blocking inbox and are processed by a single dispatcher
// goroutine that owns the pending-event buffer, decides when batches are due (size
// threshold or inactivity timer), and hands batch payloads to a small pool of delivery
// workers. Failed batches are persisted to an OverflowStore when one is configured, or
// requeued in memory otherwise.
//
// Normally, you will not need to use this package directly; the pbclient package wires it
// up from the client configuration.
package pbevents
