package pbclient

import (
	"time"

	"github.com/pulseboard/go-client-sdk/interfaces"
)

// Config exposes advanced configuration options for the Pulseboard client.
//
// All of these settings are optional, so an empty Config struct is always valid. See the
// description of each field for the default behavior if it is not set.
//
// Some of the Config fields are actually factories for subcomponents of the SDK. The
// types of these fields are interfaces whose standard implementations are in the
// pbcomponents, pbsqlite, and pbfiledata packages.
type Config struct {
	// Events sets the implementation of the component that buffers and delivers
	// telemetry events.
	//
	// The interface type for this field allows you to set it to any of the following:
	//   - pbcomponents.SendEvents(), which enables events and provides builder methods
	//     for customization
	//   - pbcomponents.NoEvents(), which disables events
	Events interfaces.EventProcessorFactory

	// Logging sets the SDK's logging behavior, using a builder from pbcomponents such as
	// pbcomponents.Logging() or pbcomponents.NoLogging().
	Logging interfaces.LoggingConfigurationFactory

	// HTTP sets the SDK's networking behavior, using a builder such as
	// pbcomponents.HTTPConfiguration().
	HTTP interfaces.HTTPConfigurationFactory

	// OverflowStore sets a factory for a durable store that holds events whose delivery
	// failed, so that they survive a process restart, such as pbsqlite.OverflowStore().
	// If nil, failed events are requeued in memory only.
	//
	// If the store cannot be opened, the client logs a warning and proceeds without
	// durable storage rather than failing initialization.
	OverflowStore interfaces.OverflowStoreFactory

	// ConsentSource sets an optional external source of consent state, such as
	// pbfiledata.ConsentSource(). If nil, consent is managed only through the client's
	// GrantConsent and RevokeConsent methods.
	ConsentSource interfaces.ConsentSourceFactory

	// ServiceEndpoints overrides the base URIs derived from the DSN. Leave it empty
	// unless you are using a relay or test fixture.
	ServiceEndpoints interfaces.ServiceEndpoints

	// ApplicationInfo describes the application that is using the SDK; it is included in
	// every batch payload.
	ApplicationInfo interfaces.ApplicationInfo

	// Offline, if true, makes the client discard all events without any network activity.
	Offline bool

	// ConsentRequired, if true, starts every consent category ungranted; events in a
	// category are dropped until it is granted. If false (the default), all categories
	// start granted.
	ConsentRequired bool

	// SampleRate is the fraction of tracked events to keep, in the range (0, 1]. The
	// zero value means keep everything.
	SampleRate float64

	// SessionTimeout is the inactivity window after which a new session id is generated.
	// The zero value means pbevents.DefaultSessionTimeout.
	SessionTimeout time.Duration
}
