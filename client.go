// Package pbclient is the main package for the Pulseboard Go SDK client.
//
// The client collects application telemetry (custom events, user property updates, crash
// reports, and performance traces) and delivers it to the Pulseboard ingest API in
// batches. Capture calls are fire-and-forget: they never block on the network and never
// return delivery errors; failed batches are retried on the next flush cycle, optionally
// backed by a durable store (see the pbsqlite package).
package pbclient

import (
	"errors"
	"fmt"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/pulseboard/go-client-sdk/interfaces"
	"github.com/pulseboard/go-client-sdk/internal"
	"github.com/pulseboard/go-client-sdk/internal/endpoints"
	"github.com/pulseboard/go-client-sdk/pbcomponents"
	"github.com/pulseboard/go-client-sdk/pbevents"
)

// Version is the SDK version.
const Version = internal.SDKVersion

var errInitializationTimeout = errors.New("timeout encountered waiting for Pulseboard client initialization")

// PBClient is the Pulseboard SDK client object. Applications should instantiate a single
// instance per configured destination and share it everywhere telemetry is captured. All
// of its methods are safe for concurrent use.
type PBClient struct {
	dsn             DSN
	loggers         ldlog.Loggers
	eventProcessor  pbevents.EventProcessor
	eventFactory    pbevents.EventFactory
	sessions        *pbevents.SessionManager
	consent         *consentGate
	consentReporter pbevents.ConsentReporter
	consentSource   interfaces.ConsentSource
	overflowStore   pbevents.OverflowStore
	eventContext    pbevents.EventContext
	sampleRate      float64
	offline         bool
	initialized     bool
}

// CaptureExceptionOptions contains optional parameters for PBClient.CaptureException.
type CaptureExceptionOptions struct {
	// Fingerprint groups related crashes. If empty, the error's Go type name is used.
	Fingerprint string
	// Fatal marks the crash as having terminated the application.
	Fatal bool
	// Stacktrace is an optional pre-rendered stack trace.
	Stacktrace string
	// Breadcrumbs is the trail of application activity leading up to the crash.
	Breadcrumbs []pbevents.Breadcrumb
}

// MakeClient creates a new client instance from a DSN, using the default configuration.
//
// If an external consent source is not configured (the default), the client is ready
// immediately and waitFor is not used. See MakeCustomClient.
func MakeClient(dsn string, waitFor time.Duration) (*PBClient, error) {
	return MakeCustomClient(dsn, Config{}, waitFor)
}

// MakeCustomClient creates a new client instance from a DSN and a custom configuration.
//
// A malformed DSN is a fatal configuration error: no client is returned. If the
// configuration includes an external consent source, the client waits up to waitFor for
// that source to load; on timeout it returns both the (usable, but not yet initialized)
// client and an error.
func MakeCustomClient(dsnString string, config Config, waitFor time.Duration) (*PBClient, error) {
	closeWhenReady := make(chan struct{})

	dsn, err := ParseDSN(dsnString)
	if err != nil {
		return nil, err
	}

	clientContext, err := newClientContextFromConfig(dsn, config)
	if err != nil {
		return nil, err
	}
	loggers := clientContext.GetLogging().GetLoggers()
	loggers.Infof("Starting Pulseboard client %s (project %q, environment %q)",
		Version, dsn.ProjectID, dsn.Environment)

	client := &PBClient{
		dsn:          dsn,
		loggers:      loggers,
		eventFactory: pbevents.NewEventFactory(nil),
		sessions:     pbevents.NewSessionManager(config.SessionTimeout),
		consent:      newConsentGate(config.ConsentRequired),
		sampleRate:   config.SampleRate,
		offline:      config.Offline,
	}
	if client.sampleRate <= 0 {
		client.sampleRate = 1
	}

	if config.OverflowStore != nil && !config.Offline {
		store, storeErr := config.OverflowStore.CreateOverflowStore(clientContext)
		if storeErr != nil {
			// Durable storage is an enhancement, not a requirement; the client still
			// works with in-memory retry only.
			loggers.Warnf("Unable to open overflow store, continuing without durable storage: %s", storeErr)
		} else {
			client.overflowStore = store
		}
	}
	identities, _ := client.overflowStore.(pbevents.IdentityStore)
	client.eventContext = resolveEventContext(dsn, config, identities)

	clientContext.OverflowStore = client.overflowStore
	clientContext.EventContext = client.eventContext

	eventsFactory := config.Events
	if config.Offline {
		eventsFactory = pbcomponents.NoEvents()
	} else if eventsFactory == nil {
		eventsFactory = pbcomponents.SendEvents()
	}
	client.eventProcessor, err = eventsFactory.CreateEventProcessor(clientContext)
	if err != nil {
		return nil, err
	}

	if !config.Offline {
		client.consentReporter = pbevents.NewServerSideEventSender(
			clientContext.GetHTTP().CreateHTTPClient(),
			dsn.PublicKey,
			endpoints.SelectBaseURI(config.ServiceEndpoints, endpoints.IngestService, dsn.BaseURL),
			clientContext.GetHTTP().GetDefaultHeaders(),
			loggers,
		)
	}

	if config.ConsentSource == nil {
		client.initialized = true
		return client, nil
	}

	client.consentSource, err = config.ConsentSource.CreateConsentSource(clientContext, client.consent)
	if err != nil {
		_ = client.eventProcessor.Close()
		return nil, err
	}
	client.consentSource.Start(closeWhenReady)
	if waitFor > 0 {
		loggers.Infof("Waiting up to %d milliseconds for consent source to load", waitFor/time.Millisecond)
		timeout := time.After(waitFor)
		select {
		case <-closeWhenReady:
			client.initialized = client.consentSource.IsInitialized()
			return client, nil
		case <-timeout:
			loggers.Warn("Timeout encountered waiting for consent source to load")
			return client, errInitializationTimeout
		}
	}
	go func() { <-closeWhenReady }()
	return client, nil
}

// IsInitialized returns whether the client is in a valid state: the DSN was parsed
// successfully and, if an external consent source was configured, it has loaded.
func (client *PBClient) IsInitialized() bool {
	if client.consentSource != nil {
		return client.consentSource.IsInitialized()
	}
	return client.initialized
}

// Track captures a named analytics event with optional structured properties. Pass
// ldvalue.Null() for no properties.
//
// The event is dropped silently if the analytics consent category is denied or if it
// loses the sampling draw.
func (client *PBClient) Track(name string, properties ldvalue.Value) {
	if !client.consent.allows(interfaces.ConsentAnalytics) {
		return
	}
	if !internal.ShouldSample(client.sampleRate) {
		return
	}
	client.eventProcessor.SendEvent(
		client.eventFactory.NewTrackedEvent(name, properties, client.sessions.SessionID()))
}

// Identify associates subsequent batches with a known user id. An empty string reverts
// to anonymous-only identity. It does not generate an event of its own.
func (client *PBClient) Identify(userID string) {
	client.eventProcessor.SetUser(userID)
}

// SetUserProperties captures an ordered sequence of user property operations. The server
// applies the operations in order.
func (client *PBClient) SetUserProperties(operations []pbevents.UserPropertyOperation) {
	if !client.consent.allows(interfaces.ConsentAnalytics) {
		return
	}
	if len(operations) == 0 {
		return
	}
	client.eventProcessor.SendEvent(client.eventFactory.NewUserPropertiesEvent(operations))
}

// CaptureException captures a crash report for an error. A nil error is ignored.
func (client *PBClient) CaptureException(err error, options CaptureExceptionOptions) {
	if err == nil {
		return
	}
	if !client.consent.allows(interfaces.ConsentCrashReporting) {
		return
	}
	errType := fmt.Sprintf("%T", err)
	fingerprint := options.Fingerprint
	if fingerprint == "" {
		fingerprint = errType
	}
	client.eventProcessor.SendEvent(client.eventFactory.NewCrashEvent(
		fingerprint,
		options.Fatal,
		pbevents.ExceptionInfo{Type: errType, Message: err.Error(), Stacktrace: options.Stacktrace},
		options.Breadcrumbs,
	))
}

// Trace captures a performance trace measurement.
func (client *PBClient) Trace(name string, duration time.Duration, attributes ldvalue.Value) {
	if !client.consent.allows(interfaces.ConsentPerformance) {
		return
	}
	client.eventProcessor.SendEvent(client.eventFactory.NewTraceEvent(name, duration, attributes))
}

// Flush tells the client that all pending events should be delivered as soon as
// possible. This method is asynchronous, so events still may not be sent until a later
// time. Flushing is also done automatically by the event delivery engine.
func (client *PBClient) Flush() {
	client.eventProcessor.Flush()
}

// FlushAndWait is like Flush, but also waits until all deliveries it triggered have
// completed, up to the given timeout. It returns false if the timeout elapsed first.
func (client *PBClient) FlushAndWait(timeout time.Duration) bool {
	return client.eventProcessor.FlushBlocking(timeout)
}

// GrantConsent grants the given consent categories (or all categories, if none are
// given), and reports the change to the ingest service.
func (client *PBClient) GrantConsent(categories ...interfaces.ConsentType) {
	client.setConsent(true, categories)
}

// RevokeConsent revokes the given consent categories (or all categories, if none are
// given), and reports the change to the ingest service. Events already queued are still
// delivered; only new events are gated.
func (client *PBClient) RevokeConsent(categories ...interfaces.ConsentType) {
	client.setConsent(false, categories)
}

func (client *PBClient) setConsent(granted bool, categories []interfaces.ConsentType) {
	if len(categories) == 0 {
		categories = allConsentTypes
	}
	for _, category := range categories {
		client.consent.set(category, granted)
	}
	if client.consentReporter == nil {
		return
	}
	// Report asynchronously; consent changes are fire-and-forget like capture calls, and
	// a lost report is reconciled by the next one.
	anonymousID := client.eventContext.AnonymousID
	reporter := client.consentReporter
	go func() {
		for _, category := range categories {
			reporter.SendConsent(anonymousID, string(category), granted)
		}
	}()
}

// AnonymousID returns the stable pseudo-identity assigned to this installation. When a
// durable overflow store is configured, the id persists across process restarts.
func (client *PBClient) AnonymousID() string {
	return client.eventContext.AnonymousID
}

// SessionID returns the current session id, starting a new session first if the previous
// one has been idle longer than the configured session timeout.
func (client *PBClient) SessionID() string {
	return client.sessions.SessionID()
}

// Close shuts down the client. After delivering any pending events, it stops the event
// delivery engine, the consent source, and the overflow store. The client cannot be used
// after closing.
func (client *PBClient) Close() error {
	client.loggers.Info("Closing Pulseboard client")
	if err := client.eventProcessor.Close(); err != nil {
		return err
	}
	if client.consentSource != nil {
		if err := client.consentSource.Close(); err != nil {
			return err
		}
	}
	if client.overflowStore != nil {
		if err := client.overflowStore.Close(); err != nil {
			return err
		}
	}
	return nil
}
