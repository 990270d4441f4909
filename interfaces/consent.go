package interfaces

// ConsentType identifies a category of telemetry that a user can grant or revoke consent
// for. Events whose category is not granted are silently discarded before they are queued.
type ConsentType string

const (
	// ConsentAnalytics covers tracked events and user property updates.
	ConsentAnalytics ConsentType = "analytics"
	// ConsentCrashReporting covers crash events.
	ConsentCrashReporting ConsentType = "crash_reporting"
	// ConsentPerformance covers performance trace events.
	ConsentPerformance ConsentType = "performance"
)

// ConsentState is a snapshot of consent grants by category. Categories that are absent
// from the map are left unchanged when the state is applied.
type ConsentState map[ConsentType]bool

// ConsentUpdates is the interface through which a ConsentSource pushes consent changes
// into the SDK. It is implemented internally by the client's consent gate.
type ConsentUpdates interface {
	// ApplyConsent applies a consent snapshot. Only the categories present in the
	// snapshot are modified.
	ApplyConsent(state ConsentState)
}

// ConsentSource is a component that supplies consent state from an external source, such
// as a file maintained by a consent management platform. See pbfiledata.ConsentSource().
type ConsentSource interface {
	// Start begins delivering consent state to the ConsentUpdates sink that was provided
	// when the source was created. The source closes closeWhenReady once it has applied
	// an initial state (or determined that it cannot).
	Start(closeWhenReady chan<- struct{})

	// IsInitialized returns true if the source has successfully applied a consent state
	// at least once.
	IsInitialized() bool

	// Close stops the source and releases its resources.
	Close() error
}

// ConsentSourceFactory is a factory that creates a ConsentSource.
type ConsentSourceFactory interface {
	// CreateConsentSource is called internally by the SDK, passing the consent gate as
	// the updates sink.
	CreateConsentSource(context ClientContext, updates ConsentUpdates) (ConsentSource, error)
}
