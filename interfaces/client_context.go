package interfaces

// BasicConfiguration is the subset of SDK configuration that is not dependent on any
// specific subsystem, and is passed to component factories when the client is created.
type BasicConfiguration struct {
	// PublicKey is the write key parsed from the DSN, used as the bearer token for the
	// ingest API.
	PublicKey string

	// ProjectID is the project identifier parsed from the DSN.
	ProjectID string

	// Environment is the environment name parsed from the DSN (for instance "prod").
	Environment string

	// BaseURI is the ingest service base URI derived from the DSN host, without a
	// trailing slash.
	BaseURI string

	// ServiceEndpoints contains optional custom service base URIs that override the DSN.
	ServiceEndpoints ServiceEndpoints

	// ApplicationInfo contains optional metadata describing the application.
	ApplicationInfo ApplicationInfo

	// Offline is true if the client was configured to make no network connections.
	Offline bool
}

// ClientContext provides SDK configuration information to component factories. It is
// implemented internally by the SDK; component factories receive it in their Create
// methods and should not need to construct it themselves.
type ClientContext interface {
	// GetBasic returns the basic properties of the SDK configuration.
	GetBasic() BasicConfiguration
	// GetHTTP returns the HTTP configuration for components that make HTTP requests.
	GetHTTP() HTTPConfiguration
	// GetLogging returns the logging configuration.
	GetLogging() LoggingConfiguration
}
