package interfaces

import (
	"net/http"
)

// HTTPConfiguration encapsulates top-level HTTP configuration that applies to all SDK
// components that make HTTP requests.
//
// See pbcomponents.HTTPConfiguration() for the standard way to obtain a configuration.
type HTTPConfiguration interface {
	// GetDefaultHeaders returns the headers that should be included in all HTTP requests
	// made by SDK components. These do not include headers that are specific to a
	// particular request, such as the idempotency key.
	GetDefaultHeaders() http.Header

	// CreateHTTPClient returns a new HTTP client instance based on the configuration.
	CreateHTTPClient() *http.Client
}

// HTTPConfigurationFactory is an interface for a factory that creates an HTTPConfiguration.
type HTTPConfigurationFactory interface {
	// CreateHTTPConfiguration is called internally by the SDK to obtain the configuration.
	//
	// This happens only when MakeClient or MakeCustomClient is called. If the
	// configuration is invalid (for instance, an unparseable proxy URL), this method
	// returns an error and client creation fails.
	CreateHTTPConfiguration(basicConfiguration BasicConfiguration) (HTTPConfiguration, error)
}
