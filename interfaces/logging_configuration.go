package interfaces

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// LoggingConfiguration encapsulates the SDK's general logging configuration.
//
// See pbcomponents.Logging() for the standard way to obtain a configuration.
type LoggingConfiguration interface {
	// GetLoggers returns the configured ldlog.Loggers instance.
	GetLoggers() ldlog.Loggers
}

// LoggingConfigurationFactory is an interface for a factory that creates a
// LoggingConfiguration.
type LoggingConfigurationFactory interface {
	// CreateLoggingConfiguration is called internally by the SDK to obtain the
	// configuration.
	CreateLoggingConfiguration() LoggingConfiguration
}
