package internal

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

type loggingConfigurationImpl struct {
	loggers ldlog.Loggers
}

// NewLoggingConfigurationImpl wraps a set of loggers in the LoggingConfiguration
// interface.
func NewLoggingConfigurationImpl(loggers ldlog.Loggers) loggingConfigurationImpl {
	return loggingConfigurationImpl{loggers: loggers}
}

func (c loggingConfigurationImpl) GetLoggers() ldlog.Loggers { return c.loggers }
