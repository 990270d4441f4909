package pbcomponents

import (
	"log"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/pulseboard/go-client-sdk/interfaces"
	"github.com/pulseboard/go-client-sdk/internal"
)

// LoggingConfigurationBuilder contains methods for configuring the SDK's logging
// behavior.
//
// See Logging for usage.
type LoggingConfigurationBuilder struct {
	loggers  ldlog.Loggers
	minLevel ldlog.LogLevel
	setLevel bool
}

// Logging returns a configuration builder for the SDK's logging configuration.
//
// The default configuration writes to standard error at level Info. To change it, obtain
// a builder, change its properties with the builder methods, and store it in
// Config.Logging:
//
//	config := pbclient.Config{
//	    Logging: pbcomponents.Logging().MinLevel(ldlog.Warn),
//	}
func Logging() *LoggingConfigurationBuilder {
	b := &LoggingConfigurationBuilder{}
	b.loggers = ldlog.NewDefaultLoggers()
	return b
}

// NoLogging returns a configuration object that disables logging.
//
//	config := pbclient.Config{
//	    Logging: pbcomponents.NoLogging(),
//	}
func NoLogging() interfaces.LoggingConfigurationFactory {
	b := &LoggingConfigurationBuilder{}
	b.loggers = ldlog.NewDisabledLoggers()
	return b
}

// Loggers specifies an instance of ldlog.Loggers to use for SDK logging, replacing the
// default log destination.
func (b *LoggingConfigurationBuilder) Loggers(loggers ldlog.Loggers) *LoggingConfigurationBuilder {
	b.loggers = loggers
	return b
}

// MinLevel specifies the minimum level of log messages to produce. The default is
// ldlog.Info.
func (b *LoggingConfigurationBuilder) MinLevel(level ldlog.LogLevel) *LoggingConfigurationBuilder {
	b.minLevel = level
	b.setLevel = true
	return b
}

// BaseLogger specifies a base logger instance to use for all levels, replacing the
// default log destination.
func (b *LoggingConfigurationBuilder) BaseLogger(baseLogger *log.Logger) *LoggingConfigurationBuilder {
	b.loggers.SetBaseLogger(baseLogger)
	return b
}

// CreateLoggingConfiguration is called internally by the SDK client. Applications do not
// need to call this method.
func (b *LoggingConfigurationBuilder) CreateLoggingConfiguration() interfaces.LoggingConfiguration {
	loggers := b.loggers
	if b.setLevel {
		loggers.SetMinLevel(b.minLevel)
	}
	return internal.NewLoggingConfigurationImpl(loggers)
}
