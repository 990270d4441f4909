package pbsqlite

import (
	"net/http"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/pulseboard/go-client-sdk/interfaces"
)

type testClientContext struct{}

func (c testClientContext) GetBasic() interfaces.BasicConfiguration { return interfaces.BasicConfiguration{} }

func (c testClientContext) GetHTTP() interfaces.HTTPConfiguration { return testHTTPConfig{} }

func (c testClientContext) GetLogging() interfaces.LoggingConfiguration { return testLoggingConfig{} }

type testHTTPConfig struct{}

func (c testHTTPConfig) GetDefaultHeaders() http.Header { return nil }

func (c testHTTPConfig) CreateHTTPClient() *http.Client { return http.DefaultClient }

type testLoggingConfig struct{}

func (c testLoggingConfig) GetLoggers() ldlog.Loggers { return ldlog.NewDisabledLoggers() }
