package pbclient

import (
	"github.com/pulseboard/go-client-sdk/interfaces"
	"github.com/pulseboard/go-client-sdk/internal"
	"github.com/pulseboard/go-client-sdk/pbcomponents"
)

func newClientContextFromConfig(dsn DSN, config Config) (*internal.ClientContextImpl, error) {
	basic := interfaces.BasicConfiguration{
		PublicKey:        dsn.PublicKey,
		ProjectID:        dsn.ProjectID,
		Environment:      dsn.Environment,
		BaseURI:          dsn.BaseURL,
		ServiceEndpoints: config.ServiceEndpoints,
		ApplicationInfo:  config.ApplicationInfo,
		Offline:          config.Offline,
	}

	loggingFactory := config.Logging
	if loggingFactory == nil {
		loggingFactory = pbcomponents.Logging()
	}
	logging := loggingFactory.CreateLoggingConfiguration()

	httpFactory := config.HTTP
	if httpFactory == nil {
		httpFactory = pbcomponents.HTTPConfiguration()
	}
	http, err := httpFactory.CreateHTTPConfiguration(basic)
	if err != nil {
		return nil, err
	}

	return &internal.ClientContextImpl{
		Basic:   basic,
		HTTP:    http,
		Logging: logging,
	}, nil
}
