package internal

import (
	"net/http"
)

// HTTPConfigurationImpl is the internal implementation of interfaces.HTTPConfiguration.
type HTTPConfigurationImpl struct {
	DefaultHeaders    http.Header
	HTTPClientFactory func() *http.Client
}

func (c HTTPConfigurationImpl) GetDefaultHeaders() http.Header {
	// Copy the headers so that the caller can't mutate the configuration's copy.
	ret := make(http.Header, len(c.DefaultHeaders))
	for k, v := range c.DefaultHeaders {
		ret[k] = v
	}
	return ret
}

func (c HTTPConfigurationImpl) CreateHTTPClient() *http.Client {
	if c.HTTPClientFactory == nil {
		client := *http.DefaultClient
		return &client
	}
	return c.HTTPClientFactory()
}
