package pbcomponents

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/pulseboard/go-client-sdk/interfaces"
	"github.com/pulseboard/go-client-sdk/internal"
)

// DefaultConnectTimeout is the HTTP connection timeout that is used if
// HTTPConfigurationBuilder.ConnectTimeout is not set.
const DefaultConnectTimeout = 10 * time.Second

// HTTPConfigurationBuilder contains methods for configuring the SDK's networking
// behavior.
//
// See HTTPConfiguration for usage.
type HTTPConfigurationBuilder struct {
	connectTimeout time.Duration
	customHeaders  http.Header
	proxyURL       string
	userAgent      string
}

// HTTPConfiguration returns a configuration builder for the SDK's HTTP configuration.
//
//	config := pbclient.Config{
//	    HTTP: pbcomponents.HTTPConfiguration().ConnectTimeout(3 * time.Second),
//	}
func HTTPConfiguration() *HTTPConfigurationBuilder {
	return &HTTPConfigurationBuilder{
		connectTimeout: DefaultConnectTimeout,
		customHeaders:  make(http.Header),
	}
}

// ConnectTimeout sets the maximum time to wait for each HTTP request, including
// connection setup. The default is DefaultConnectTimeout.
func (b *HTTPConfigurationBuilder) ConnectTimeout(timeout time.Duration) *HTTPConfigurationBuilder {
	if timeout <= 0 {
		b.connectTimeout = DefaultConnectTimeout
	} else {
		b.connectTimeout = timeout
	}
	return b
}

// Header specifies a custom HTTP header that should be added to all requests. Overwriting
// a header the SDK sets itself (such as Authorization) may cause requests to fail.
func (b *HTTPConfigurationBuilder) Header(name string, value string) *HTTPConfigurationBuilder {
	b.customHeaders.Set(name, value)
	return b
}

// ProxyURL specifies a proxy URL to be used for all requests, overriding any standard
// proxy environment variables.
func (b *HTTPConfigurationBuilder) ProxyURL(proxyURL string) *HTTPConfigurationBuilder {
	b.proxyURL = proxyURL
	return b
}

// UserAgent specifies an additional User-Agent header value, appended to the SDK's own.
func (b *HTTPConfigurationBuilder) UserAgent(userAgent string) *HTTPConfigurationBuilder {
	b.userAgent = userAgent
	return b
}

// CreateHTTPConfiguration is called internally by the SDK client. Applications do not
// need to call this method.
func (b *HTTPConfigurationBuilder) CreateHTTPConfiguration(
	basicConfiguration interfaces.BasicConfiguration,
) (interfaces.HTTPConfiguration, error) {
	connectTimeout := b.connectTimeout
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}

	var parsedProxyURL *url.URL
	if b.proxyURL != "" {
		u, err := url.Parse(b.proxyURL)
		if err != nil {
			return nil, errors.New("Invalid proxy URL " + b.proxyURL)
		}
		parsedProxyURL = u
	}

	headers := make(http.Header)
	headers.Set("X-SDK", internal.SDKName)
	headers.Set("X-SDK-Version", internal.SDKVersion)
	userAgent := "PulseboardGoClient/" + internal.SDKVersion
	if b.userAgent != "" {
		userAgent = userAgent + " " + b.userAgent
	}
	headers.Set("User-Agent", userAgent)
	for k, vv := range b.customHeaders {
		headers[k] = vv
	}

	clientFactory := func() *http.Client {
		client := http.Client{Timeout: connectTimeout}
		if parsedProxyURL != nil {
			transport := http.DefaultTransport.(*http.Transport).Clone()
			transport.Proxy = http.ProxyURL(parsedProxyURL)
			client.Transport = transport
		}
		return &client
	}

	return internal.HTTPConfigurationImpl{
		DefaultHeaders:    headers,
		HTTPClientFactory: clientFactory,
	}, nil
}
