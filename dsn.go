package pbclient

import (
	"fmt"
	"net/url"
	"strings"
)

// DSN holds the parsed components of a data source name string, which identifies the
// ingest service, the project, and the environment that a client reports into.
//
// The expected format is:
//
//	scheme://public_key@host/project_id/environment
//
// Any path segments after the environment are ignored.
type DSN struct {
	// PublicKey is the write key used as the bearer token on ingest requests.
	PublicKey string
	// Host is the ingest service host, including any port.
	Host string
	// ProjectID identifies the project that events belong to.
	ProjectID string
	// Environment identifies the environment within the project, such as "prod".
	Environment string
	// BaseURL is the scheme and host portion of the DSN, with no trailing slash.
	BaseURL string
}

// ParseDSN parses a DSN string into its components, returning an error if any required
// component is missing or the string is not a valid URL.
func ParseDSN(dsnString string) (DSN, error) {
	u, err := url.Parse(dsnString)
	if err != nil {
		return DSN{}, fmt.Errorf("invalid DSN: malformed URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return DSN{}, fmt.Errorf("invalid DSN: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return DSN{}, fmt.Errorf("invalid DSN: malformed URL: %q", dsnString)
	}
	if u.User == nil || u.User.Username() == "" {
		return DSN{}, fmt.Errorf("invalid DSN: must contain a public key before the host")
	}

	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(segments) < 2 {
		return DSN{}, fmt.Errorf("invalid DSN: path must contain project id and environment")
	}

	return DSN{
		PublicKey:   u.User.Username(),
		Host:        u.Host,
		ProjectID:   segments[0],
		Environment: segments[1],
		BaseURL:     u.Scheme + "://" + u.Host,
	}, nil
}
