// Package endpoints resolves service base URIs from the configuration and the DSN.
package endpoints

import (
	"strings"

	"github.com/pulseboard/go-client-sdk/interfaces"
)

// ServiceType is the parameter for SelectBaseURI.
type ServiceType int

const (
	// IngestService is the event and consent ingest service.
	IngestService ServiceType = iota
)

// SelectBaseURI returns the base URI to use for the given service: the explicitly
// configured endpoint if there is one, otherwise the base URL derived from the DSN.
func SelectBaseURI(
	serviceEndpoints interfaces.ServiceEndpoints,
	serviceType ServiceType,
	dsnBaseURI string,
) string {
	var configured string
	switch serviceType {
	case IngestService:
		configured = serviceEndpoints.Ingest
	}
	if configured != "" {
		return strings.TrimRight(configured, "/")
	}
	return strings.TrimRight(dsnBaseURI, "/")
}
