package interfaces

// ServiceEndpoints allows custom service base URIs to be specified, overriding the base
// URI that is normally derived from the DSN host.
//
// The most common use case is pointing the SDK at a test fixture or a relay that forwards
// batches to the real ingest service:
//
//	config := pbclient.Config{
//	    ServiceEndpoints: interfaces.ServiceEndpoints{Ingest: "http://localhost:8080"},
//	}
type ServiceEndpoints struct {
	// Ingest is the base URI for the ingest service. The SDK appends the standard API
	// paths to it. An empty value means the DSN host is used.
	Ingest string
}
