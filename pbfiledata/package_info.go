// Package pbfiledata allows the SDK client to read consent state from a file, instead of
// (or in addition to) managing it through the GrantConsent/RevokeConsent API. This is
// useful when consent decisions are managed by an external agent or configuration system
// that writes them to disk.
//
// To use the file-based consent source, put it in the client configuration:
//
//	config := pbclient.Config{
//	    ConsentSource: pbfiledata.ConsentSource().FilePaths("./consent.yaml"),
//	}
//
// Use the pbfilewatch package to reload the file automatically when it changes.
//
// The file may be in YAML or JSON format, with a top-level "consent" object mapping
// category names to booleans:
//
//	consent:
//	  analytics: true
//	  crash_reporting: true
//	  performance: false
//
// Categories not listed in any file are treated as denied.
package pbfiledata
