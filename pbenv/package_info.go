// Package pbenv builds a Pulseboard client configuration from environment variables, for
// twelve-factor deployments where the DSN and tuning knobs are injected by the runtime
// rather than hard-coded.
//
// Recognized variables:
//
//	PULSEBOARD_DSN                   connection string (required)
//	PULSEBOARD_OFFLINE               discard all events without network activity
//	PULSEBOARD_CONSENT_REQUIRED      start all consent categories ungranted
//	PULSEBOARD_SAMPLE_RATE           fraction of tracked events to keep (0, 1]
//	PULSEBOARD_SESSION_TIMEOUT       session inactivity window (Go duration syntax)
//	PULSEBOARD_BATCH_SIZE            events per delivery request
//	PULSEBOARD_FLUSH_INTERVAL        idle window before a partial batch is delivered
//	PULSEBOARD_OVERFLOW_DB_PATH      SQLite overflow store path; empty disables it
//	PULSEBOARD_MAX_PERSISTED_EVENTS  overflow store capacity
//	PULSEBOARD_APP_ID                application id reported in batch payloads
//	PULSEBOARD_APP_VERSION           application version reported in batch payloads
//	PULSEBOARD_APP_BUILD             application build number reported in batch payloads
package pbenv
