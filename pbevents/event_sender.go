package pbevents

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

const (
	batchIngestPath    = "/api/v1/ingest/batch"
	consentReportPath  = "/api/v1/ingest/consent"
	defaultRetryDelay  = time.Second
	idempotencyKeyName = "Idempotency-Key"
)

// ServerSideEventSender is the standard implementation of EventSender and ConsentReporter.
// It delivers batch payloads to the ingest service over HTTP, with one immediate retry on
// recoverable failures. Every attempt, including a retry of the same payload, carries a
// freshly generated Idempotency-Key header so the service can deduplicate without the SDK
// having to track delivery state.
type ServerSideEventSender struct {
	httpClient  *http.Client
	publicKey   string
	ingestURI   string
	consentURI  string
	baseHeaders http.Header
	retryDelay  time.Duration
	loggers     ldlog.Loggers
}

// NewServerSideEventSender creates the standard implementation of EventSender, using the
// given base URI of the ingest service (scheme and host, no path).
func NewServerSideEventSender(
	httpClient *http.Client,
	publicKey string,
	baseURI string,
	baseHeaders http.Header,
	loggers ldlog.Loggers,
) *ServerSideEventSender {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	base := strings.TrimRight(baseURI, "/")
	return &ServerSideEventSender{
		httpClient:  httpClient,
		publicKey:   publicKey,
		ingestURI:   base + batchIngestPath,
		consentURI:  base + consentReportPath,
		baseHeaders: baseHeaders,
		retryDelay:  defaultRetryDelay,
		loggers:     loggers,
	}
}

// SendEventData attempts to deliver a batch payload. A recoverable failure (network error,
// 5xx, 400, 408, 429) is retried once after a short delay; an unrecoverable one is not.
// A 401 or 403 marks the result as MustShutDown.
func (s *ServerSideEventSender) SendEventData(kind EventDataKind, data []byte, eventCount int) EventSenderResult {
	var result EventSenderResult
	s.loggers.Debugf("Sending %d events: %s", eventCount, data)

	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			s.loggers.Warn("Will retry posting events after 1 second")
			time.Sleep(s.retryDelay)
		}
		req, reqErr := http.NewRequest("POST", s.ingestURI, bytes.NewReader(data))
		if reqErr != nil {
			s.loggers.Errorf("Unexpected error while creating event request: %+v", reqErr)
			return result
		}
		s.addHeaders(req)

		resp, respErr := s.httpClient.Do(req)
		if respErr != nil {
			s.loggers.Warnf("Unexpected error while sending events: %+v", respErr)
			continue
		}
		_ = resp.Body.Close()

		if err := checkForHTTPError(resp.StatusCode, s.ingestURI); err != nil {
			s.loggers.Error(httpErrorMessage(resp.StatusCode, "posting events", "will retry"))
			if !isHTTPErrorRecoverable(resp.StatusCode) {
				result.MustShutDown = resp.StatusCode == http.StatusUnauthorized ||
					resp.StatusCode == http.StatusForbidden
				return result
			}
			continue
		}

		s.loggers.Debugf("Events delivered (status %d)", resp.StatusCode)
		result.Success = true
		return result
	}
	return result
}

// SendEventDataBestEffort starts a single delivery attempt in the background, without
// retries and without reporting the outcome.
func (s *ServerSideEventSender) SendEventDataBestEffort(kind EventDataKind, data []byte) {
	req, reqErr := http.NewRequest("POST", s.ingestURI, bytes.NewReader(data))
	if reqErr != nil {
		return
	}
	s.addHeaders(req)
	go func() {
		resp, err := s.httpClient.Do(req)
		if err == nil {
			_ = resp.Body.Close()
		}
	}()
}

type consentReportJSON struct {
	AnonymousID string `json:"anonymous_id"`
	ConsentType string `json:"consent_type"`
	Granted     bool   `json:"granted"`
}

// SendConsent reports a consent change. Unlike batch delivery, any 2xx status counts as
// acknowledged and there is no retry; a lost consent report is reconciled by the next one.
func (s *ServerSideEventSender) SendConsent(anonymousID string, consentType string, granted bool) bool {
	body, err := json.Marshal(consentReportJSON{
		AnonymousID: anonymousID,
		ConsentType: consentType,
		Granted:     granted,
	})
	if err != nil {
		return false
	}
	req, reqErr := http.NewRequest("POST", s.consentURI, bytes.NewReader(body))
	if reqErr != nil {
		return false
	}
	s.addHeaders(req)

	resp, respErr := s.httpClient.Do(req)
	if respErr != nil {
		s.loggers.Warnf("Unexpected error while reporting consent: %+v", respErr)
		return false
	}
	_ = resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.loggers.Warnf("Received HTTP error %d when reporting consent", resp.StatusCode)
		return false
	}
	return true
}

func (s *ServerSideEventSender) addHeaders(req *http.Request) {
	if s.baseHeaders != nil {
		for k, vv := range s.baseHeaders {
			req.Header[k] = vv
		}
	}
	req.Header.Set("Authorization", "Bearer "+s.publicKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(idempotencyKeyName, uuid.NewString())
}
