package pbfiledata

import (
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/go-client-sdk/interfaces"
)

type capturingConsentUpdates struct {
	lock     sync.Mutex
	states   []interfaces.ConsentState
	statesCh chan interfaces.ConsentState
}

func newCapturingConsentUpdates() *capturingConsentUpdates {
	return &capturingConsentUpdates{statesCh: make(chan interfaces.ConsentState, 10)}
}

func (c *capturingConsentUpdates) ApplyConsent(state interfaces.ConsentState) {
	c.lock.Lock()
	c.states = append(c.states, state)
	c.lock.Unlock()
	c.statesCh <- state
}

func (c *capturingConsentUpdates) awaitState(t *testing.T) interfaces.ConsentState {
	select {
	case s := <-c.statesCh:
		return s
	case <-time.After(time.Second):
		require.Fail(t, "timed out waiting for consent state")
		return nil
	}
}

type stubClientContext struct{}

func (c stubClientContext) GetBasic() interfaces.BasicConfiguration { return interfaces.BasicConfiguration{} }
func (c stubClientContext) GetHTTP() interfaces.HTTPConfiguration   { return stubHTTPConfig{} }
func (c stubClientContext) GetLogging() interfaces.LoggingConfiguration {
	return stubLoggingConfig{}
}

type stubHTTPConfig struct{}

func (c stubHTTPConfig) GetDefaultHeaders() http.Header { return nil }
func (c stubHTTPConfig) CreateHTTPClient() *http.Client { return http.DefaultClient }

type stubLoggingConfig struct{}

func (c stubLoggingConfig) GetLoggers() ldlog.Loggers { return ldlog.NewDisabledLoggers() }

func writeTempFile(t *testing.T, name string, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func startSource(t *testing.T, builder *ConsentSourceBuilder, updates interfaces.ConsentUpdates) interfaces.ConsentSource {
	source, err := builder.CreateConsentSource(stubClientContext{}, updates)
	require.NoError(t, err)
	t.Cleanup(func() { _ = source.Close() })
	closeWhenReady := make(chan struct{})
	source.Start(closeWhenReady)
	select {
	case <-closeWhenReady:
	case <-time.After(time.Second):
		require.Fail(t, "timed out waiting for consent source to start")
	}
	return source
}

func TestConsentSourceLoadsYAMLFile(t *testing.T) {
	path := writeTempFile(t, "consent.yaml", `
consent:
  analytics: true
  crash_reporting: false
`)
	updates := newCapturingConsentUpdates()
	source := startSource(t, ConsentSource().FilePaths(path), updates)

	assert.True(t, source.IsInitialized())
	state := updates.awaitState(t)
	assert.Equal(t, interfaces.ConsentState{
		interfaces.ConsentAnalytics:      true,
		interfaces.ConsentCrashReporting: false,
	}, state)
}

func TestConsentSourceLoadsJSONFile(t *testing.T) {
	path := writeTempFile(t, "consent.json",
		`{"consent": {"performance": true}}`)
	updates := newCapturingConsentUpdates()
	startSource(t, ConsentSource().FilePaths(path), updates)

	state := updates.awaitState(t)
	assert.Equal(t, interfaces.ConsentState{interfaces.ConsentPerformance: true}, state)
}

func TestLaterFilesOverrideEarlierOnes(t *testing.T) {
	path1 := writeTempFile(t, "base.yaml", "consent:\n  analytics: true\n")
	path2 := writeTempFile(t, "override.yaml", "consent:\n  analytics: false\n")
	updates := newCapturingConsentUpdates()
	startSource(t, ConsentSource().FilePaths(path1, path2), updates)

	state := updates.awaitState(t)
	assert.Equal(t, interfaces.ConsentState{interfaces.ConsentAnalytics: false}, state)
}

func TestUnparseableFileDoesNotApplyAnyState(t *testing.T) {
	path := writeTempFile(t, "bad.yaml", "{not valid yaml: [")
	updates := newCapturingConsentUpdates()
	source, err := ConsentSource().FilePaths(path).CreateConsentSource(stubClientContext{}, updates)
	require.NoError(t, err)
	defer source.Close()

	closeWhenReady := make(chan struct{})
	source.Start(closeWhenReady)
	select {
	case <-closeWhenReady:
	case <-time.After(time.Second):
		require.Fail(t, "timed out waiting for start to complete")
	}

	assert.False(t, source.IsInitialized())
	assert.Len(t, updates.statesCh, 0)
}

func TestReloaderTriggersNewStateWhenFileChanges(t *testing.T) {
	path := writeTempFile(t, "consent.yaml", "consent:\n  analytics: true\n")
	updates := newCapturingConsentUpdates()

	// A fake reloader that just exposes the reload hook to the test.
	var reload func()
	fakeReloader := func(paths []string, loggers ldlog.Loggers, reloadFn func(), closeCh <-chan struct{}) error {
		reload = reloadFn
		return nil
	}
	startSource(t, ConsentSource().FilePaths(path).Reloader(fakeReloader), updates)
	updates.awaitState(t)

	require.NoError(t, os.WriteFile(path, []byte("consent:\n  analytics: false\n"), 0o600))
	reload()
	state := updates.awaitState(t)
	assert.Equal(t, interfaces.ConsentState{interfaces.ConsentAnalytics: false}, state)
}
