package pbfiledata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"gopkg.in/ghodss/yaml.v1"

	"github.com/pulseboard/go-client-sdk/interfaces"
)

type fileConsentSource struct {
	consentUpdates  interfaces.ConsentUpdates
	absFilePaths    []string
	reloaderFactory ReloaderFactory
	loggers         ldlog.Loggers
	isInitialized   bool
	readyCh         chan<- struct{}
	readyOnce       sync.Once
	closeOnce       sync.Once
	closeReloaderCh chan struct{}
}

func newFileConsentSourceImpl(
	context interfaces.ClientContext,
	consentUpdates interfaces.ConsentUpdates,
	filePaths []string,
	reloaderFactory ReloaderFactory,
) (interfaces.ConsentSource, error) {
	abs, err := absFilePaths(filePaths)
	if err != nil {
		return nil, err
	}

	cs := &fileConsentSource{
		consentUpdates:  consentUpdates,
		absFilePaths:    abs,
		reloaderFactory: reloaderFactory,
		loggers:         context.GetLogging().GetLoggers(),
	}
	cs.loggers.SetPrefix("FileConsentSource:")
	return cs, nil
}

func (cs *fileConsentSource) IsInitialized() bool {
	return cs.isInitialized
}

func (cs *fileConsentSource) Start(closeWhenReady chan<- struct{}) {
	cs.readyCh = closeWhenReady
	cs.reload()

	// If there is no reloader, then we signal readiness immediately regardless of whether
	// the load succeeded or failed.
	if cs.reloaderFactory == nil {
		cs.signalStartComplete(cs.isInitialized)
		return
	}

	// If there is a reloader, and if we haven't yet successfully loaded data, then the
	// readiness signal will happen the first time we do get valid data (in reload).
	cs.closeReloaderCh = make(chan struct{})
	err := cs.reloaderFactory(cs.absFilePaths, cs.loggers, cs.reload, cs.closeReloaderCh)
	if err != nil {
		cs.loggers.Errorf("Unable to start reloader: %s\n", err)
	}
}

// reload rereads all of the configured files and pushes the merged consent state to the
// client. If any file cannot be loaded or parsed, the consent state is not modified.
func (cs *fileConsentSource) reload() {
	merged := interfaces.ConsentState{}
	for _, path := range cs.absFilePaths {
		data, err := readFile(path)
		if err != nil {
			cs.loggers.Errorf("Unable to load consent: %s [%s]", err, path)
			return
		}
		for category, granted := range data.Consent {
			merged[interfaces.ConsentType(category)] = granted
		}
	}
	cs.consentUpdates.ApplyConsent(merged)
	cs.signalStartComplete(true)
}

func (cs *fileConsentSource) signalStartComplete(succeeded bool) {
	cs.readyOnce.Do(func() {
		cs.isInitialized = succeeded
		if cs.readyCh != nil {
			close(cs.readyCh)
		}
	})
}

func absFilePaths(paths []string) ([]string, error) {
	absPaths := make([]string, 0)
	for _, p := range paths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("unable to determine absolute path for '%s'", p)
		}
		absPaths = append(absPaths, absPath)
	}
	return absPaths, nil
}

type fileData struct {
	Consent map[string]bool
}

func readFile(path string) (fileData, error) {
	var data fileData
	var rawData []byte
	var err error
	if rawData, err = os.ReadFile(path); err != nil { // nolint:gosec // G304: ok to read file into variable
		return data, fmt.Errorf("unable to read file: %s", err)
	}
	if detectJSON(rawData) {
		err = json.Unmarshal(rawData, &data)
	} else {
		err = yaml.Unmarshal(rawData, &data)
	}
	if err != nil {
		err = fmt.Errorf("error parsing file: %s", err)
	}
	return data, err
}

func detectJSON(rawData []byte) bool {
	// A valid JSON file for our purposes must be an object, i.e. it must start with '{'
	return strings.HasPrefix(strings.TrimLeftFunc(string(rawData), unicode.IsSpace), "{")
}

// Close is called automatically when the client is closed.
func (cs *fileConsentSource) Close() (err error) {
	cs.closeOnce.Do(func() {
		if cs.closeReloaderCh != nil {
			close(cs.closeReloaderCh)
		}
	})
	return nil
}
