package pbclient

import (
	"errors"
	"sync"
	"time"
)

// The process-wide accessor exists only for ergonomics at the outermost integration
// boundary; core logic always operates on an explicit *PBClient.
var (
	globalLock   sync.RWMutex //nolint:gochecknoglobals
	globalClient *PBClient    //nolint:gochecknoglobals
)

// Init creates a client with MakeCustomClient and installs it as the process-wide
// instance returned by Instance. It fails if an instance is already installed.
func Init(dsn string, config Config, waitFor time.Duration) error {
	globalLock.Lock()
	defer globalLock.Unlock()
	if globalClient != nil {
		return errors.New("pbclient.Init called twice without Shutdown")
	}
	client, err := MakeCustomClient(dsn, config, waitFor)
	if err != nil {
		return err
	}
	globalClient = client
	return nil
}

// Instance returns the process-wide client installed by Init, or nil if Init has not
// been called.
func Instance() *PBClient {
	globalLock.RLock()
	defer globalLock.RUnlock()
	return globalClient
}

// Shutdown closes the process-wide client and uninstalls it, so that Init may be called
// again. It is a no-op if no instance is installed.
func Shutdown() error {
	globalLock.Lock()
	defer globalLock.Unlock()
	if globalClient == nil {
		return nil
	}
	err := globalClient.Close()
	globalClient = nil
	return err
}
