package pbsqlite

import (
	"github.com/pulseboard/go-client-sdk/interfaces"
	"github.com/pulseboard/go-client-sdk/pbevents"
)

// DefaultPath is the database file path that is used if Path is not specified.
const DefaultPath = "pulseboard.db"

// DefaultMaxPersistedEvents is the event capacity that is used if MaxPersistedEvents is
// not specified.
const DefaultMaxPersistedEvents = 1000

// StoreBuilder is a builder for configuring the SQLite-based overflow store.
//
// Obtain an instance of this type by calling OverflowStore(). After calling its methods
// to specify any desired custom settings, store it in the OverflowStore field of the
// client configuration.
//
// Builder calls can be chained:
//
//	config.OverflowStore = pbsqlite.OverflowStore().Path("events.db").MaxPersistedEvents(500)
type StoreBuilder struct {
	path      string
	maxEvents int
}

// OverflowStore returns a configurable builder for a SQLite-backed overflow store.
func OverflowStore() *StoreBuilder {
	return &StoreBuilder{
		path:      DefaultPath,
		maxEvents: DefaultMaxPersistedEvents,
	}
}

// Path specifies the location of the database file. Parent directories are created if
// they do not exist. The default is DefaultPath, relative to the working directory.
func (b *StoreBuilder) Path(path string) *StoreBuilder {
	b.path = path
	return b
}

// MaxPersistedEvents specifies the maximum number of events the store will hold. When an
// append would exceed this limit, the oldest stored events are evicted to make room. The
// default is DefaultMaxPersistedEvents.
func (b *StoreBuilder) MaxPersistedEvents(n int) *StoreBuilder {
	b.maxEvents = n
	return b
}

// CreateOverflowStore is called internally by the SDK client to create the store
// instance. Applications do not need to call this method.
func (b *StoreBuilder) CreateOverflowStore(
	context interfaces.ClientContext,
) (pbevents.OverflowStore, error) {
	path := b.path
	if path == "" {
		path = DefaultPath
	}
	maxEvents := b.maxEvents
	if maxEvents <= 0 {
		maxEvents = DefaultMaxPersistedEvents
	}
	return newSQLiteOverflowStore(path, maxEvents, context.GetLogging().GetLoggers())
}
