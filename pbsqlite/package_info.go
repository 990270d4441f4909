// Package pbsqlite provides a SQLite-backed durable overflow store for the Pulseboard
// SDK client, using the pure-Go driver modernc.org/sqlite (no cgo).
//
// Events whose delivery failed are persisted here so that they survive a process restart;
// the store also persists the anonymous id and other identity values. The store is
// bounded: when it is full, the oldest events are evicted first.
//
// To use it, put it in the client configuration:
//
//	config := pbclient.Config{
//	    OverflowStore: pbsqlite.OverflowStore().Path("/var/lib/myapp/pulseboard.db"),
//	}
package pbsqlite
