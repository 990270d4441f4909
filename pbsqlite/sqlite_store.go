package pbsqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/pulseboard/go-client-sdk/pbevents"
)

const pragmaSQL = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 10000;
`

const schemaSQL = `
CREATE TABLE IF NOT EXISTS pending_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	data TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS sdk_identity (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// sqliteOverflowStore implements pbevents.OverflowStore and pbevents.IdentityStore on a
// local SQLite database. A single connection is used for all access; SQLite serializes
// the writes, and the busy timeout covers contention from other processes.
type sqliteOverflowStore struct {
	db        *sql.DB
	maxEvents int
	loggers   ldlog.Loggers
}

func newSQLiteOverflowStore(path string, maxEvents int, loggers ldlog.Loggers) (*sqliteOverflowStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create overflow store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open overflow store: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(pragmaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure overflow store: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create overflow store schema: %w", err)
	}
	loggers.Infof("Using SQLite overflow store at %s (capacity %d events)", path, maxEvents)
	return &sqliteOverflowStore{db: db, maxEvents: maxEvents, loggers: loggers}, nil
}

func (s *sqliteOverflowStore) Append(events []pbevents.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	for _, e := range events {
		data, err := pbevents.MarshalEvent(e)
		if err != nil {
			s.loggers.Warnf("Skipping unserializable event: %s", err)
			continue
		}
		ts := e.GetBase().Timestamp.UnixMilli()
		if _, err := tx.Exec(
			"INSERT INTO pending_events (data, created_at) VALUES (?, ?)", string(data), ts,
		); err != nil {
			return err
		}
	}

	// Evict oldest-first down to capacity.
	if _, err := tx.Exec(
		`DELETE FROM pending_events WHERE id NOT IN
			(SELECT id FROM pending_events ORDER BY id DESC LIMIT ?)`, s.maxEvents,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *sqliteOverflowStore) PopOldest(limit int) ([]pbevents.Event, error) {
	if limit <= 0 {
		return nil, nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	rows, err := tx.Query(
		"SELECT id, data FROM pending_events ORDER BY id ASC LIMIT ?", limit,
	)
	if err != nil {
		return nil, err
	}
	var events []pbevents.Event
	var lastID int64
	var found bool
	for rows.Next() {
		var id int64
		var data string
		if err := rows.Scan(&id, &data); err != nil {
			_ = rows.Close()
			return nil, err
		}
		lastID, found = id, true
		event, err := pbevents.UnmarshalEvent([]byte(data))
		if err != nil {
			// A row that can't be decoded is dropped with the batch; it would never
			// become deliverable by retrying.
			s.loggers.Warnf("Dropping undecodable stored event: %s", err)
			continue
		}
		events = append(events, event)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	if _, err := tx.Exec("DELETE FROM pending_events WHERE id <= ?", lastID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *sqliteOverflowStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM pending_events").Scan(&n)
	return n, err
}

func (s *sqliteOverflowStore) Identity(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM sdk_identity WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *sqliteOverflowStore) SetIdentity(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO sdk_identity (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value,
	)
	return err
}

func (s *sqliteOverflowStore) Close() error {
	return s.db.Close()
}
