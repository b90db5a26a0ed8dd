// Package eventlog records hook invocations to a local SQLite database for
// post-mortem diagnostics. It is purely additive: nothing in the commit
// transaction reads it back.
package eventlog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rnwolfe/git-shadow/internal/config"
	_ "modernc.org/sqlite"
)

// Outcome classifies how a hook invocation ended.
type Outcome string

const (
	OK         Outcome = "ok"
	Error      Outcome = "error"
	RolledBack Outcome = "rolled_back"
)

// Entry is one recorded hook invocation.
type Entry struct {
	ID        string
	Hook      string
	Outcome   Outcome
	Timestamp time.Time
	Detail    string
}

// DB wraps the event log's SQLite connection.
type DB struct {
	conn *sql.DB
}

// Open opens (creating if necessary) the event log database under the XDG
// data directory.
func Open() (*DB, error) {
	paths := config.GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("creating data dirs: %w", err)
	}

	conn, err := sql.Open("sqlite", paths.DBFile+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening event log: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`CREATE TABLE IF NOT EXISTS hook_events (
		id TEXT PRIMARY KEY,
		hook TEXT NOT NULL,
		outcome TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		detail TEXT DEFAULT ''
	)`)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	_, err = db.conn.Exec(`CREATE INDEX IF NOT EXISTS idx_hook_events_timestamp ON hook_events(timestamp)`)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Record appends a hook invocation outcome to the log.
func (db *DB) Record(hook string, outcome Outcome, detail string) error {
	_, err := db.conn.Exec(
		`INSERT INTO hook_events (id, hook, outcome, timestamp, detail) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), hook, string(outcome), time.Now().UTC().Format(time.RFC3339), detail,
	)
	if err != nil {
		return fmt.Errorf("recording event: %w", err)
	}
	return nil
}

// Recent returns the most recent n hook events, newest first.
func (db *DB) Recent(n int) ([]Entry, error) {
	rows, err := db.conn.Query(
		`SELECT id, hook, outcome, timestamp, detail FROM hook_events ORDER BY timestamp DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts, outcome string
		if err := rows.Scan(&e.ID, &e.Hook, &outcome, &ts, &e.Detail); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.Outcome = Outcome(outcome)
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing event timestamp: %w", err)
		}
		e.Timestamp = parsed
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
