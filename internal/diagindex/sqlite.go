// Package diagindex stores logged invocations in a SQLite database so
// debugging sessions can be queried with plain SQL instead of grepping
// NDJSON.
package diagindex

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	logres "interact-nearest/addon/logging/resolution"
)

type SQLiteIndex struct {
	db *sql.DB
}

func Open(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteIndex{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("pragma %q: %w", pragma, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS invocations (
	invocation INTEGER NOT NULL,
	time TEXT NOT NULL,
	autoloot INTEGER NOT NULL,
	considered INTEGER NOT NULL,
	selected_id TEXT,
	tier INTEGER,
	action TEXT,
	distance REAL,
	outcome TEXT NOT NULL,
	candidates TEXT NOT NULL,
	PRIMARY KEY (invocation, time)
);
CREATE INDEX IF NOT EXISTS idx_invocations_outcome ON invocations(outcome);
CREATE INDEX IF NOT EXISTS idx_invocations_selected ON invocations(selected_id);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// InsertRecord upserts one logged invocation. Candidates are stored as
// their original JSON.
func (x *SQLiteIndex) InsertRecord(record logres.Record) error {
	if x == nil || x.db == nil {
		return fmt.Errorf("index not open")
	}
	candidates, err := json.Marshal(record.Payload.Candidates)
	if err != nil {
		return err
	}
	_, err = x.db.Exec(
		`INSERT OR REPLACE INTO invocations
		(invocation, time, autoloot, considered, selected_id, tier, action, distance, outcome, candidates)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Invocation,
		record.Time.UTC().Format("2006-01-02T15:04:05.000000000Z07:00"),
		boolToInt(record.Payload.Autoloot),
		record.Payload.Considered,
		record.Payload.SelectedID,
		record.Payload.Tier,
		record.Payload.Action,
		record.Payload.Distance,
		record.Payload.Outcome,
		string(candidates),
	)
	return err
}

// CountByOutcome reports how many stored invocations ended with the
// given outcome.
func (x *SQLiteIndex) CountByOutcome(outcome string) (int, error) {
	if x == nil || x.db == nil {
		return 0, fmt.Errorf("index not open")
	}
	var count int
	err := x.db.QueryRow(`SELECT COUNT(*) FROM invocations WHERE outcome = ?`, outcome).Scan(&count)
	return count, err
}

func (x *SQLiteIndex) Close() error {
	if x == nil || x.db == nil {
		return nil
	}
	return x.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
