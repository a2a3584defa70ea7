// Package store provides SQLite-based session metadata storage for
// behaviord. One row is written per completed capture session; the CSV sink
// remains the durable record of the events themselves.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at_ms        INTEGER NOT NULL,
    ended_at_ms          INTEGER NOT NULL,
    output_path          TEXT NOT NULL,
    total_events         INTEGER NOT NULL,
    pointer_moves        INTEGER NOT NULL,
    clicks               INTEGER NOT NULL,
    key_presses          INTEGER NOT NULL,
    mean_pointer_speed   REAL NOT NULL,
    last_active_app      TEXT NOT NULL,
    last_background_apps INTEGER NOT NULL,
    dropped_lines        INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at_ms);
`

// Session is one completed capture session.
type Session struct {
	ID               int64
	StartedAtMs      int64
	EndedAtMs        int64
	OutputPath       string
	TotalEvents      int64
	PointerMoves     int64
	Clicks           int64
	KeyPresses       int64
	MeanPointerSpeed float64
	LastActiveApp    string
	LastBackground   int
	DroppedLines     int64
}

// Store wraps the SQLite session database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InsertSession records a completed session and returns its row id.
func (s *Store) InsertSession(sess *Session) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO sessions (started_at_ms, ended_at_ms, output_path,
			total_events, pointer_moves, clicks, key_presses,
			mean_pointer_speed, last_active_app, last_background_apps,
			dropped_lines)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.StartedAtMs, sess.EndedAtMs, sess.OutputPath,
		sess.TotalEvents, sess.PointerMoves, sess.Clicks, sess.KeyPresses,
		sess.MeanPointerSpeed, sess.LastActiveApp, sess.LastBackground,
		sess.DroppedLines,
	)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	return result.LastInsertId()
}

// ListSessions returns up to limit sessions, most recent first. A
// non-positive limit returns all sessions.
func (s *Store) ListSessions(limit int) ([]Session, error) {
	query := `
		SELECT id, started_at_ms, ended_at_ms, output_path, total_events,
			pointer_moves, clicks, key_presses, mean_pointer_speed,
			last_active_app, last_background_apps, dropped_lines
		FROM sessions ORDER BY started_at_ms DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.StartedAtMs, &sess.EndedAtMs,
			&sess.OutputPath, &sess.TotalEvents, &sess.PointerMoves,
			&sess.Clicks, &sess.KeyPresses, &sess.MeanPointerSpeed,
			&sess.LastActiveApp, &sess.LastBackground, &sess.DroppedLines,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}
