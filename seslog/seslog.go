// ABOUTME: SQLite-backed session log: phases and transcript messages appended as the session runs.
// ABOUTME: A queryable record of past sessions, never the source of truth for live state.
package seslog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/oceanpilot/oceanpilot/workflow"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

// PhaseRow is a phases table row for list queries.
type PhaseRow struct {
	PhaseID       string
	SessionID     string
	Type          string
	Name          string
	SourcePhaseID string
	Mappings      map[string]string
	CreatedAt     string
}

// MessageRow is a messages table row for list queries.
type MessageRow struct {
	MessageID string
	SessionID string
	Sender    string
	Text      string
	IsStatus  bool
	CreatedAt string
}

// Log is the session log database handle.
type Log struct {
	db *sql.DB
}

// Open opens or creates the session log at the given path and migrates the
// schema.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open session log: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS phases (
			phase_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			type TEXT NOT NULL,
			name TEXT NOT NULL,
			source_phase_id TEXT NOT NULL DEFAULT '',
			mappings TEXT,
			created_at TEXT NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		);

		CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			sender TEXT NOT NULL,
			text TEXT NOT NULL,
			is_status INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Log{db: db}, nil
}

// Close closes the database connection.
func (l *Log) Close() error {
	return l.db.Close()
}

// StartSession records a session start. Idempotent for the same id.
func (l *Log) StartSession(sessionID string) error {
	_, err := l.db.Exec(
		`INSERT INTO sessions (session_id, started_at) VALUES (?, ?)
		 ON CONFLICT(session_id) DO NOTHING`,
		sessionID, time.Now().UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	return nil
}

// RecordPhase upserts a phase. Called on append and again when mappings attach.
func (l *Log) RecordPhase(sessionID string, p *workflow.Phase) error {
	var mappings *string
	if p.Mappings != nil {
		encoded, err := json.Marshal(p.Mappings)
		if err != nil {
			return fmt.Errorf("encode mappings: %w", err)
		}
		s := string(encoded)
		mappings = &s
	}
	_, err := l.db.Exec(
		`INSERT INTO phases (phase_id, session_id, type, name, source_phase_id, mappings, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(phase_id) DO UPDATE SET
			mappings = excluded.mappings,
			name = excluded.name`,
		p.ID, sessionID, string(p.Type), p.Name, p.SourcePhaseID, mappings,
		time.Now().UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("record phase: %w", err)
	}
	return nil
}

// RecordMessage appends one transcript message.
func (l *Log) RecordMessage(sessionID string, m workflow.Message) error {
	_, err := l.db.Exec(
		`INSERT INTO messages (message_id, session_id, sender, text, is_status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(message_id) DO NOTHING`,
		m.ID.String(), sessionID, string(m.From), m.Text, m.Status,
		m.Timestamp.Format(timeFormat))
	if err != nil {
		return fmt.Errorf("record message: %w", err)
	}
	return nil
}

// RecordState writes a whole session snapshot: the session row, every phase,
// and every transcript message. Upserts make it safe to call repeatedly.
func (l *Log) RecordState(state *workflow.State) error {
	id := state.Session.ID()
	if err := l.StartSession(id); err != nil {
		return err
	}
	for _, p := range state.History.Phases() {
		if err := l.RecordPhase(id, p); err != nil {
			return err
		}
	}
	for _, m := range state.Transcript.Messages() {
		if err := l.RecordMessage(id, m); err != nil {
			return err
		}
	}
	return nil
}

// ListPhases returns a session's phases in insertion order (phase ids are
// time-ordered for client phases; server ids keep insert order via rowid).
func (l *Log) ListPhases(sessionID string) ([]PhaseRow, error) {
	rows, err := l.db.Query(
		`SELECT phase_id, session_id, type, name, source_phase_id, mappings, created_at
		 FROM phases WHERE session_id = ? ORDER BY rowid ASC`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("query phases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var phases []PhaseRow
	for rows.Next() {
		var p PhaseRow
		var mappings *string
		if err := rows.Scan(&p.PhaseID, &p.SessionID, &p.Type, &p.Name,
			&p.SourcePhaseID, &mappings, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan phase row: %w", err)
		}
		if mappings != nil {
			if err := json.Unmarshal([]byte(*mappings), &p.Mappings); err != nil {
				return nil, fmt.Errorf("decode mappings for %s: %w", p.PhaseID, err)
			}
		}
		phases = append(phases, p)
	}
	return phases, rows.Err()
}

// ListMessages returns a session's messages in arrival order.
func (l *Log) ListMessages(sessionID string) ([]MessageRow, error) {
	rows, err := l.db.Query(
		`SELECT message_id, session_id, sender, text, is_status, created_at
		 FROM messages WHERE session_id = ? ORDER BY rowid ASC`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var messages []MessageRow
	for rows.Next() {
		var m MessageRow
		if err := rows.Scan(&m.MessageID, &m.SessionID, &m.Sender, &m.Text,
			&m.IsStatus, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// ListSessions returns all logged session ids, most recent first.
func (l *Log) ListSessions() ([]string, error) {
	rows, err := l.db.Query("SELECT session_id FROM sessions ORDER BY started_at DESC")
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
