// Package history is the local sqlite archive: every backend call the
// console makes, and the simulator transcript per user. Both are best
// effort; the console keeps working when the archive does not.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/omrstudio/pilotctl/internal/api"
	"github.com/omrstudio/pilotctl/internal/types"
)

const timestampLayout = "2006-01-02 15:04:05"

type Manager struct {
	db *sql.DB
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	m := &Manager{db: db}
	if err := m.initSchema(); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Manager) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		request_id TEXT NOT NULL,
		action TEXT NOT NULL,
		status INTEGER NOT NULL,
		error_code TEXT,
		duration_ms INTEGER NOT NULL,
		request_body TEXT,
		response_body TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_calls_timestamp ON calls(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_calls_action ON calls(action);

	CREATE TABLE IF NOT EXISTS chat_messages (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		author TEXT NOT NULL,
		role TEXT NOT NULL,
		message TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_chat_user ON chat_messages(user_id, timestamp);
	`

	_, err := m.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return nil
}

// RecordCall archives one backend call. Satisfies the facade's Recorder.
func (m *Manager) RecordCall(rec api.CallRecord) error {
	query := `
		INSERT INTO calls (
			timestamp, request_id, action, status, error_code,
			duration_ms, request_body, response_body
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := m.db.Exec(query,
		rec.TS.Local().Format(timestampLayout),
		rec.RequestID,
		rec.Action,
		rec.Status,
		rec.ErrorCode,
		rec.DurationMS,
		rec.RequestBody,
		rec.ResponseBody,
	)

	if err != nil {
		return fmt.Errorf("failed to save call record: %w", err)
	}

	return nil
}

// RecentCalls returns up to limit records, newest first.
func (m *Manager) RecentCalls(limit int) ([]api.CallRecord, error) {
	query := `
		SELECT timestamp, request_id, action, status, COALESCE(error_code, ''),
		       duration_ms, COALESCE(request_body, ''), COALESCE(response_body, '')
		FROM calls
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := m.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load call records: %w", err)
	}
	defer rows.Close()

	var records []api.CallRecord
	for rows.Next() {
		var rec api.CallRecord
		var timestamp string
		if err := rows.Scan(
			&timestamp,
			&rec.RequestID,
			&rec.Action,
			&rec.Status,
			&rec.ErrorCode,
			&rec.DurationMS,
			&rec.RequestBody,
			&rec.ResponseBody,
		); err != nil {
			return nil, fmt.Errorf("failed to scan call record: %w", err)
		}
		parsed, err := time.ParseInLocation(timestampLayout, timestamp, time.Local)
		if err != nil {
			parsed = time.Now()
		}
		rec.TS = parsed
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (m *Manager) CallCount() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM calls").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get call count: %w", err)
	}
	return count, nil
}

func (m *Manager) ClearCalls() error {
	_, err := m.db.Exec("DELETE FROM calls")
	if err != nil {
		return fmt.Errorf("failed to clear call records: %w", err)
	}
	return nil
}

// SaveChatMessage appends one simulator bubble to the user's transcript.
func (m *Manager) SaveChatMessage(userID string, msg types.ChatMessage) error {
	query := `
		INSERT OR IGNORE INTO chat_messages (id, user_id, timestamp, author, role, message)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := m.db.Exec(query,
		msg.ID,
		userID,
		time.Now().Local().Format(timestampLayout),
		msg.Author,
		msg.Role,
		msg.Message,
	)

	if err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}

	return nil
}

// LoadChat returns the user's transcript in send order.
func (m *Manager) LoadChat(userID string) ([]types.ChatMessage, error) {
	query := `
		SELECT id, author, role, message
		FROM chat_messages
		WHERE user_id = ?
		ORDER BY timestamp ASC, rowid ASC
	`

	rows, err := m.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat transcript: %w", err)
	}
	defer rows.Close()

	var messages []types.ChatMessage
	for rows.Next() {
		var msg types.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.Author, &msg.Role, &msg.Message); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// ClearChat drops the user's transcript.
func (m *Manager) ClearChat(userID string) error {
	_, err := m.db.Exec("DELETE FROM chat_messages WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("failed to clear chat transcript: %w", err)
	}
	return nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
