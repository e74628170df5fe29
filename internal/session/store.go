package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ziadkadry99/campusmap/internal/db"
)

// Store is a string key/value store partitioned by session id. It is shared
// by every connection and must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, sessionID, key string) (string, bool, error)
	Set(ctx context.Context, sessionID, key, value string) error
	// Take reads and removes a key in one step.
	Take(ctx context.Context, sessionID, key string) (string, bool, error)
	Delete(ctx context.Context, sessionID string, keys ...string) error
	// Touch marks the session as active without changing its values.
	Touch(ctx context.Context, sessionID string) error
	// Purge removes sessions with no activity since before.
	Purge(ctx context.Context, before time.Time) (int, error)
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	now      func() time.Time
}

type memorySession struct {
	values  map[string]string
	touched time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*memorySession), now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, sessionID, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return "", false, nil
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, sessionID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.session(sessionID)
	s.values[key] = value
	s.touched = m.now()
	return nil
}

func (m *MemoryStore) Take(_ context.Context, sessionID, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return "", false, nil
	}
	v, ok := s.values[key]
	if ok {
		delete(s.values, key)
		s.touched = m.now()
	}
	return v, ok, nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(s.values, k)
	}
	if len(s.values) == 0 {
		delete(m.sessions, sessionID)
	}
	return nil
}

func (m *MemoryStore) Touch(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		s.touched = m.now()
	}
	return nil
}

func (m *MemoryStore) Purge(_ context.Context, before time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.touched.Before(before) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) session(id string) *memorySession {
	s, ok := m.sessions[id]
	if !ok {
		s = &memorySession{values: make(map[string]string)}
		m.sessions[id] = s
	}
	return s
}

// SQLStore keeps sessions in the session_values table.
type SQLStore struct {
	db  *db.DB
	now func() time.Time
}

// NewSQLStore creates a SQLStore backed by the given database.
func NewSQLStore(database *db.DB) *SQLStore {
	return &SQLStore{db: database, now: time.Now}
}

const timeLayout = "2006-01-02 15:04:05"

func (s *SQLStore) stamp() string { return s.now().UTC().Format(timeLayout) }

func (s *SQLStore) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM session_values WHERE session_id = ? AND key = ?`, sessionID, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading session value: %w", err)
	}
	return v, true, nil
}

func (s *SQLStore) Set(ctx context.Context, sessionID, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_values (session_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		sessionID, key, value, s.stamp())
	if err != nil {
		return fmt.Errorf("writing session value: %w", err)
	}
	return nil
}

func (s *SQLStore) Take(ctx context.Context, sessionID, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`DELETE FROM session_values WHERE session_id = ? AND key = ? RETURNING value`, sessionID, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("taking session value: %w", err)
	}
	return v, true, nil
}

func (s *SQLStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	for _, k := range keys {
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM session_values WHERE session_id = ? AND key = ?`, sessionID, k); err != nil {
			return fmt.Errorf("deleting session value: %w", err)
		}
	}
	return nil
}

func (s *SQLStore) Touch(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE session_values SET updated_at = ? WHERE session_id = ?`, s.stamp(), sessionID); err != nil {
		return fmt.Errorf("touching session: %w", err)
	}
	return nil
}

func (s *SQLStore) Purge(ctx context.Context, before time.Time) (int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id FROM session_values GROUP BY session_id HAVING MAX(updated_at) < ?`,
		before.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("listing idle sessions: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning idle session: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("listing idle sessions: %w", err)
	}

	for _, id := range ids {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM session_values WHERE session_id = ?`, id); err != nil {
			return 0, fmt.Errorf("purging session: %w", err)
		}
	}
	return len(ids), nil
}
