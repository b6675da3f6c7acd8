package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/omnidive/omnidive/internal/db"
	"github.com/omnidive/omnidive/internal/explorer"
)

// createdAtLayouts are the forms created_at comes back in: the sqlite driver
// reports DATETIME columns as RFC 3339, raw strftime text has a space.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	time.DateTime,
}

func parseCreatedAt(s string) (time.Time, error) {
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised created_at %q", s)
}

// Store reads and writes the searches table.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Log inserts an entry. If entry.ID is empty a UUID is generated.
func (s *Store) Log(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO searches (id, session_id, topic, request_id, outcome, latency_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.SessionID,
		entry.Topic,
		int64(entry.RequestID),
		entry.Outcome,
		entry.LatencyMS,
		entry.Error,
	)
	if err != nil {
		return fmt.Errorf("inserting search: %w", err)
	}
	return nil
}

// Record implements explorer.Recorder.
func (s *Store) Record(ctx context.Context, rec explorer.Record) error {
	entry := Entry{
		SessionID: rec.SessionID,
		Topic:     rec.Topic,
		RequestID: rec.RequestID,
		Outcome:   string(rec.Outcome),
		LatencyMS: rec.Latency.Milliseconds(),
	}
	if rec.Err != nil {
		entry.Error = rec.Err.Error()
	}
	return s.Log(ctx, entry)
}

// Recent returns the newest entries first. If sessionID is non-empty only
// that visitor's searches are returned.
func (s *Store) Recent(ctx context.Context, sessionID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := "SELECT id, session_id, topic, request_id, outcome, latency_ms, error, created_at FROM searches"
	args := []any{}
	if sessionID != "" {
		query += " WHERE session_id = ?"
		args = append(args, sessionID)
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying searches: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e         Entry
			requestID int64
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Topic, &requestID, &e.Outcome, &e.LatencyMS, &e.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning search: %w", err)
		}
		e.RequestID = uint64(requestID)
		t, err := parseCreatedAt(createdAt)
		if err != nil {
			return nil, fmt.Errorf("scanning search %s: %w", e.ID, err)
		}
		e.CreatedAt = t
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LastLatency returns the latency of the most recent finished search.
// ok is false when nothing has been recorded yet.
func (s *Store) LastLatency(ctx context.Context) (time.Duration, bool, error) {
	var ms int64
	err := s.db.QueryRowContext(ctx,
		"SELECT latency_ms FROM searches ORDER BY created_at DESC, rowid DESC LIMIT 1",
	).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading last latency: %w", err)
	}
	return time.Duration(ms) * time.Millisecond, true, nil
}
