// Package history persists finished searches so the dashboard and the
// history API can report on them.
package history

import "time"

// Entry is one finished fetch pair.
type Entry struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId,omitempty"`
	Topic     string    `json:"topic"`
	RequestID uint64    `json:"requestId"`
	Outcome   string    `json:"outcome"`
	LatencyMS int64     `json:"latencyMs"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// DefaultLimit caps Recent when the caller passes no positive limit.
const DefaultLimit = 20
