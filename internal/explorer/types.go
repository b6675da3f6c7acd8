package explorer

import (
	"context"
	"time"

	"github.com/omnidive/omnidive/internal/content"
)

// ContentGenerator produces the structured document for a topic. Errors are
// not recovered by the shell beyond logging.
type ContentGenerator interface {
	Generate(ctx context.Context, topic string) (*content.TopicContent, error)
}

// ImageGenerator produces an image reference for a topic. It must not fail.
type ImageGenerator interface {
	Generate(ctx context.Context, topic string) string
}

// Phase is the coarse state of a shell.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
)

// Outcome says what a Submit did.
type Outcome string

const (
	// OutcomeIgnored: blank topic or already mounted; nothing happened.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeBusy: a search was loading and the policy rejects overlaps.
	OutcomeBusy Outcome = "busy"
	// OutcomeApplied: both generators finished and the result is displayed.
	OutcomeApplied Outcome = "applied"
	// OutcomeStale: the pair finished after a newer request was issued; discarded.
	OutcomeStale Outcome = "stale"
	// OutcomeFailed: content generation failed; previous state kept.
	OutcomeFailed Outcome = "failed"
)

// Snapshot is a copy of a shell's state. Content is shared and immutable.
type Snapshot struct {
	// Topic is the topic of the displayed content.
	Topic string `json:"topic"`
	// Pending is the topic being loaded, if any.
	Pending   string                `json:"pending,omitempty"`
	Loading   bool                  `json:"loading"`
	Content   *content.TopicContent `json:"content,omitempty"`
	Image     string                `json:"image,omitempty"`
	RequestID uint64                `json:"requestId"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// Phase derives the coarse state. A loading shell that still shows older
// content reports PhaseLoading; Content tells the two apart.
func (s Snapshot) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseLoading
	case s.Content != nil:
		return PhaseReady
	default:
		return PhaseIdle
	}
}

// Result reports a finished Submit.
type Result struct {
	Outcome   Outcome
	RequestID uint64
	Latency   time.Duration
	Err       error
}

// Record is handed to a Recorder once per finished fetch pair.
type Record struct {
	SessionID string
	Topic     string
	RequestID uint64
	Outcome   Outcome
	Latency   time.Duration
	Err       error
}

// Recorder receives finished fetch pairs, e.g. to persist search history.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}
