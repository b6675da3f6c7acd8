// Package explorer holds the application shell: the per-visitor state
// machine that runs the content and image generators as a joined pair.
package explorer

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/omnidive/omnidive/internal/config"
	"github.com/omnidive/omnidive/internal/content"
	"github.com/omnidive/omnidive/internal/logging"
)

// Options configures a Shell.
type Options struct {
	SessionID    string
	Policy       config.OverlapPolicy
	DefaultTopic string
	Logger       *zap.Logger
	Recorder     Recorder
	Now          func() time.Time
}

// Shell owns one visitor's topic, loading flag and current result.
//
// Every fetch pair is tagged with a monotonically increasing request id; a
// pair only updates state if its id is still the latest issued when it
// joins, so overlapping searches converge on the newest one regardless of
// completion order.
type Shell struct {
	content ContentGenerator
	image   ImageGenerator
	opts    Options
	logger  *zap.Logger

	mu       sync.Mutex
	state    Snapshot
	latest   uint64
	inflight int
	mounted  bool
	subs     map[int]func(Snapshot)
	nextSub  int
}

// NewShell creates an idle shell.
func NewShell(cg ContentGenerator, ig ImageGenerator, opts Options) *Shell {
	if opts.Policy == "" {
		opts.Policy = config.PolicyRejectWhileLoading
	}
	if opts.DefaultTopic == "" {
		opts.DefaultTopic = config.DefaultTopic
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Shell{
		content: cg,
		image:   ig,
		opts:    opts,
		logger:  logging.OrNop(opts.Logger).Named("explorer").With(zap.String("session", opts.SessionID)),
		subs:    make(map[int]func(Snapshot)),
	}
}

// Snapshot returns a copy of the current state.
func (s *Shell) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to receive every state change. fn runs on the
// goroutine that changed the state and must not block. The returned func
// unregisters it.
func (s *Shell) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Mounted reports whether Mount has run.
func (s *Shell) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// Mount performs the initial load with the default topic. Only the first
// call does anything; later calls return OutcomeIgnored.
func (s *Shell) Mount(ctx context.Context) Result {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return Result{Outcome: OutcomeIgnored}
	}
	s.mounted = true
	s.mu.Unlock()

	return s.Submit(ctx, s.opts.DefaultTopic)
}

// Submit runs a search for topic and blocks until it has joined.
//
// A blank topic is a no-op. While a search is loading, the reject policy
// returns OutcomeBusy without starting a second pair; the latest-wins policy
// starts a new pair and the older one comes back OutcomeStale. A content
// failure is logged and leaves the displayed content untouched; no error is
// surfaced to the visitor.
func (s *Shell) Submit(ctx context.Context, topic string) Result {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Result{Outcome: OutcomeIgnored}
	}

	s.mu.Lock()
	if s.inflight > 0 && s.opts.Policy == config.PolicyRejectWhileLoading {
		s.mu.Unlock()
		return Result{Outcome: OutcomeBusy}
	}
	s.latest++
	id := s.latest
	s.inflight++
	s.state.Loading = true
	s.state.Pending = topic
	snap, subs := s.state, s.subscribers()
	s.mu.Unlock()
	notify(subs, snap)

	start := s.opts.Now()
	tc, img, err := s.fetchPair(ctx, topic)
	latency := s.opts.Now().Sub(start)

	s.mu.Lock()
	s.inflight--
	var outcome Outcome
	switch {
	case id != s.latest:
		outcome = OutcomeStale
	case err != nil:
		outcome = OutcomeFailed
		s.state.Loading = false
		s.state.Pending = ""
	default:
		outcome = OutcomeApplied
		s.state = Snapshot{
			Topic:     topic,
			Content:   tc,
			Image:     img,
			RequestID: id,
			UpdatedAt: s.opts.Now(),
		}
	}
	snap, subs = s.state, s.subscribers()
	s.mu.Unlock()

	switch outcome {
	case OutcomeFailed:
		s.logger.Error("failed to fetch topic data",
			zap.String("topic", topic),
			zap.Uint64("request_id", id),
			zap.String("kind", string(content.KindOf(err))),
			zap.Error(err))
	case OutcomeStale:
		if err != nil {
			s.logger.Warn("superseded request failed",
				zap.String("topic", topic),
				zap.Uint64("request_id", id),
				zap.String("kind", string(content.KindOf(err))),
				zap.Error(err))
			break
		}
		s.logger.Debug("discarding stale result", zap.String("topic", topic), zap.Uint64("request_id", id))
	default:
		s.logger.Info("topic loaded",
			zap.String("topic", topic),
			zap.Uint64("request_id", id),
			zap.Duration("latency", latency))
	}

	if outcome != OutcomeStale {
		notify(subs, snap)
	}

	res := Result{Outcome: outcome, RequestID: id, Latency: latency, Err: err}
	s.record(ctx, topic, res)
	return res
}

// fetchPair runs both generators concurrently and waits for both. The image
// side never fails, so the only error is the content generator's. A content
// failure does not cancel the image call.
func (s *Shell) fetchPair(ctx context.Context, topic string) (*content.TopicContent, string, error) {
	var (
		g   errgroup.Group
		tc  *content.TopicContent
		img string
	)
	g.Go(func() error {
		var err error
		tc, err = s.content.Generate(ctx, topic)
		return err
	})
	g.Go(func() error {
		img = s.image.Generate(ctx, topic)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, "", err
	}
	return tc, img, nil
}

func (s *Shell) record(ctx context.Context, topic string, res Result) {
	if s.opts.Recorder == nil {
		return
	}
	err := s.opts.Recorder.Record(context.WithoutCancel(ctx), Record{
		SessionID: s.opts.SessionID,
		Topic:     topic,
		RequestID: res.RequestID,
		Outcome:   res.Outcome,
		Latency:   res.Latency,
		Err:       res.Err,
	})
	if err != nil {
		s.logger.Warn("recording search", zap.Error(err))
	}
}

// subscribers copies the subscriber list; callers hold s.mu.
func (s *Shell) subscribers() []func(Snapshot) {
	out := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
