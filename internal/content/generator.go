// Package content asks a text model for a structured overview of a topic.
package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/omnidive/omnidive/internal/llm"
	"github.com/omnidive/omnidive/internal/logging"
)

// Generator produces TopicContent with one text-generation call per topic.
type Generator struct {
	provider llm.Provider
	model    string
	logger   *zap.Logger
}

// NewGenerator creates a Generator that always asks model through provider.
func NewGenerator(provider llm.Provider, model string, logger *zap.Logger) *Generator {
	return &Generator{
		provider: provider,
		model:    model,
		logger:   logging.OrNop(logger).Named("content"),
	}
}

// Generate sends one request and validates the answer. Failures are returned
// unrecovered: provider errors are wrapped as-is (NetworkFailure), bad
// responses are *ParseError (SchemaMismatch). There are no retries.
func (g *Generator) Generate(ctx context.Context, topic string) (*TopicContent, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}

	start := time.Now()
	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model: g.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: topicPrompt(topic)},
		},
		Schema:     ResponseSchema,
		SchemaName: "topic_content",
	})
	if err != nil {
		return nil, fmt.Errorf("generating content for %q: %w", topic, err)
	}

	g.logger.Debug("content generated",
		zap.String("topic", topic),
		zap.String("model", resp.Model),
		zap.Int("input_tokens", resp.InputTokens),
		zap.Int("output_tokens", resp.OutputTokens),
		zap.Float64("est_cost_usd", llm.EstimateCost(resp.Model, resp.InputTokens, resp.OutputTokens)),
		zap.Duration("elapsed", time.Since(start)),
	)

	tc, err := Parse(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parsing content for %q: %w", topic, err)
	}
	return tc, nil
}
