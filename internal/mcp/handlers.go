package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/omnidive/omnidive/internal/chart"
	"github.com/omnidive/omnidive/internal/explorer"
	"github.com/omnidive/omnidive/internal/history"
)

// exploreResult is the JSON form of explore_topic.
type exploreResult struct {
	Topic   string `json:"topic"`
	Image   string `json:"image"`
	Content any    `json:"content"`
}

// handleExploreTopic runs one search through the shared shell.
func (s *Server) handleExploreTopic(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := request.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: topic"), nil
	}

	res := s.shell.Submit(ctx, topic)
	switch res.Outcome {
	case explorer.OutcomeIgnored:
		return mcp.NewToolResultError("topic must not be blank"), nil
	case explorer.OutcomeBusy:
		return mcp.NewToolResultError("another topic is still loading, try again shortly"), nil
	case explorer.OutcomeStale:
		return mcp.NewToolResultError("a newer request replaced this one"), nil
	case explorer.OutcomeFailed:
		return mcp.NewToolResultError(fmt.Sprintf("failed to explore %q: %v", topic, res.Err)), nil
	}

	snap := s.shell.Snapshot()
	if request.GetString("format", "markdown") == "json" {
		data, err := json.MarshalIndent(exploreResult{Topic: snap.Topic, Image: snap.Image, Content: snap.Content}, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
	return mcp.NewToolResultText(formatSnapshot(snap)), nil
}

// handleRecentSearches lists the search history.
func (s *Server) handleRecentSearches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.history == nil {
		return mcp.NewToolResultError("search history is not enabled"), nil
	}

	limit := request.GetInt("limit", history.DefaultLimit)
	entries, err := s.history.Recent(ctx, "", limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading history: %v", err)), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("No searches yet."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d recent search(es):\n", len(entries)))
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("- %s [%s] %dms\n", e.Topic, e.Outcome, e.LatencyMS))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// formatSnapshot renders the loaded topic as Markdown for agent consumption.
func formatSnapshot(snap explorer.Snapshot) string {
	tc := snap.Content
	var sb strings.Builder

	sb.WriteString("# " + tc.Title + "\n\n")
	sb.WriteString(fmt.Sprintf("![%s](%s)\n\n", snap.Topic, imageRef(snap.Image)))
	sb.WriteString(tc.Summary + "\n\n")

	sb.WriteString("## Key Facts\n")
	for i, f := range tc.Facts {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, f))
	}

	sb.WriteString("\n## Topic Analytics\n")
	for _, b := range chart.Build(tc.Stats) {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", b.Label, b.Tooltip))
	}

	sb.WriteString("\n## Common Questions\n")
	for _, qa := range tc.QAndA {
		sb.WriteString(fmt.Sprintf("\n**%s**\n%s\n", qa.Question, qa.Answer))
	}
	return sb.String()
}

// imageRef shortens inline image data, which is too large to be useful in
// a text result.
func imageRef(ref string) string {
	if strings.HasPrefix(ref, "data:") {
		if i := strings.IndexByte(ref, ';'); i > 0 {
			return ref[:i] + ";base64,..."
		}
	}
	return ref
}
