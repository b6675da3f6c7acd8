package content

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/omnidive/omnidive/internal/llm"
	"github.com/omnidive/omnidive/internal/llm/llmtest"
)

const quantumJSON = `{
  "title": "Quantum Computing: Beyond Bits",
  "summary": "Quantum computers use qubits.\n\nThey may transform chemistry.",
  "facts": ["f1", "f2", "f3", "f4", "f5"],
  "stats": [
    {"label": "Qubits", "value": 72},
    {"label": "Error rate", "value": 12.5},
    {"label": "Investment", "value": 90},
    {"label": "Adoption", "value": 8}
  ],
  "qAndA": [
    {"question": "q1", "answer": "a1"},
    {"question": "q2", "answer": "a2"},
    {"question": "q3", "answer": "a3"}
  ]
}`

func TestParseValid(t *testing.T) {
	tc, err := Parse(quantumJSON)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := &TopicContent{
		Title:   "Quantum Computing: Beyond Bits",
		Summary: "Quantum computers use qubits.\n\nThey may transform chemistry.",
		Facts:   []string{"f1", "f2", "f3", "f4", "f5"},
		Stats: []Stat{
			{Label: "Qubits", Value: 72},
			{Label: "Error rate", Value: 12.5},
			{Label: "Investment", Value: 90},
			{Label: "Adoption", Value: 8},
		},
		QAndA: []QA{{"q1", "a1"}, {"q2", "a2"}, {"q3", "a3"}},
	}
	if diff := cmp.Diff(want, tc); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason ParseReason
	}{
		{"empty", "  ", ReasonEmpty},
		{"not json", "Sure! Here is your overview:", ReasonInvalidJSON},
		{"truncated", `{"title": "x"`, ReasonInvalidJSON},
		{"missing field", `{"title":"t","summary":"s","facts":[],"stats":[]}`, ReasonSchema},
		{"wrong type", `{"title":"t","summary":"s","facts":"one","stats":[],"qAndA":[]}`, ReasonSchema},
		{"stat without value", `{"title":"t","summary":"s","facts":[],"stats":[{"label":"l"}],"qAndA":[]}`, ReasonSchema},
		{"stat out of range", `{"title":"t","summary":"s","facts":[],"stats":[{"label":"l","value":250}],"qAndA":[]}`, ReasonSchema},
		{"qa without answer", `{"title":"t","summary":"s","facts":[],"stats":[],"qAndA":[{"question":"q"}]}`, ReasonSchema},
		{"array root", `[]`, ReasonSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if pe.Reason != tt.reason {
				t.Errorf("reason = %q, want %q (%v)", pe.Reason, tt.reason, err)
			}
			if KindOf(err) != SchemaMismatch {
				t.Errorf("KindOf = %q, want %q", KindOf(err), SchemaMismatch)
			}
		})
	}
}

func TestGenerateSendsSchemaAndPrompt(t *testing.T) {
	mock := llmtest.NewMockProvider("test")
	mock.Response = &llm.CompletionResponse{Content: quantumJSON, Model: "gemini-3-flash-preview"}

	g := NewGenerator(mock, "gemini-3-flash-preview", nil)
	tc, err := g.Generate(context.Background(), "  Quantum Computing ")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(tc.Facts) != 5 || len(tc.Stats) != 4 || len(tc.QAndA) != 3 {
		t.Errorf("unexpected cardinalities: %d facts, %d stats, %d qa", len(tc.Facts), len(tc.Stats), len(tc.QAndA))
	}

	if mock.CallCount() != 1 {
		t.Fatalf("expected exactly 1 call, got %d", mock.CallCount())
	}
	req := mock.Calls[0]
	if req.Model != "gemini-3-flash-preview" {
		t.Errorf("model = %q", req.Model)
	}
	if req.Schema != ResponseSchema {
		t.Error("expected the fixed response schema to be sent")
	}
	user := req.Messages[len(req.Messages)-1].Content
	if !strings.Contains(user, `"Quantum Computing"`) {
		t.Errorf("prompt should quote the trimmed topic: %s", user)
	}
	for _, want := range []string{"5 interesting facts", "4 statistical data points", "3 common questions"} {
		if !strings.Contains(user, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGenerateEmptyTopic(t *testing.T) {
	mock := llmtest.NewMockProvider("test")
	g := NewGenerator(mock, "m", nil)

	_, err := g.Generate(context.Background(), "   ")
	if !errors.Is(err, ErrEmptyTopic) {
		t.Errorf("expected ErrEmptyTopic, got %v", err)
	}
	if mock.CallCount() != 0 {
		t.Errorf("expected no calls, got %d", mock.CallCount())
	}
}

func TestGenerateNetworkFailureNotRecovered(t *testing.T) {
	boom := errors.New("connection reset")
	mock := llmtest.NewMockProvider("test")
	mock.Err = boom

	g := NewGenerator(mock, "m", nil)
	tc, err := g.Generate(context.Background(), "Topic")
	if tc != nil {
		t.Error("expected no content on failure")
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped provider error, got %v", err)
	}
	if KindOf(err) != NetworkFailure {
		t.Errorf("KindOf = %q, want %q", KindOf(err), NetworkFailure)
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected no retries, got %d calls", mock.CallCount())
	}
}

func TestGenerateSchemaMismatch(t *testing.T) {
	mock := llmtest.NewMockProvider("test")
	mock.Response = &llm.CompletionResponse{Content: `{"title":"only a title"}`}

	g := NewGenerator(mock, "m", nil)
	_, err := g.Generate(context.Background(), "Topic")
	if KindOf(err) != SchemaMismatch {
		t.Errorf("expected schema mismatch, got %v", err)
	}
}
