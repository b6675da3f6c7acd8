package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/omnidive/omnidive/internal/chart"
	"github.com/omnidive/omnidive/internal/config"
	"github.com/omnidive/omnidive/internal/content"
	"github.com/omnidive/omnidive/internal/dashboard"
	"github.com/omnidive/omnidive/internal/explorer"
)

const testSession = "7f1c4b8e-3d2a-4c5e-9b6f-0a1b2c3d4e5f"

type fakeContent struct {
	mu      sync.Mutex
	calls   []string
	gates   map[string]chan struct{}
	started chan string
	summary string
}

func newFakeContent() *fakeContent {
	return &fakeContent{gates: make(map[string]chan struct{}), started: make(chan string, 16)}
}

func (f *fakeContent) gate(topic string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[topic] = ch
	return ch
}

func (f *fakeContent) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeContent) Generate(ctx context.Context, topic string) (*content.TopicContent, error) {
	f.mu.Lock()
	f.calls = append(f.calls, topic)
	gate := f.gates[topic]
	summary := f.summary
	f.mu.Unlock()

	f.started <- topic
	if gate != nil {
		<-gate
	}
	if summary == "" {
		summary = "An overview of " + topic + "."
	}
	return &content.TopicContent{
		Title:   topic + " Explained",
		Summary: summary,
		Facts:   []string{"fact one", "fact two", "fact three", "fact four", "fact five"},
		Stats: []content.Stat{
			{Label: "Qubits", Value: 72},
			{Label: "Fidelity", Value: 99},
			{Label: "Adoption", Value: 12},
			{Label: "Funding", Value: 64},
		},
		QAndA: []content.QA{
			{Question: "What is it?", Answer: "A thing."},
			{Question: "Why care?", Answer: "Because."},
			{Question: "What next?", Answer: "More."},
		},
	}, nil
}

type fakeImage struct{}

func (fakeImage) Generate(ctx context.Context, topic string) string {
	return "data:image/png;base64,iVBORw0KGgo="
}

func newTestHandler(t *testing.T, cg *fakeContent, policy config.OverlapPolicy) (chi.Router, *dashboard.Dashboard) {
	t.Helper()
	registry := explorer.NewRegistry(func(id string) *explorer.Shell {
		return explorer.NewShell(cg, fakeImage{}, explorer.Options{
			SessionID:    id,
			Policy:       policy,
			DefaultTopic: "Quantum Computing",
		})
	}, 0)
	dash := dashboard.New(nil, nil)
	dash.Mount()
	dash.MarkLoaded()

	h := New(Options{
		Registry:  registry,
		Dashboard: dash,
		Policy:    policy,
		Spawn:     func(fn func()) { fn() },
	})
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r, dash
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: testSession})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPageRendersQuantumComputing(t *testing.T) {
	cg := newFakeContent()
	r, _ := newTestHandler(t, cg, config.PolicyRejectWhileLoading)

	w := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()

	if !strings.Contains(body, "Quantum Computing Explained") {
		t.Error("expected title in page")
	}
	if got := strings.Count(body, `class="fact"`); got != 5 {
		t.Errorf("expected 5 facts, got %d", got)
	}
	if got := strings.Count(body, "<rect "); got != 4 {
		t.Errorf("expected 4 bars, got %d", got)
	}
	for i := 0; i < 4; i++ {
		want := fmt.Sprintf(`fill="%s"`, chart.Palette[i%len(chart.Palette)])
		if !strings.Contains(body, want) {
			t.Errorf("expected bar %d with %s", i, want)
		}
	}
	if got := strings.Count(body, `class="qa"`); got != 3 {
		t.Errorf("expected 3 Q&A items, got %d", got)
	}
	if !strings.Contains(body, `src="data:image/png;base64,iVBORw0KGgo="`) {
		t.Error("expected inline image data in img src")
	}
	if !strings.Contains(body, `id="memory">N/A<`) {
		t.Error("expected N/A memory usage on dashboard")
	}
	if strings.Contains(body, `class="overlay"`) {
		t.Error("no overlay expected once loaded")
	}
}

func TestPageMountsOnce(t *testing.T) {
	cg := newFakeContent()
	r, _ := newTestHandler(t, cg, config.PolicyRejectWhileLoading)

	do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	do(r, httptest.NewRequest(http.MethodGet, "/", nil))

	if n := cg.callCount(); n != 1 {
		t.Errorf("expected 1 content call, got %d", n)
	}
}

func TestNewVisitorGetsCookie(t *testing.T) {
	cg := newFakeContent()
	r, _ := newTestHandler(t, cg, config.PolicyRejectWhileLoading)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie || cookies[0].Value == "" {
		t.Fatalf("expected a session cookie, got %v", cookies)
	}
}

func TestSessionFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		want   string
	}{
		{"no cookie", "", ""},
		{"garbage", "not-a-uuid", ""},
		{"valid", testSession, testSession},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			if got := SessionFromRequest(req); got != tt.want {
				t.Errorf("SessionFromRequest() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummaryMarkdownDropsRawHTML(t *testing.T) {
	cg := newFakeContent()
	cg.summary = "Qubits are **strange**.\n\n<script>alert(1)</script>"
	r, _ := newTestHandler(t, cg, config.PolicyRejectWhileLoading)

	body := do(r, httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	if !strings.Contains(body, "<strong>strange</strong>") {
		t.Error("expected rendered markdown emphasis")
	}
	if strings.Contains(body, "alert(1)") {
		t.Error("raw HTML from the summary must not be rendered")
	}
}

func TestBlankFormSubmitIsNoop(t *testing.T) {
	cg := newFakeContent()
	r, _ := newTestHandler(t, cg, config.PolicyRejectWhileLoading)
	do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	before := do(r, httptest.NewRequest(http.MethodGet, "/api/state", nil)).Body.String()

	form := url.Values{"topic": {"   "}}
	req := httptest.NewRequest(http.MethodPost, "/explore", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := do(r, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if n := cg.callCount(); n != 1 {
		t.Errorf("expected no new content calls, got %d total", n)
	}
	after := do(r, httptest.NewRequest(http.MethodGet, "/api/state", nil)).Body.String()
	if before != after {
		t.Errorf("state changed on blank submit:\n%s\n%s", before, after)
	}
}

func TestFormSubmitLoadsTopic(t *testing.T) {
	cg := newFakeContent()
	r, _ := newTestHandler(t, cg, config.PolicyRejectWhileLoading)

	form := url.Values{"topic": {"Rust"}}
	req := httptest.NewRequest(http.MethodPost, "/explore", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if w := do(r, req); w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}

	var msg stateMessage
	json.NewDecoder(do(r, httptest.NewRequest(http.MethodGet, "/api/state", nil)).Body).Decode(&msg)
	if msg.State.Topic != "Rust" || msg.Phase != explorer.PhaseReady {
		t.Errorf("unexpected state %+v", msg)
	}
}

func TestAPIExplore(t *testing.T) {
	cg := newFakeContent()
	r, _ := newTestHandler(t, cg, config.PolicyRejectWhileLoading)

	req := httptest.NewRequest(http.MethodPost, "/api/explore", strings.NewReader(`{"topic":"Rust"}`))
	w := do(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var msg stateMessage
	if err := json.NewDecoder(w.Body).Decode(&msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Outcome != explorer.OutcomeApplied {
		t.Errorf("outcome = %q, want applied", msg.Outcome)
	}
	if msg.State.Content == nil || msg.State.Content.Title != "Rust Explained" {
		t.Errorf("unexpected content %+v", msg.State.Content)
	}

	bad := do(r, httptest.NewRequest(http.MethodPost, "/api/explore", strings.NewReader(`{`)))
	if bad.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad JSON, got %d", bad.Code)
	}
}

func TestLoadingStateAndBusy(t *testing.T) {
	cg := newFakeContent()
	r, _ := newTestHandler(t, cg, config.PolicyRejectWhileLoading)
	do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	<-cg.started // initial mount

	gate := cg.gate("Slow")
	first := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		first <- do(r, httptest.NewRequest(http.MethodPost, "/api/explore", strings.NewReader(`{"topic":"Slow"}`)))
	}()
	select {
	case <-cg.started:
	case <-time.After(5 * time.Second):
		t.Fatal("slow search never started")
	}

	busy := do(r, httptest.NewRequest(http.MethodPost, "/api/explore", strings.NewReader(`{"topic":"Other"}`)))
	if busy.Code != http.StatusConflict {
		t.Errorf("expected 409 while loading, got %d", busy.Code)
	}

	page := do(r, httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	if !strings.Contains(page, "<fieldset disabled>") {
		t.Error("expected the form to be disabled while loading")
	}
	frag := do(r, httptest.NewRequest(http.MethodGet, "/fragment", nil)).Body.String()
	if !strings.Contains(frag, `class="overlay"`) {
		t.Error("expected loading overlay over previous content")
	}
	if !strings.Contains(frag, "Quantum Computing Explained") {
		t.Error("previous content should stay visible under the overlay")
	}

	close(gate)
	if w := <-first; w.Code != http.StatusOK {
		t.Errorf("slow search: expected 200, got %d", w.Code)
	}
	if n := cg.callCount(); n != 2 {
		t.Errorf("expected 2 content calls, got %d", n)
	}
}

func TestLatestWinsFormStaysEnabled(t *testing.T) {
	cg := newFakeContent()
	r, _ := newTestHandler(t, cg, config.PolicyLatestWins)
	do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	<-cg.started

	gate := cg.gate("Slow")
	first := make(chan struct{})
	go func() {
		do(r, httptest.NewRequest(http.MethodPost, "/api/explore", strings.NewReader(`{"topic":"Slow"}`)))
		close(first)
	}()
	<-cg.started

	page := do(r, httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	if strings.Contains(page, "<fieldset disabled>") {
		t.Error("form should stay enabled under latest-wins")
	}
	close(gate)
	<-first
}

func TestWebSocketPushesState(t *testing.T) {
	cg := newFakeContent()
	r, _ := newTestHandler(t, cg, config.PolicyRejectWhileLoading)

	server := httptest.NewServer(r)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/explore"
	header := http.Header{}
	header.Set("Cookie", SessionCookie+"="+testSession)
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}

	waitFor := func(topic string) stateMessage {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		for {
			var msg stateMessage
			if err := conn.ReadJSON(&msg); err != nil {
				t.Fatalf("read while waiting for %q: %v", topic, err)
			}
			if msg.Type == "state" && msg.Phase == explorer.PhaseReady && msg.State.Topic == topic {
				return msg
			}
		}
	}

	waitFor("Quantum Computing")

	if err := conn.WriteJSON(clientMessage{Type: "explore", Topic: "Rust"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg := waitFor("Rust")
	if msg.State.Content == nil || len(msg.State.Content.Facts) != 5 {
		t.Errorf("unexpected pushed content %+v", msg.State.Content)
	}
}

func TestImageSrc(t *testing.T) {
	if _, ok := imageSrc("data:image/png;base64,AA").(string); ok {
		t.Error("inline image data should be marked as a trusted URL")
	}
	if s, ok := imageSrc("https://picsum.photos/seed/Go/800/400").(string); !ok || s == "" {
		t.Error("remote URLs should pass through as plain strings")
	}
}
