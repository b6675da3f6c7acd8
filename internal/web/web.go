// Package web serves the explorer page, its JSON API and the live state
// websocket. Each visitor gets their own shell, keyed by a session cookie.
package web

import (
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/omnidive/omnidive/internal/config"
	"github.com/omnidive/omnidive/internal/dashboard"
	"github.com/omnidive/omnidive/internal/explorer"
	"github.com/omnidive/omnidive/internal/logging"
)

//go:embed index.html
var indexHTML string

var pageTmpl = template.Must(template.New("index").Parse(indexHTML))

// Options configures a Handler.
type Options struct {
	Registry  *explorer.Registry
	Dashboard *dashboard.Dashboard // optional
	Policy    config.OverlapPolicy
	Logger    *zap.Logger
	// Spawn runs a search off the request goroutine. Defaults to a new
	// goroutine per search.
	Spawn func(func())
}

// Handler serves the explorer UI.
type Handler struct {
	registry *explorer.Registry
	dash     *dashboard.Dashboard
	policy   config.OverlapPolicy
	logger   *zap.Logger
	spawn    func(func())
	md       *markdown
}

// New creates a Handler.
func New(opts Options) *Handler {
	if opts.Policy == "" {
		opts.Policy = config.PolicyRejectWhileLoading
	}
	if opts.Spawn == nil {
		opts.Spawn = func(fn func()) { go fn() }
	}
	return &Handler{
		registry: opts.Registry,
		dash:     opts.Dashboard,
		policy:   opts.Policy,
		logger:   logging.OrNop(opts.Logger).Named("web"),
		spawn:    opts.Spawn,
		md:       newMarkdown(),
	}
}

// RegisterRoutes mounts the page, API and websocket routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handlePage)
	r.Get("/fragment", h.handleFragment)
	r.Post("/explore", h.handleFormSubmit)
	r.Get("/api/state", h.handleState)
	r.Post("/api/explore", h.handleExplore)
	r.Get("/ws/explore", h.handleWebSocket)
}

// mount starts the initial default-topic load the first time a session is
// seen. The load outlives the request that triggered it.
func (h *Handler) mount(ctx context.Context, shell *explorer.Shell) {
	if shell.Mounted() {
		return
	}
	bg := context.WithoutCancel(ctx)
	h.spawn(func() { shell.Mount(bg) })
}

func (h *Handler) submit(ctx context.Context, shell *explorer.Shell, topic string) {
	bg := context.WithoutCancel(ctx)
	h.spawn(func() { shell.Submit(bg, topic) })
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	shell := h.registry.Get(sessionID(w, r))
	h.mount(r.Context(), shell)
	h.render(w, r, "page", shell.Snapshot())
}

func (h *Handler) handleFragment(w http.ResponseWriter, r *http.Request) {
	shell := h.registry.Get(sessionID(w, r))
	h.render(w, r, "main", shell.Snapshot())
}

// handleFormSubmit is the no-script path: start the search and redirect
// back to the page, which shows the loading state.
func (h *Handler) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	shell := h.registry.Get(sessionID(w, r))
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	h.submit(r.Context(), shell, r.PostFormValue("topic"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, snap explorer.Snapshot) {
	v, err := h.view(r.Context(), snap)
	if err != nil {
		h.logger.Error("building page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.ExecuteTemplate(w, name, v); err != nil {
		h.logger.Error("rendering page", zap.String("template", name), zap.Error(err))
	}
}

// inert reports whether the submit control is disabled for snap.
func (h *Handler) inert(snap explorer.Snapshot) bool {
	return snap.Loading && h.policy == config.PolicyRejectWhileLoading
}

func (h *Handler) stats(ctx context.Context) dashboard.HostingStats {
	if h.dash == nil {
		return dashboard.HostingStats{MemoryUsage: dashboard.NotAvailable, Status: dashboard.StatusHealthy}
	}
	return h.dash.Stats(ctx)
}

func errorf(format string, args ...any) error {
	return fmt.Errorf("web: "+format, args...)
}
