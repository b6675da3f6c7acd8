package web

import (
	"encoding/json"
	"net/http"

	"github.com/omnidive/omnidive/internal/explorer"
)

// stateMessage is the JSON shape of a shell's state, used by both the REST
// API and websocket pushes.
type stateMessage struct {
	Type    string            `json:"type"`
	Phase   explorer.Phase    `json:"phase"`
	Inert   bool              `json:"inert"`
	State   explorer.Snapshot `json:"state"`
	Outcome explorer.Outcome  `json:"outcome,omitempty"`
}

type exploreRequest struct {
	Topic string `json:"topic"`
}

func (h *Handler) stateMessage(snap explorer.Snapshot) stateMessage {
	return stateMessage{Type: "state", Phase: snap.Phase(), Inert: h.inert(snap), State: snap}
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	shell := h.registry.Get(sessionID(w, r))
	writeJSON(w, http.StatusOK, h.stateMessage(shell.Snapshot()))
}

// handleExplore runs a search and answers once it has joined. A busy shell
// answers 409.
func (h *Handler) handleExplore(w http.ResponseWriter, r *http.Request) {
	shell := h.registry.Get(sessionID(w, r))

	var req exploreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	res := shell.Submit(r.Context(), req.Topic)

	msg := h.stateMessage(shell.Snapshot())
	msg.Outcome = res.Outcome
	status := http.StatusOK
	if res.Outcome == explorer.OutcomeBusy {
		status = http.StatusConflict
	}
	writeJSON(w, status, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
