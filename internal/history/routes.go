package history

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// SessionFunc returns the caller's session id, or "" if it has none.
type SessionFunc func(r *http.Request) string

// RegisterRoutes mounts GET /api/history on the given router. Callers only
// see their own searches; a request without a session gets an empty list.
func RegisterRoutes(r chi.Router, store *Store, session SessionFunc) {
	r.Get("/api/history", handleRecent(store, session))
}

func handleRecent(store *Store, session SessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		id := session(r)
		if id == "" {
			writeJSON(w, http.StatusOK, []Entry{})
			return
		}

		limit := DefaultLimit
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}

		entries, err := store.Recent(r.Context(), id, limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, entries)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
