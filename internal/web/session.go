package web

import (
	"net/http"

	"github.com/google/uuid"
)

// SessionCookie names the cookie that keys a visitor's shell.
const SessionCookie = "omnidive_session"

// sessionID returns the visitor's session id, issuing a new cookie when the
// request carries none or an invalid one.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if id := SessionFromRequest(r); id != "" {
		return id
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// SessionFromRequest returns the session id carried by the request's cookie,
// or "" when there is none or it is not a valid id.
func SessionFromRequest(r *http.Request) string {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return ""
	}
	return id.String()
}
