package web

// Shared request parsing and response helpers for the review handlers.

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/MailMerge/internal/core"
	"github.com/JonMunkholm/MailMerge/internal/web/templates"
)

// parseBoolField reads a boolean form value, falling back to def when absent or malformed.
func parseBoolField(r *http.Request, name string, def bool) bool {
	v := r.FormValue(name)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// parseIntParam parses an integer form or query value, returning ok=false when absent or malformed.
func parseIntParam(r *http.Request, name string) (int, bool) {
	v := r.FormValue(name)
	if v == "" {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

// sessionFromQuery loads the state of ?session=, or nil when the parameter is absent.
func (s *Server) sessionFromQuery(r *http.Request) (*core.SessionState, error) {
	id := r.URL.Query().Get("session")
	if id == "" {
		return nil, nil
	}
	return s.service.State(r.Context(), id)
}

// respondState writes the session snapshot: the review card for HTMX, JSON otherwise.
func (s *Server) respondState(w http.ResponseWriter, r *http.Request, id string, status int) {
	state, err := s.service.State(r.Context(), id)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		templates.ReviewCard(state).Render(r.Context(), w)
		return
	}
	writeJSON(w, status, state)
}

func sessionID(r *http.Request) string {
	return chi.URLParam(r, "sessionID")
}
