package web

import (
	"net/http"

	"github.com/JonMunkholm/MailMerge/internal/web/templates"
)

// handleIndex renders the review page. ?session= reopens a live session.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tmpl, err := s.service.Template(ctx)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	state, err := s.sessionFromQuery(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.Page(state, tmpl).Render(ctx, w)
}

// handleHealth reports liveness and the number of open review sessions.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.service.SessionCount(),
	})
}
