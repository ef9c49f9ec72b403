package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/MailMerge/internal/core"
	"github.com/JonMunkholm/MailMerge/internal/logging"
	"github.com/JonMunkholm/MailMerge/internal/web/templates"
)

// maxTemplateBody bounds PUT /api/template request bodies.
const maxTemplateBody = 64 << 10

// handleGetTemplate returns the saved template, or the default when none was saved.
func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := s.service.Template(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

// handleSaveTemplate replaces the saved template from a JSON or form body.
func (s *Server) handleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxTemplateBody)

	var tmpl core.Template
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&tmpl); err != nil {
			err = fmt.Errorf("%w: %v", core.ErrInvalidTemplate, err)
			respondError(w, r, err, http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			err = fmt.Errorf("%w: %v", core.ErrInvalidTemplate, err)
			respondError(w, r, err, http.StatusBadRequest)
			return
		}
		tmpl = core.Template{Subject: r.PostFormValue("subject"), Body: r.PostFormValue("body")}
	}

	if err := s.service.SaveTemplate(r.Context(), tmpl); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	logging.FromContext(r.Context()).Info("template saved", "subject_len", len(tmpl.Subject), "body_len", len(tmpl.Body))

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.Notice("Saved").Render(r.Context(), w)
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

// handleListSent returns every address marked sent, across sessions.
func (s *Server) handleListSent(w http.ResponseWriter, r *http.Request) {
	emails, err := s.service.SentEmails(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"emails": emails, "count": len(emails)})
}

// handleResetSent clears every sent mark.
func (s *Server) handleResetSent(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ResetSent(r.Context()); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	logging.FromContext(r.Context()).Info("sent status reset")
	w.WriteHeader(http.StatusNoContent)
}
