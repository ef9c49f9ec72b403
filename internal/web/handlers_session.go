package web

import (
	"net/http"

	"github.com/JonMunkholm/MailMerge/internal/logging"
)

// handleSessionState returns the current review snapshot.
func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	s.respondState(w, r, sessionID(r), http.StatusOK)
}

// handleCloseSession discards a session before it expires.
func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	s.service.CloseSession(sessionID(r))
	w.WriteHeader(http.StatusNoContent)
}

// handleNext moves to the next address. Staying put at the end is not an error.
func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	sess, err := s.service.Session(id)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	sess.Next()
	s.respondState(w, r, id, http.StatusOK)
}

// handlePrev moves to the previous address.
func (s *Server) handlePrev(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	sess, err := s.service.Session(id)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	sess.Prev()
	s.respondState(w, r, id, http.StatusOK)
}

// handleGoto jumps to the zero-based ?index=, clamped to the session.
func (s *Server) handleGoto(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	sess, err := s.service.Session(id)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	index, ok := parseIntParam(r, "index")
	if !ok {
		respondError(w, r, errBadIndex, http.StatusBadRequest)
		return
	}
	sess.Goto(index)
	s.respondState(w, r, id, http.StatusOK)
}

// handleNextUnsent jumps forward to the next address not yet marked sent.
func (s *Server) handleNextUnsent(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if _, err := s.service.NextUnsent(r.Context(), id); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	s.respondState(w, r, id, http.StatusOK)
}

// handleToggleSent flips the sent mark on the current address.
func (s *Server) handleToggleSent(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	sent, err := s.service.ToggleSent(r.Context(), id)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	logging.WithFields(r.Context(), "session_id", id).Info("sent status changed", "sent", sent)
	s.respondState(w, r, id, http.StatusOK)
}

// handleCompose returns the saved template applied to the current address.
func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	msg, err := s.service.Compose(r.Context(), sessionID(r))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, msg)
}
