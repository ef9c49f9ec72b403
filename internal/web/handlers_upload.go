package web

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/MailMerge/internal/core"
	"github.com/JonMunkholm/MailMerge/internal/logging"
)

// multipartOverhead covers boundaries and form fields around the file part.
const multipartOverhead = 1 << 20

// handleUpload extracts addresses from an uploaded contacts file and opens a review session.
//
// Form fields: file (required), removeDuplicates, removeInvalid (default true).
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, core.ErrFileTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		respondError(w, r, errNoFile, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, errNoFile, http.StatusBadRequest)
		return
	}
	defer file.Close()

	opts := core.Options{
		RemoveDuplicates: parseBoolField(r, "removeDuplicates", true),
		RemoveInvalid:    parseBoolField(r, "removeInvalid", true),
	}

	sess, err := s.service.Upload(r.Context(), header.Filename, file, opts)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	logging.WithFields(r.Context(), "session_id", sess.ID).Info("upload accepted",
		"file", header.Filename,
		"size", header.Size,
		"remove_duplicates", opts.RemoveDuplicates,
		"remove_invalid", opts.RemoveInvalid,
	)

	s.respondState(w, r, sess.ID, http.StatusCreated)
}
