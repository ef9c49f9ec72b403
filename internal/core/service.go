package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/JonMunkholm/MailMerge/internal/config"
	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoEmails is returned when an operation needs a current address but the session has none.
var ErrNoEmails = errors.New("no emails in session")

// Service provides the core business logic for the review flow.
// It owns the persisted store and the live review sessions.
type Service struct {
	store     Store
	templates *TemplateRepo
	sent      *SentTracker
	uploads   *UploadLimiter

	maxFileSize int64
	sessionTTL  time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService creates a new Service instance.
func NewService(store Store, cfg *config.Config) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}

	return &Service{
		store:       store,
		templates:   NewTemplateRepo(store),
		sent:        NewSentTracker(store),
		uploads:     NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWait),
		maxFileSize: cfg.Upload.MaxFileSize,
		sessionTTL:  cfg.Upload.SessionTTL,
		sessions:    make(map[string]*Session),
	}, nil
}

// SessionState is a snapshot of a session for display.
type SessionState struct {
	SessionID string   `json:"sessionId"`
	FileName  string   `json:"fileName"`
	Result    *Result  `json:"result"`
	Index     int      `json:"index"`
	Position  int      `json:"position"` // 1-based, 0 when empty
	Count     int      `json:"count"`
	Current   string   `json:"current,omitempty"`
	Name      string   `json:"name,omitempty"`
	IsSent    bool     `json:"isSent"`
	SentCount int      `json:"sentCount"` // Addresses in this session already sent
	Composed  Template `json:"composed"`
}

// Upload decodes the file, runs extraction and opens a review session for it.
// The returned session is registered under a fresh ID.
func (s *Service) Upload(ctx context.Context, fileName string, r io.Reader, opts Options) (*Session, error) {
	logger := slog.Default().With("file", fileName)

	if err := s.uploads.Acquire(ctx); err != nil {
		logger.Warn("upload rejected", "active", s.uploads.ActiveCount(), "error", err)
		return nil, err
	}
	defer s.uploads.Release()

	table, format, err := ReadTable(fileName, r, s.maxFileSize)
	if err != nil {
		logger.Warn("decode failed", "format", format, "error", err)
		return nil, err
	}

	result, err := Extract(table, opts)
	if err != nil {
		logger.Warn("extraction rejected", "error", err)
		return nil, err
	}

	sess := NewSession(uuid.New().String(), fileName, table, result)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	logger.Info("extraction complete",
		"session_id", sess.ID,
		"format", format,
		"rows", len(table.Rows),
		"detected_column", result.DetectedColumn,
		"emails", result.Stats.Valid,
		"invalid", result.Stats.Invalid,
		"duplicates", result.Stats.Duplicates,
		"empty", result.Stats.Empty,
	)

	return sess, nil
}

// DrainUploads waits for in-flight uploads to finish decoding.
func (s *Service) DrainUploads(ctx context.Context) error {
	return s.uploads.WaitForDrain(ctx)
}

// Session returns the live session with the given ID.
func (s *Service) Session(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// CloseSession discards a session. Unknown IDs are ignored.
func (s *Service) CloseSession(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// State builds a display snapshot of the session.
func (s *Service) State(ctx context.Context, id string) (*SessionState, error) {
	sess, err := s.Session(id)
	if err != nil {
		return nil, err
	}

	sent, err := s.sent.Set(ctx)
	if err != nil {
		return nil, err
	}

	tmpl, err := s.templates.Load(ctx)
	if err != nil {
		return nil, err
	}

	state := &SessionState{
		SessionID: sess.ID,
		FileName:  sess.FileName,
		Result:    sess.Result(),
		Index:     sess.Index(),
		Count:     sess.Len(),
	}
	for _, e := range sess.Result().Emails {
		if sent[e] {
			state.SentCount++
		}
	}

	if current, ok := sess.Current(); ok {
		state.Position, _ = sess.Position()
		state.Current = current
		state.Name = sess.NameFor(current)
		state.IsSent = sent[current]
		state.Composed, _ = sess.Compose(tmpl)
	}
	return state, nil
}

// Compose applies the saved template to the session's current address.
func (s *Service) Compose(ctx context.Context, id string) (Template, error) {
	sess, err := s.Session(id)
	if err != nil {
		return Template{}, err
	}
	tmpl, err := s.templates.Load(ctx)
	if err != nil {
		return Template{}, err
	}
	composed, ok := sess.Compose(tmpl)
	if !ok {
		return Template{}, ErrNoEmails
	}
	return composed, nil
}

// ToggleSent flips the sent status of the session's current address.
// It returns the new status.
func (s *Service) ToggleSent(ctx context.Context, id string) (bool, error) {
	sess, err := s.Session(id)
	if err != nil {
		return false, err
	}
	current, ok := sess.Current()
	if !ok {
		return false, ErrNoEmails
	}

	sent, err := s.sent.Set(ctx)
	if err != nil {
		return false, err
	}
	if sent[current] {
		return false, s.sent.Unmark(ctx, current)
	}
	return true, s.sent.Mark(ctx, current)
}

// NextUnsent moves the session to the next address that has not been sent.
func (s *Service) NextUnsent(ctx context.Context, id string) (bool, error) {
	sess, err := s.Session(id)
	if err != nil {
		return false, err
	}
	sent, err := s.sent.Set(ctx)
	if err != nil {
		return false, err
	}
	return sess.NextUnsent(sent), nil
}

// Template returns the saved template.
func (s *Service) Template(ctx context.Context) (Template, error) {
	return s.templates.Load(ctx)
}

// SaveTemplate replaces the saved template.
func (s *Service) SaveTemplate(ctx context.Context, t Template) error {
	return s.templates.Save(ctx, t)
}

// SentEmails returns every address marked as sent, across sessions.
func (s *Service) SentEmails(ctx context.Context) ([]string, error) {
	return s.sent.Load(ctx)
}

// ResetSent clears the sent status of every address.
func (s *Service) ResetSent(ctx context.Context) error {
	return s.sent.Reset(ctx)
}
