package core

// scheduler.go runs the background sweep that expires idle review sessions.
//
// Sessions live only in memory; the sweeper bounds that memory by dropping any
// session unused for longer than the configured TTL. It stops when its context
// is cancelled.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is used when the caller passes a non-positive interval.
const DefaultSweepInterval = 10 * time.Minute

// StartSessionSweeper blocks, expiring idle sessions every interval until ctx is done.
func (s *Service) StartSessionSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	slog.Info("session sweeper started",
		"interval", interval,
		"ttl", s.sessionTTL,
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case now := <-ticker.C:
			if n := s.sweepSessions(now); n > 0 {
				slog.Info("expired idle sessions", "count", n, "remaining", s.SessionCount())
			}
		}
	}
}

// sweepSessions removes sessions idle since before now minus the TTL.
// A zero TTL disables expiry.
func (s *Service) sweepSessions(now time.Time) int {
	if s.sessionTTL <= 0 {
		return 0
	}

	cutoff := now.Add(-s.sessionTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.IdleSince().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
