// Package admin provides administrative operations on the persisted store.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/MailMerge/internal/core"
)

// ResetTimeout is the maximum duration for reset operations.
const ResetTimeout = 30 * time.Second

// Resetter clears persisted review state.
type Resetter struct {
	Store core.Store
}

type resetFn func(ctx context.Context) error

// reset pairs a store key with the function that clears it.
type reset struct {
	key string
	fn  resetFn
}

// ResetSent forgets which addresses have been handled.
func (r *Resetter) ResetSent(ctx context.Context) error {
	return r.run(ctx, []reset{
		{core.SentKey, core.NewSentTracker(r.Store).Reset},
	})
}

// ResetTemplate restores the default template.
func (r *Resetter) ResetTemplate(ctx context.Context) error {
	return r.run(ctx, []reset{
		{core.TemplateKey, r.resetTemplate},
	})
}

// ResetAll clears sent status, then restores the default template.
// This is a destructive operation - use with caution.
func (r *Resetter) ResetAll(ctx context.Context) error {
	return r.run(ctx, []reset{
		{core.SentKey, core.NewSentTracker(r.Store).Reset},
		{core.TemplateKey, r.resetTemplate},
	})
}

func (r *Resetter) resetTemplate(ctx context.Context) error {
	return core.NewTemplateRepo(r.Store).Save(ctx, core.DefaultTemplate)
}

// run applies resets in order and stops at the first failure.
func (r *Resetter) run(ctx context.Context, resets []reset) error {
	ctx, cancel := context.WithTimeout(ctx, ResetTimeout)
	defer cancel()

	for _, rs := range resets {
		if err := rs.fn(ctx); err != nil {
			return fmt.Errorf("reset %s: %w", rs.key, err)
		}
		slog.Info("store key reset", "key", rs.key)
	}
	return nil
}
