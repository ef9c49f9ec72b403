package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// SentKey is the store key holding the JSON array of handled addresses.
const SentKey = "sentEmails"

// SentTracker records which addresses have been handled.
// Addresses are stored normalized, in the order they were first marked.
// The tracker serializes its read-modify-write cycles against the store.
type SentTracker struct {
	mu    sync.Mutex
	store Store
}

// NewSentTracker creates a tracker backed by store.
func NewSentTracker(store Store) *SentTracker {
	return &SentTracker{store: store}
}

// Load returns the handled addresses in the order they were marked.
func (t *SentTracker) Load(ctx context.Context) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load(ctx)
}

// Set returns the handled addresses as a lookup set.
func (t *SentTracker) Set(ctx context.Context) (map[string]bool, error) {
	list, err := t.Load(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(list))
	for _, e := range list {
		set[e] = true
	}
	return set, nil
}

// Mark records email as handled. Marking an address twice is a no-op.
func (t *SentTracker) Mark(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	t.mu.Lock()
	defer t.mu.Unlock()

	list, err := t.load(ctx)
	if err != nil {
		return err
	}
	for _, e := range list {
		if e == email {
			return nil
		}
	}
	return t.save(ctx, append(list, email))
}

// Unmark removes email from the handled set.
func (t *SentTracker) Unmark(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	t.mu.Lock()
	defer t.mu.Unlock()

	list, err := t.load(ctx)
	if err != nil {
		return err
	}
	kept := list[:0]
	for _, e := range list {
		if e != email {
			kept = append(kept, e)
		}
	}
	return t.save(ctx, kept)
}

// Reset forgets every handled address.
func (t *SentTracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.save(ctx, []string{})
}

func (t *SentTracker) load(ctx context.Context) ([]string, error) {
	raw, ok, err := t.store.Get(ctx, SentKey)
	if err != nil {
		return nil, fmt.Errorf("load sent emails: %w", err)
	}
	if !ok || raw == "" {
		return []string{}, nil
	}

	list := []string{}
	if err := json.Unmarshal([]byte(raw), &list); err != nil || list == nil {
		// A corrupt entry is treated as an empty set rather than blocking the review flow.
		return []string{}, nil
	}
	return list, nil
}

func (t *SentTracker) save(ctx context.Context, list []string) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal sent emails: %w", err)
	}
	if err := t.store.Set(ctx, SentKey, string(raw)); err != nil {
		return fmt.Errorf("save sent emails: %w", err)
	}
	return nil
}
