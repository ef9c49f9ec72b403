package core

import (
	"strings"
	"sync"
	"time"
)

// Session is the review state for one uploaded file: the extraction result,
// a cursor over its addresses and the contact names found alongside them.
// A new upload creates a new Session; sessions never merge.
type Session struct {
	ID        string
	FileName  string
	CreatedAt time.Time

	result *Result
	names  map[string]string

	mu       sync.Mutex
	index    int
	lastSeen time.Time
}

// NewSession wraps an extraction result for review.
// The table is only read to build the email -> contact name lookup.
func NewSession(id, fileName string, t *Table, r *Result) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		FileName:  fileName,
		CreatedAt: now,
		result:    r,
		names:     contactNames(t, r),
		lastSeen:  now,
	}
}

// Result returns the extraction result the session was created from.
func (s *Session) Result() *Result {
	return s.result
}

// Len returns the number of addresses under review.
func (s *Session) Len() int {
	return len(s.result.Emails)
}

// Index returns the zero-based cursor position.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Position returns the 1-based cursor position and the address count.
// Both are zero when the session holds no addresses.
func (s *Session) Position() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.result.Emails)
	if n == 0 {
		return 0, 0
	}
	return s.index + 1, n
}

// Current returns the address under the cursor.
// It returns false when the session holds no addresses.
func (s *Session) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if len(s.result.Emails) == 0 {
		return "", false
	}
	return s.result.Emails[s.index], true
}

// Next advances the cursor. It returns false at the last address.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.index+1 >= len(s.result.Emails) {
		return false
	}
	s.index++
	return true
}

// Prev moves the cursor back. It returns false at the first address.
func (s *Session) Prev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.index == 0 {
		return false
	}
	s.index--
	return true
}

// Goto moves the cursor to i, clamped to the valid range, and returns the new index.
func (s *Session) Goto(i int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	n := len(s.result.Emails)
	switch {
	case n == 0 || i < 0:
		i = 0
	case i >= n:
		i = n - 1
	}
	s.index = i
	return i
}

// NextUnsent moves the cursor forward to the next address not in sent,
// wrapping around once. It returns false if every address has been sent.
func (s *Session) NextUnsent(sent map[string]bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	n := len(s.result.Emails)
	for step := 1; step <= n; step++ {
		i := (s.index + step) % n
		if !sent[s.result.Emails[i]] {
			s.index = i
			return true
		}
	}
	return false
}

// NameFor returns the contact name found next to email, or "" if none.
func (s *Session) NameFor(email string) string {
	return s.names[NormalizeEmail(email)]
}

// Compose applies t to the address under the cursor.
// It returns false when the session holds no addresses.
func (s *Session) Compose(t Template) (Template, bool) {
	email, ok := s.Current()
	if !ok {
		return Template{}, false
	}
	name := s.NameFor(email)
	return ApplyTemplate(t, Values{Email: &email, Name: &name}), true
}

// IdleSince reports when the session was last used.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// touch must be called with s.mu held.
func (s *Session) touch() {
	s.lastSeen = time.Now()
}

// contactNames maps each extracted address to the name in the same row.
// Only rows of the detected column are considered; the first row for an address wins.
func contactNames(t *Table, r *Result) map[string]string {
	names := make(map[string]string)
	if t == nil || r == nil || !r.HasColumn {
		return names
	}

	nameCol, ok := detectNameColumn(t.Headers, r.DetectedColumn)
	if !ok {
		return names
	}

	for _, row := range t.Rows {
		email := NormalizeEmail(row[r.DetectedColumn])
		if email == "" {
			continue
		}
		if _, exists := names[email]; exists {
			continue
		}
		if name := strings.TrimSpace(row[nameCol]); name != "" {
			names[email] = name
		}
	}
	return names
}
