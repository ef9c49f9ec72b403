// Package core provides the business logic for the mail merge review flow.
// This package has no UI dependencies and can be used by any frontend.
package core

import (
	"context"
	"encoding/json"
)

// Row is one record from the source table, keyed by column name.
// A missing key means the cell was absent in the source file.
type Row map[string]string

// Table is a decoded spreadsheet: ordered unique headers plus rows in file order.
type Table struct {
	Headers []string
	Rows    []Row
}

// Options controls how raw values are filtered during extraction.
type Options struct {
	RemoveDuplicates bool // Collapse case-insensitive repeats
	RemoveInvalid    bool // Drop values that fail IsValidEmail
}

// DefaultOptions returns the options used when the caller does not override them.
func DefaultOptions() Options {
	return Options{
		RemoveDuplicates: true,
		RemoveInvalid:    true,
	}
}

// Stats accounts for every raw value examined during extraction.
type Stats struct {
	Total      int `json:"total"`
	Valid      int `json:"valid"`
	Invalid    int `json:"invalid"`
	Duplicates int `json:"duplicates"`
	Empty      int `json:"empty"`
}

// Result is the outcome of a single extraction run.
// It is created fresh per upload and never mutated afterwards.
type Result struct {
	Emails         []string
	DetectedColumn string // Empty when HasColumn is false
	HasColumn      bool   // False means the fallback scan produced Emails
	Stats          Stats
}

// MarshalJSON renders DetectedColumn as null when no column was detected.
func (r Result) MarshalJSON() ([]byte, error) {
	var col *string
	if r.HasColumn {
		col = &r.DetectedColumn
	}
	emails := r.Emails
	if emails == nil {
		emails = []string{}
	}
	return json.Marshal(struct {
		Emails         []string `json:"emails"`
		DetectedColumn *string  `json:"detectedColumn"`
		Stats          Stats    `json:"stats"`
	}{emails, col, r.Stats})
}

// UnmarshalJSON is the inverse of MarshalJSON; a null detectedColumn clears HasColumn.
func (r *Result) UnmarshalJSON(data []byte) error {
	var wire struct {
		Emails         []string `json:"emails"`
		DetectedColumn *string  `json:"detectedColumn"`
		Stats          Stats    `json:"stats"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*r = Result{Emails: wire.Emails, Stats: wire.Stats}
	if wire.DetectedColumn != nil {
		r.DetectedColumn = *wire.DetectedColumn
		r.HasColumn = true
	}
	return nil
}

// Template is a reusable subject/body pair containing {{email}} and {{name}} tokens.
type Template struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Values supplies placeholder substitutions. A nil field means "not provided".
type Values struct {
	Email *string
	Name  *string
}

// Store is the persisted key-value collaborator for templates and sent status.
// Satisfied by the memory, SQLite and PostgreSQL stores.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}
