package core

// extract.go turns a decoded table into a deduplicated, validated address list.
//
// Extraction has two sources of raw values:
//
//   - Detected column: every non-empty trimmed cell of that column, in row order.
//     Empty or absent cells are counted in Stats.Empty and skipped.
//   - Fallback scan (no column detected): every cell of every row, including
//     cells past the header row, keeping only valid emails, deduplicated
//     case-insensitively.
//
// Both sources then go through the same single filtering pass. Because the
// fallback list is already validated and deduplicated, a fallback run never
// reports invalid or duplicate counts for the other cells in the table.

import (
	"errors"
	"slices"
	"strings"
)

// ErrEmptyFile is returned when the table has no data rows at all.
// A table with rows but no addresses is a normal, empty Result.
var ErrEmptyFile = errors.New("empty file: no rows to scan")

// Extract runs column detection and builds the address list with its statistics.
// It is pure: the same table and options always produce an identical Result.
func Extract(t *Table, opts Options) (*Result, error) {
	if t == nil || len(t.Rows) == 0 {
		return nil, ErrEmptyFile
	}

	result := &Result{}

	var raw []string
	if col, ok := DetectEmailColumn(t.Headers, t.Rows); ok {
		result.DetectedColumn = col
		result.HasColumn = true
		raw, result.Stats.Empty = columnValues(t.Rows, col)
	} else {
		raw = scanAllCells(t)
	}

	result.Stats.Total = len(raw)
	result.Emails = make([]string, 0, len(raw))

	seen := make(map[string]struct{}, len(raw))
	for _, value := range raw {
		value = strings.TrimSpace(value)
		if value == "" {
			result.Stats.Empty++
			continue
		}

		if !IsValidEmail(value) {
			result.Stats.Invalid++
			if opts.RemoveInvalid {
				continue
			}
		}

		normalized := NormalizeEmail(value)
		if _, dup := seen[normalized]; dup && opts.RemoveDuplicates {
			result.Stats.Duplicates++
			continue
		}

		seen[normalized] = struct{}{}
		result.Emails = append(result.Emails, normalized)
	}

	result.Stats.Valid = len(result.Emails)
	return result, nil
}

// columnValues gathers the trimmed non-empty cells of one column in row order.
// It also returns how many cells were empty or absent.
func columnValues(rows []Row, col string) ([]string, int) {
	values := make([]string, 0, len(rows))
	empty := 0
	for _, row := range rows {
		v := strings.TrimSpace(row[col])
		if v == "" {
			empty++
			continue
		}
		values = append(values, v)
	}
	return values, empty
}

// scanAllCells collects every valid email in the table, first occurrence wins.
// Each row is read in header order, then any cells without a header in key
// order. Non-email cells are skipped silently and never counted.
func scanAllCells(t *Table) []string {
	var found []string
	seen := make(map[string]struct{})
	for _, row := range t.Rows {
		for _, key := range cellOrder(t.Headers, row) {
			v := strings.TrimSpace(row[key])
			if !IsValidEmail(v) {
				continue
			}
			norm := NormalizeEmail(v)
			if _, ok := seen[norm]; ok {
				continue
			}
			seen[norm] = struct{}{}
			found = append(found, v)
		}
	}
	return found
}

// cellOrder lists the headers followed by the row's remaining keys.
func cellOrder(headers []string, row Row) []string {
	known := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		known[h] = struct{}{}
	}
	var extra []string
	for k := range row {
		if _, ok := known[k]; !ok {
			extra = append(extra, k)
		}
	}
	if len(extra) == 0 {
		return headers
	}
	// Shorter keys first so "#9" precedes "#10"
	slices.SortFunc(extra, func(a, b string) int {
		if len(a) != len(b) {
			return len(a) - len(b)
		}
		return strings.Compare(a, b)
	})
	return append(slices.Clone(headers), extra...)
}
