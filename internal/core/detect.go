package core

// detect.go picks the column most likely to hold email addresses.
//
// Detection runs three tiers in strict priority order, first match wins:
//  1. The exact header used by Google Contacts exports ("E-mail 1 - Value")
//  2. The first header containing both "e-mail" and "value" (case-insensitive)
//  3. The header with the most valid-email cells; ties keep the earlier header
//
// A column whose best score is zero is never selected, so the caller falls
// back to scanning every cell.

import "strings"

// GoogleContactsEmailHeader is the email column name in Google Contacts CSV exports.
const GoogleContactsEmailHeader = "E-mail 1 - Value"

// DetectEmailColumn returns the header believed to hold email addresses.
// The second return value is false when no header qualifies.
func DetectEmailColumn(headers []string, rows []Row) (string, bool) {
	for _, h := range headers {
		if h == GoogleContactsEmailHeader {
			return h, true
		}
	}

	for _, h := range headers {
		lower := strings.ToLower(h)
		if strings.Contains(lower, "e-mail") && strings.Contains(lower, "value") {
			return h, true
		}
	}

	best, bestScore := -1, 0
	for i, h := range headers {
		score := 0
		for _, row := range rows {
			if IsValidEmail(row[h]) {
				score++
			}
		}
		// Strictly greater keeps the first-seen header on ties.
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 {
		return "", false
	}
	return headers[best], true
}

// detectNameColumn returns the header that most likely holds a contact's display name.
// Exact well-known names win over partial matches; header order breaks ties.
func detectNameColumn(headers []string, exclude string) (string, bool) {
	for _, want := range []string{"name", "full name", "display name"} {
		for _, h := range headers {
			if h != exclude && strings.EqualFold(strings.TrimSpace(h), want) {
				return h, true
			}
		}
	}
	for _, h := range headers {
		if h != exclude && strings.Contains(strings.ToLower(h), "name") {
			return h, true
		}
	}
	return "", false
}
