package core

import (
	"regexp"
	"strings"
)

// emailRegex is a purely syntactic check: local@domain with a dot in the domain,
// no whitespace or extra '@' anywhere. \s is ASCII only, so Unicode separators
// (NBSP, em space, line/paragraph separators) and NEL are excluded explicitly.
var emailRegex = regexp.MustCompile(`^[^\s\p{Z}\x{85}@]+@[^\s\p{Z}\x{85}@]+\.[^\s\p{Z}\x{85}@]+$`)

// IsValidEmail reports whether s, after trimming, has the shape of an email address.
// No DNS or MX checks are performed.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return emailRegex.MatchString(s)
}

// NormalizeEmail lowercases and trims an address. Uniqueness is defined on this form.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
