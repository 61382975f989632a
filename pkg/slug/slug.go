// Package slug normalizes externally supplied identifiers into safe store
// keys. Every slug that reaches the repository or a filesystem path must pass
// through Sanitize first; it is the only defense against path traversal and
// key collisions.
package slug

import (
	"errors"
	"strings"
)

var ErrInvalidSlug = errors.New("invalid slug")

const maxLen = 100

// Sanitize lowercases the input, rewrites every character outside [a-z0-9-]
// to '-', collapses runs of '-' and trims leading/trailing '-'. The result
// must be 1..100 characters, otherwise ErrInvalidSlug. Sanitize is pure and
// idempotent: Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(raw string) (string, error) {
	var b strings.Builder
	b.Grow(len(raw))

	lastDash := false
	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}

	clean := strings.Trim(b.String(), "-")
	if len(clean) < 1 || len(clean) > maxLen {
		return "", ErrInvalidSlug
	}
	return clean, nil
}
