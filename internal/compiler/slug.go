package compiler

import "strings"

// Slugify lowercases the input and collapses every run of non-alphanumeric
// characters into a single dash, trimming leading/trailing dashes. Used for
// derived concept ids and authored course ids.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// itemSlug flattens a concept id for use inside a synthesized item id.
// Unlike Slugify it keeps boundary dashes so "concept.go" becomes
// "concept-go" and counters stay stable across recompiles.
func itemSlug(conceptID string) string {
	var b strings.Builder
	inRun := false
	for _, r := range strings.ToLower(conceptID) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			inRun = false
		} else if !inRun {
			b.WriteByte('-')
			inRun = true
		}
	}
	return b.String()
}
