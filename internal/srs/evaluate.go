package srs

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// IsCorrectFreeResponse reports whether a typed answer matches any of the
// accepted answers after trimming, lowercasing and collapsing whitespace.
func IsCorrectFreeResponse(input string, answers []string) bool {
	normalized := normalizeAnswer(input)
	for _, answer := range answers {
		if normalized == normalizeAnswer(answer) {
			return true
		}
	}
	return false
}

func normalizeAnswer(value string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(value)), " ")
}
