package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"pocket_study/internal/model"
)

var clozePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// ClozeResult is the expansion of a {{blank}}-annotated template: tokens
// alternate literal text and blank markers in document order, answers list
// the trimmed blank contents in appearance order.
type ClozeResult struct {
	Tokens  []model.ClozeToken
	Answers []string
}

// ExpandClozeTemplate parses a cloze template. It fails on an
// empty/whitespace-only template, on a blank that is empty after trimming,
// and on a template with zero blanks.
func ExpandClozeTemplate(template string) (*ClozeResult, error) {
	if strings.TrimSpace(template) == "" {
		return nil, fmt.Errorf("cloze template must be a non-empty string")
	}

	var tokens []model.ClozeToken
	var answers []string
	last := 0

	for _, loc := range clozePattern.FindAllStringSubmatchIndex(template, -1) {
		start, end := loc[0], loc[1]
		if start > last {
			tokens = append(tokens, model.ClozeToken{Type: model.TokenText, Value: template[last:start]})
		}

		answer := strings.TrimSpace(template[loc[2]:loc[3]])
		if answer == "" {
			return nil, fmt.Errorf("cloze template contains an empty blank")
		}

		tokens = append(tokens, model.ClozeToken{Type: model.TokenBlank, Value: answer})
		answers = append(answers, answer)
		last = end
	}

	if len(answers) == 0 {
		return nil, fmt.Errorf("cloze template must contain at least one {{blank}}")
	}

	if last < len(template) {
		tokens = append(tokens, model.ClozeToken{Type: model.TokenText, Value: template[last:]})
	}

	return &ClozeResult{Tokens: tokens, Answers: answers}, nil
}

// ValidateClozeItem enforces the blank-count invariant on an already
// expanded cloze item.
func ValidateClozeItem(id string, cloze *model.ClozeItem) error {
	blanks := cloze.Blanks()
	if blanks != len(cloze.Answer) {
		return fmt.Errorf("cloze item %s has %d blanks but %d answers", id, blanks, len(cloze.Answer))
	}
	return nil
}
