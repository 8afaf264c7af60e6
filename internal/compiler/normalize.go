package compiler

import (
	"fmt"

	"pocket_study/internal/model"
)

// NormalizeCourse runs every cloze item through the single expansion path,
// regardless of whether the course came from the DSL compiler or from a
// network-delivered JSON document. Items carrying a raw template are
// expanded; items carrying explicit tokens/answer are checked against the
// blank-count invariant. Other variants pass through untouched.
func NormalizeCourse(course *model.Course) (*model.Course, error) {
	normalized := *course
	normalized.Items = make([]model.CourseItem, len(course.Items))

	for idx, item := range course.Items {
		if item.Type != model.ItemTypeCloze {
			normalized.Items[idx] = item
			continue
		}

		if item.Cloze == nil {
			return nil, fmt.Errorf("cloze item %s has no content", item.ID)
		}

		if item.Cloze.Template != "" {
			result, err := ExpandClozeTemplate(item.Cloze.Template)
			if err != nil {
				return nil, fmt.Errorf("cloze item %s: %w", item.ID, err)
			}
			item.Cloze = &model.ClozeItem{Tokens: result.Tokens, Answer: result.Answers}
		} else {
			if len(item.Cloze.Tokens) == 0 || item.Cloze.Answer == nil {
				return nil, fmt.Errorf("cloze item %s must include tokens/answer or a template", item.ID)
			}
			if err := ValidateClozeItem(item.ID, item.Cloze); err != nil {
				return nil, err
			}
			cloze := *item.Cloze
			cloze.Template = ""
			item.Cloze = &cloze
		}

		normalized.Items[idx] = item
	}

	return &normalized, nil
}
