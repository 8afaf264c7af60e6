package compiler

import (
	"fmt"

	"pocket_study/internal/model"
)

// answerPool accumulates distinct answer-like strings in first-seen order.
// Iteration order matters: candidate ranking walks pools in insertion order.
type answerPool struct {
	seen   map[string]bool
	values []string
}

func newAnswerPool() *answerPool {
	return &answerPool{seen: make(map[string]bool)}
}

func (p *answerPool) add(value string) {
	if value == "" || p.seen[value] {
		return
	}
	p.seen[value] = true
	p.values = append(p.values, value)
}

// AugmentDistractors returns a copy of the course where every MCQ item has
// at least four choices, synthesizing plausible wrong answers when authored
// content supplies fewer. Candidates are ranked: tag-correlated pool
// entries, then the general pool, then concept display names, then
// "Option N" placeholders. Duplicate choice texts are never introduced.
func AugmentDistractors(course *model.Course) *model.Course {
	conceptTags := make(map[string][]string, len(course.Concepts))
	var conceptNames []string
	for _, concept := range course.Concepts {
		conceptTags[concept.ID] = concept.Tags
		if concept.Name != "" {
			conceptNames = append(conceptNames, concept.Name)
		}
	}

	poolByTag := make(map[string]*answerPool)
	general := newAnswerPool()

	register := func(tags []string, value string) {
		if value == "" {
			return
		}
		for _, tag := range tags {
			pool, ok := poolByTag[tag]
			if !ok {
				pool = newAnswerPool()
				poolByTag[tag] = pool
			}
			pool.add(value)
		}
		general.add(value)
	}

	for idx := range course.Items {
		item := &course.Items[idx]
		tags := tagsForItem(item, conceptTags)
		switch item.Type {
		case model.ItemTypeMCQ:
			if item.MCQ != nil {
				for _, choice := range item.MCQ.Choices {
					register(tags, choice.Text)
				}
			}
		case model.ItemTypeCard:
			if item.Card != nil {
				register(tags, item.Card.Answer)
			}
		case model.ItemTypeCloze, model.ItemTypeMatch, model.ItemTypeOrdering:
			// Not answer-shaped for MCQ purposes.
		}
	}

	augmented := *course
	augmented.Items = make([]model.CourseItem, len(course.Items))

	for idx, item := range course.Items {
		if item.Type != model.ItemTypeMCQ || item.MCQ == nil || len(item.MCQ.Choices) >= 4 {
			augmented.Items[idx] = item
			continue
		}

		choices := make([]model.MCQChoice, len(item.MCQ.Choices))
		copy(choices, item.MCQ.Choices)
		existing := make(map[string]bool, len(choices))
		for _, choice := range choices {
			existing[choice.Text] = true
		}

		var candidates []string
		for _, tag := range tagsForItem(&item, conceptTags) {
			if pool, ok := poolByTag[tag]; ok {
				for _, value := range pool.values {
					if !existing[value] {
						candidates = append(candidates, value)
					}
				}
			}
		}
		for _, value := range general.values {
			if !existing[value] {
				candidates = append(candidates, value)
			}
		}
		candidates = append(candidates, conceptNames...)

		counter := len(choices) + 1
		for _, value := range candidates {
			if len(choices) >= 4 {
				break
			}
			if existing[value] {
				continue
			}
			choices = append(choices, model.MCQChoice{ID: fmt.Sprintf("choice-%d", counter), Text: value})
			existing[value] = true
			counter++
		}

		for len(choices) < 4 {
			fallback := fmt.Sprintf("Option %d", counter)
			if !existing[fallback] {
				choices = append(choices, model.MCQChoice{ID: fmt.Sprintf("choice-%d", counter), Text: fallback})
				existing[fallback] = true
			}
			counter++
		}

		item.MCQ = &model.MCQItem{Stem: item.MCQ.Stem, Choices: choices}
		augmented.Items[idx] = item
	}

	return &augmented
}

// tagsForItem derives an item's tag set transitively through its concepts'
// tag lists, preserving first-seen order.
func tagsForItem(item *model.CourseItem, conceptTags map[string][]string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, conceptID := range item.ConceptIDs {
		for _, tag := range conceptTags[conceptID] {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}
