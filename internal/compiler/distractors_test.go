package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocket_study/internal/model"
)

func mcqItem(id, conceptID, stem string, choices ...model.MCQChoice) model.CourseItem {
	return model.CourseItem{
		ItemBase: model.ItemBase{ID: id, Type: model.ItemTypeMCQ, ConceptIDs: []string{conceptID}},
		MCQ:      &model.MCQItem{Stem: stem, Choices: choices},
	}
}

func cardItem(id, conceptID, prompt, answer string) model.CourseItem {
	return model.CourseItem{
		ItemBase: model.ItemBase{ID: id, Type: model.ItemTypeCard, ConceptIDs: []string{conceptID}},
		Card:     &model.CardItem{Prompt: prompt, Answer: answer},
	}
}

func TestAugmentDistractors_PadsFromTagPool(t *testing.T) {
	course := &model.Course{
		ID:      "c1",
		Title:   "T",
		Version: 1,
		Concepts: []model.Concept{
			{ID: "c.colors", Name: "Colors", Tags: []string{"palette"}},
			{ID: "c.shades", Name: "Shades", Tags: []string{"palette"}},
			{ID: "c.other", Name: "Other"},
		},
		Items: []model.CourseItem{
			mcqItem("mcq.c-colors.1", "c.colors", "Sky color?",
				model.MCQChoice{ID: "choice-1", Text: "blue", Correct: true},
				model.MCQChoice{ID: "choice-2", Text: "green"},
			),
			cardItem("card.c-shades.1", "c.shades", "Dark shade", "crimson"),
			cardItem("card.c-other.1", "c.other", "Unrelated", "keyboard"),
		},
	}

	augmented := AugmentDistractors(course)

	// Input course is untouched.
	require.Len(t, course.Items[0].MCQ.Choices, 2)

	choices := augmented.Items[0].MCQ.Choices
	require.Len(t, choices, 4)
	assert.Equal(t, "blue", choices[0].Text)
	assert.True(t, choices[0].Correct)
	assert.Equal(t, "green", choices[1].Text)

	// Tag-correlated answers rank ahead of the general pool.
	assert.Equal(t, "crimson", choices[2].Text)
	assert.Equal(t, "choice-3", choices[2].ID)
	assert.False(t, choices[2].Correct)
	assert.Equal(t, "keyboard", choices[3].Text)

	texts := make(map[string]bool)
	for _, choice := range choices {
		assert.False(t, texts[choice.Text], "duplicate choice text %q", choice.Text)
		texts[choice.Text] = true
	}
}

func TestAugmentDistractors_FallsBackToPlaceholders(t *testing.T) {
	course := &model.Course{
		ID:       "c1",
		Title:    "T",
		Version:  1,
		Concepts: []model.Concept{{ID: "c.only", Name: ""}},
		Items: []model.CourseItem{
			mcqItem("mcq.c-only.1", "c.only", "Pick",
				model.MCQChoice{ID: "choice-1", Text: "right", Correct: true},
			),
		},
	}

	augmented := AugmentDistractors(course)
	choices := augmented.Items[0].MCQ.Choices
	require.Len(t, choices, 4)
	assert.Equal(t, "right", choices[0].Text)
	assert.Equal(t, "Option 2", choices[1].Text)
	assert.Equal(t, "Option 3", choices[2].Text)
	assert.Equal(t, "Option 4", choices[3].Text)
}

func TestAugmentDistractors_LeavesFullMCQsAlone(t *testing.T) {
	full := mcqItem("mcq.c-x.1", "c.x", "Pick",
		model.MCQChoice{ID: "choice-1", Text: "a", Correct: true},
		model.MCQChoice{ID: "choice-2", Text: "b"},
		model.MCQChoice{ID: "choice-3", Text: "c"},
		model.MCQChoice{ID: "choice-4", Text: "d"},
	)
	course := &model.Course{
		ID:       "c1",
		Title:    "T",
		Version:  1,
		Concepts: []model.Concept{{ID: "c.x", Name: "X"}},
		Items:    []model.CourseItem{full},
	}

	augmented := AugmentDistractors(course)
	assert.Equal(t, full.MCQ.Choices, augmented.Items[0].MCQ.Choices)
}
