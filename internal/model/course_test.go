package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseItem_JSONFlattensVariant(t *testing.T) {
	item := CourseItem{
		ItemBase: ItemBase{
			ID:         "mcq.concept-x.1",
			Type:       ItemTypeMCQ,
			ConceptIDs: []string{"concept.x"},
		},
		MCQ: &MCQItem{
			Stem: "Pick one",
			Choices: []MCQChoice{
				{ID: "choice-1", Text: "a", Correct: true},
				{ID: "choice-2", Text: "b"},
			},
		},
	}

	payload, err := json.Marshal(item)
	require.NoError(t, err)

	// Variant fields sit next to the base fields, not under a nested key.
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(payload, &raw))
	assert.Contains(t, raw, "id")
	assert.Contains(t, raw, "conceptIds")
	assert.Contains(t, raw, "stem")
	assert.Contains(t, raw, "choices")
	assert.NotContains(t, raw, "MCQ")

	var decoded CourseItem
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, item.ItemBase, decoded.ItemBase)
	require.NotNil(t, decoded.MCQ)
	assert.Equal(t, item.MCQ, decoded.MCQ)
	assert.Nil(t, decoded.Card)
}

func TestCourseItem_UnknownTypeRejected(t *testing.T) {
	var item CourseItem
	err := json.Unmarshal([]byte(`{"id":"x.1","type":"essay","conceptIds":["c"]}`), &item)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "essay")

	_, err = json.Marshal(CourseItem{ItemBase: ItemBase{ID: "x.1", Type: "essay"}})
	assert.Error(t, err)
}

func TestCourseItem_Answers(t *testing.T) {
	card := CourseItem{
		ItemBase: ItemBase{Type: ItemTypeCard},
		Card:     &CardItem{Prompt: "p", Answer: "a"},
	}
	assert.Equal(t, []string{"a"}, card.Answers())

	cloze := CourseItem{
		ItemBase: ItemBase{Type: ItemTypeCloze},
		Cloze:    &ClozeItem{Answer: []string{"x", "y"}},
	}
	assert.Equal(t, []string{"x", "y"}, cloze.Answers())

	mcq := CourseItem{
		ItemBase: ItemBase{Type: ItemTypeMCQ},
		MCQ: &MCQItem{Choices: []MCQChoice{
			{ID: "choice-1", Text: "wrong"},
			{ID: "choice-2", Text: "right", Correct: true},
		}},
	}
	assert.Equal(t, []string{"right"}, mcq.Answers())

	match := CourseItem{
		ItemBase: ItemBase{Type: ItemTypeMatch},
		Match:    &MatchItem{Pairs: []MatchPair{{ID: "pair-1", Prompt: "p", Answer: "a"}}},
	}
	assert.Nil(t, match.Answers())
}
