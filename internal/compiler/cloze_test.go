package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocket_study/internal/model"
)

func TestExpandClozeTemplate(t *testing.T) {
	tests := []struct {
		name        string
		template    string
		wantTokens  []model.ClozeToken
		wantAnswers []string
		wantErr     string
	}{
		{
			name:     "single blank with surrounding text",
			template: "The sky is {{blue}}.",
			wantTokens: []model.ClozeToken{
				{Type: model.TokenText, Value: "The sky is "},
				{Type: model.TokenBlank, Value: "blue"},
				{Type: model.TokenText, Value: "."},
			},
			wantAnswers: []string{"blue"},
		},
		{
			name:     "multiple blanks preserve document order",
			template: "{{Go}} routines talk over {{channels}}",
			wantTokens: []model.ClozeToken{
				{Type: model.TokenBlank, Value: "Go"},
				{Type: model.TokenText, Value: " routines talk over "},
				{Type: model.TokenBlank, Value: "channels"},
			},
			wantAnswers: []string{"Go", "channels"},
		},
		{
			name:     "blank contents are trimmed",
			template: "Answer is {{  42  }} here",
			wantTokens: []model.ClozeToken{
				{Type: model.TokenText, Value: "Answer is "},
				{Type: model.TokenBlank, Value: "42"},
				{Type: model.TokenText, Value: " here"},
			},
			wantAnswers: []string{"42"},
		},
		{
			name:     "empty template",
			template: "   ",
			wantErr:  "non-empty",
		},
		{
			name:     "no blanks",
			template: "just plain text",
			wantErr:  "at least one",
		},
		{
			name:     "literal {{}} counts as no blank",
			template: "empty {{}} marker",
			wantErr:  "at least one",
		},
		{
			name:     "whitespace-only blank",
			template: "empty {{   }} marker",
			wantErr:  "empty blank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ExpandClozeTemplate(tt.template)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTokens, result.Tokens)
			assert.Equal(t, tt.wantAnswers, result.Answers)
		})
	}
}

func TestValidateClozeItem(t *testing.T) {
	ok := &model.ClozeItem{
		Tokens: []model.ClozeToken{
			{Type: model.TokenText, Value: "a "},
			{Type: model.TokenBlank, Value: "b"},
		},
		Answer: []string{"b"},
	}
	assert.NoError(t, ValidateClozeItem("cloze.x.1", ok))

	mismatch := &model.ClozeItem{
		Tokens: []model.ClozeToken{
			{Type: model.TokenBlank, Value: "b"},
			{Type: model.TokenBlank, Value: "c"},
		},
		Answer: []string{"b"},
	}
	err := ValidateClozeItem("cloze.x.2", mismatch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cloze.x.2")
}
