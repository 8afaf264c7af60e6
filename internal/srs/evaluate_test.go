package srs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCorrectFreeResponse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		answers []string
		want    bool
	}{
		{"exact match", "blue", []string{"blue"}, true},
		{"case insensitive", "BLUE", []string{"blue"}, true},
		{"surrounding whitespace ignored", "  blue\t", []string{"blue"}, true},
		{"inner whitespace collapsed", "go   routine", []string{"go routine"}, true},
		{"matches any accepted answer", "colour", []string{"color", "colour"}, true},
		{"wrong answer", "red", []string{"blue"}, false},
		{"no accepted answers", "blue", nil, false},
		{"empty input vs empty answer", "", []string{""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCorrectFreeResponse(tt.input, tt.answers))
		})
	}
}
