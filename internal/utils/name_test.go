package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"01-intro", "01-intro"},
		{"getting_started", "getting started"},
		{"02.pointers.and.methods", "02 pointers and methods"},
		{"  spaced   out  ", "spaced out"},
		{"plain", "plain"},
		{"mixed_sep.name", "mixed sep name"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DisplayName(tt.input), "input %q", tt.input)
	}
}
