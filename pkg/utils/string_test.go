package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  a   b\tc ", "a b c"},
		{"one", "one"},
		{"", ""},
		{"\n\n", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeWhitespace(tt.input), "input %q", tt.input)
	}
}

func TestCleanLines(t *testing.T) {
	input := "  12 January 2023  \n\n Acme Insurance Ltd\n  \nUpheld\n"
	assert.Equal(t, []string{"12 January 2023", "Acme Insurance Ltd", "Upheld"}, CleanLines(input))

	assert.Nil(t, CleanLines(""))
	assert.Nil(t, CleanLines("\n \n"))
}
