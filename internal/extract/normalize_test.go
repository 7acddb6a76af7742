package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "plain ascii untouched",
			input: "The complaint\nWhat happened",
			want:  "The complaint\nWhat happened",
		},
		{
			name:  "curly double quotes folded",
			input: "he said “no”",
			want:  `he said "no"`,
		},
		{
			name:  "apostrophe removed",
			input: "What I’ve decided – and why",
			want:  "What Ive decided - and why",
		},
		{
			name:  "bullet glyph removed",
			input: "\uf0b7 a policy",
			want:  " a policy",
		},
		{
			name:  "non-ascii replaced with space",
			input: "café résumé",
			want:  "caf  r sum ",
		},
		{
			name:  "newlines preserved",
			input: "line one\nline two\n",
			want:  "line one\nline two\n",
		},
		{
			name:  "control bytes replaced",
			input: "a\x00b\tc",
			want:  "a b c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"mixed “quotes” and – dashes éé",
		"What I’ve decided – and why\nMy final decision",
		"",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input %q", input)
	}
}

func TestPartiallyUpheld(t *testing.T) {
	assert.True(t, PartiallyUpheld("for these reasons I partially uphold this complaint"))
	assert.False(t, PartiallyUpheld("for these reasons I do not uphold this complaint"))
	assert.False(t, PartiallyUpheld(""))
	// Case-sensitive by contract.
	assert.False(t, PartiallyUpheld("I Partially Uphold this complaint"))
}
