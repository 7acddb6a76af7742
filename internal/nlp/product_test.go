package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordExtractor_ExtractProduct(t *testing.T) {
	extractor := NewKeywordExtractor()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "possessive determiner",
			text: "Mr B complains that his travel insurance claim was declined.",
			want: "travel",
		},
		{
			name: "article bounds multi-word phrase",
			text: "Mrs C took out a home and contents insurance policy with X.",
			want: "home and contents",
		},
		{
			name: "verb bounds the phrase",
			text: "The company sold motor breakdown insurance alongside the loan.",
			want: "motor breakdown",
		},
		{
			name: "no anchor word",
			text: "Mr D complains about bank charges on his account.",
			want: "",
		},
		{
			name: "anchor with no left boundary",
			text: "insurance was the subject of the complaint",
			want: "",
		},
		{
			name: "unbounded anchor passed over for a later one",
			text: "Cover for insurance matters; he held motor insurance too.",
			want: "motor",
		},
		{
			name: "empty input",
			text: "",
			want: "",
		},
		{
			name: "possessive name bounds the phrase",
			text: "The complaint concerns Mr E’s pet insurance policy.",
			want: "pet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractor.ExtractProduct(tt.text))
		})
	}
}
