package drn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"DRN-3100972", true},
		{"DRN3100972", true},
		{"see DRN-1 for details", true},
		{"CASE-77", false},
		{"DRN-", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValid(tt.id), "id %q", tt.id)
	}
}

func TestFromLocation(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"/decision/DRN-3100972.pdf", "DRN-3100972"},
		{"DRN-1.pdf", "DRN-1"},
		{"/a/b/DRN-2", "DRN-2"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FromLocation(tt.location), "location %q", tt.location)
	}
}
