package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable(
		[]string{"metric", "value"},
		[][]string{
			{"rows seen", "120"},
			{"rows retained", "98"},
		},
	)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "| metric        | value |", lines[0])
	assert.Equal(t, "| ------------- | ----- |", lines[1])
	assert.Equal(t, "| rows seen     | 120   |", lines[2])
	assert.Equal(t, "| rows retained | 98    |", lines[3])
}

func TestRenderTable_RaggedRows(t *testing.T) {
	out := RenderTable([]string{"a"}, [][]string{{"x", "y"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3)

	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "|"))
		assert.True(t, strings.HasSuffix(line, "|"))
	}
}
