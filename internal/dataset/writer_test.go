package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fosdata/internal/models"
)

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func sampleRow(id string) *models.DatasetRow {
	return &models.DatasetRow{
		DecisionID: id,
		Date:       "12 January 2023",
		Company:    "Acme Insurance Ltd",
		Product:    "travel",
		Label:      intPtr(models.LabelUpheld),
		Sections: &models.Sections{
			Complaint:     strPtr("Mr B complains."),
			WhatHappened:  strPtr("A claim was declined."),
			DecidedAndWhy: strPtr("I uphold this complaint."),
			FinalDecision: strPtr("I uphold this complaint."),
		},
	}
}

func TestWriter_AppendWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.csv")

	writer, err := OpenWriter(path)
	require.NoError(t, err)

	appended, err := writer.Append([]*models.DatasetRow{sampleRow("DRN-1"), sampleRow("DRN-2")})
	require.NoError(t, err)
	assert.Equal(t, 2, appended)
	require.NoError(t, writer.Close())

	writer, err = OpenWriter(path)
	require.NoError(t, err)

	appended, err = writer.Append([]*models.DatasetRow{sampleRow("DRN-3")})
	require.NoError(t, err)
	assert.Equal(t, 1, appended)
	require.NoError(t, writer.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Join(models.DatasetColumns, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[3], "DRN-3,"))
}

func TestWriter_AppendSkipsDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.csv")

	writer, err := OpenWriter(path)
	require.NoError(t, err)

	appended, err := writer.Append([]*models.DatasetRow{sampleRow("DRN-1")})
	require.NoError(t, err)
	assert.Equal(t, 1, appended)

	appended, err = writer.Append([]*models.DatasetRow{sampleRow("DRN-1"), sampleRow("DRN-2")})
	require.NoError(t, err)
	assert.Equal(t, 1, appended)
	assert.Equal(t, 2, writer.Rows())

	require.NoError(t, writer.Close())
}

func TestWriter_ReopenSkipsDurableRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.csv")

	writer, err := OpenWriter(path)
	require.NoError(t, err)
	_, err = writer.Append([]*models.DatasetRow{sampleRow("DRN-1"), sampleRow("DRN-2")})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	// A resumed run replays the same batch plus one new row.
	writer, err = OpenWriter(path)
	require.NoError(t, err)
	assert.Equal(t, 2, writer.Rows())

	appended, err := writer.Append([]*models.DatasetRow{
		sampleRow("DRN-1"),
		sampleRow("DRN-2"),
		sampleRow("DRN-3"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, appended)
	require.NoError(t, writer.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(content), "DRN-1,"))
}

func TestWriter_ExistingEmptyFileGetsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	writer, err := OpenWriter(path)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(models.DatasetColumns, ",")+"\n", string(content))
}

func TestWriter_NilSectionSerializesEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.csv")

	row := sampleRow("DRN-1")
	row.Sections.ProvisionalDecision = nil
	row.Label = nil

	writer, err := OpenWriter(path)
	require.NoError(t, err)
	_, err = writer.Append([]*models.DatasetRow{row})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], ",,")
}
