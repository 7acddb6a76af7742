// Package dataset handles the persistent tables: streaming reads of the
// metadata table, append-only writes of the output table, and the final
// validated-dataset filter.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"fosdata/internal/models"
)

// Metadata table errors.
var (
	ErrMissingHeader     = errors.New("metadata file has no header row")
	ErrMissingDecisionID = errors.New("metadata header has no decision_id column")
)

// MetadataReader streams DocumentRecords from a metadata CSV file without
// loading it into memory at once.
type MetadataReader struct {
	file    *os.File
	csv     *csv.Reader
	columns map[string]int
}

// OpenMetadata opens a metadata CSV and consumes its header row.
func OpenMetadata(path string) (*MetadataReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		_ = file.Close()

		return nil, fmt.Errorf("%w: %s", ErrMissingHeader, path)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}

	if _, ok := columns["decision_id"]; !ok {
		_ = file.Close()

		return nil, fmt.Errorf("%w: %s", ErrMissingDecisionID, path)
	}

	return &MetadataReader{file: file, csv: reader, columns: columns}, nil
}

// Next returns the next record, or io.EOF when the stream is exhausted.
func (r *MetadataReader) Next() (*models.DocumentRecord, error) {
	row, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		return nil, fmt.Errorf("failed to read metadata row: %w", err)
	}

	return &models.DocumentRecord{
		DecisionID: r.field(row, "decision_id"),
		Location:   r.field(row, "location"),
		Title:      r.field(row, "title"),
		Date:       r.field(row, "date"),
		Company:    r.field(row, "company"),
		Product:    r.field(row, "product"),
		Decision:   r.field(row, "decision"),
		Extras:     r.field(row, "extras"),
		Tag:        r.field(row, "tag"),
	}, nil
}

// Close releases the underlying file.
func (r *MetadataReader) Close() error {
	return r.file.Close()
}

func (r *MetadataReader) field(row []string, name string) string {
	idx, ok := r.columns[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return row[idx]
}

// LoadJoinIndex reads a whole metadata table into a map keyed by decision ID,
// for the merge against extracted rows.
func LoadJoinIndex(path string) (map[string]*models.DocumentRecord, error) {
	reader, err := OpenMetadata(path)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = reader.Close()
	}()

	index := make(map[string]*models.DocumentRecord)

	for {
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, err
		}

		index[record.DecisionID] = record
	}

	return index, nil
}
