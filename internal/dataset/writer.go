package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"fosdata/internal/models"
)

// Writer appends DatasetRows to the output table. The table is the one
// long-lived resource of a run: it is only ever appended to, every append is
// flushed to disk before returning, and the header is written once when the
// file is first created. On open, decision IDs already present are loaded so
// a resumed run never re-appends a row that is already durable.
type Writer struct {
	file *os.File
	csv  *csv.Writer
	seen map[string]bool
}

// OpenWriter opens (or creates) the output table at path.
func OpenWriter(path string) (*Writer, error) {
	seen, existed, err := loadExistingIDs(path)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output table: %w", err)
	}

	w := &Writer{
		file: file,
		csv:  csv.NewWriter(file),
		seen: seen,
	}

	if !existed {
		if err := w.csv.Write(models.DatasetColumns); err != nil {
			_ = file.Close()

			return nil, fmt.Errorf("failed to write header: %w", err)
		}

		if err := w.flush(); err != nil {
			_ = file.Close()

			return nil, err
		}
	}

	return w, nil
}

// Append writes the rows not already present and flushes them to disk.
// Returns the number of rows actually appended. Any error here is fatal for
// the run; durability cannot be silently skipped.
func (w *Writer) Append(rows []*models.DatasetRow) (int, error) {
	appended := 0

	for _, row := range rows {
		if w.seen[row.DecisionID] {
			continue
		}

		if err := w.csv.Write(row.ToCSVRow()); err != nil {
			return appended, fmt.Errorf("failed to append row %s: %w", row.DecisionID, err)
		}

		w.seen[row.DecisionID] = true
		appended++
	}

	if err := w.flush(); err != nil {
		return appended, err
	}

	return appended, nil
}

// Rows returns how many distinct decision IDs the table holds.
func (w *Writer) Rows() int {
	return len(w.seen)
}

// Close flushes and releases the table file.
func (w *Writer) Close() error {
	if err := w.flush(); err != nil {
		_ = w.file.Close()

		return err
	}

	return w.file.Close()
}

func (w *Writer) flush() error {
	w.csv.Flush()

	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("failed to flush output table: %w", err)
	}

	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output table: %w", err)
	}

	return nil
}

// loadExistingIDs reads the decision IDs already in the table, if any.
func loadExistingIDs(path string) (map[string]bool, bool, error) {
	seen := make(map[string]bool)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return seen, false, nil
		}

		return nil, false, fmt.Errorf("failed to read existing output table: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	info, err := file.Stat()
	if err != nil {
		return nil, false, fmt.Errorf("failed to stat existing output table: %w", err)
	}

	if info.Size() == 0 {
		// Created but never written; treat as new so the header gets written.
		return seen, false, nil
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	first := true

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, false, fmt.Errorf("failed to scan existing output table: %w", err)
		}

		if first {
			first = false

			continue // header
		}

		if len(row) > 0 && row[0] != "" {
			seen[row[0]] = true
		}
	}

	return seen, true, nil
}
