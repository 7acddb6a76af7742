package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"fosdata/internal/models"
	"fosdata/pkg/drn"
)

// ErrEmptyDataset is returned when the raw table has no data rows.
var ErrEmptyDataset = errors.New("dataset has no rows")

// Report summarizes a validation pass, surfacing data-quality loss without
// failing the run.
type Report struct {
	RowsSeen       int
	RowsRetained   int
	UniqueRetained int
}

// Column positions within models.DatasetColumns.
const (
	colDecisionID = iota
	colDate
	colCompany
	colProduct
	colLabel
	colComplaint
	colWhatHappened
	colProvisional
	colDecidedAndWhy
	colFinalDecision
)

// Validate filters the raw output table into the validated dataset. A row is
// retained only if its decision ID matches idPattern (nil means the standard
// reference-number check), its label is one of the three known codes, and
// every section except the provisional decision is non-null. Null sections
// serialize as empty cells, so empty means null here.
func Validate(inputPath, outputPath string, idPattern *regexp.Regexp) (*Report, error) {
	matchID := drn.IsValid
	if idPattern != nil {
		matchID = idPattern.MatchString
	}
	in, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}

	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create validated dataset: %w", err)
	}

	defer func() {
		_ = out.Close()
	}()

	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	writer := csv.NewWriter(out)

	if err := writer.Write(models.DatasetColumns); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	report := &Report{}
	unique := make(map[string]bool)
	first := true

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read dataset row: %w", err)
		}

		if first {
			first = false
			if len(row) > 0 && row[colDecisionID] == "decision_id" {
				continue
			}
		}

		report.RowsSeen++

		if !retain(row, matchID) {
			continue
		}

		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write validated row: %w", err)
		}

		report.RowsRetained++
		unique[row[colDecisionID]] = true
	}

	if report.RowsSeen == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDataset, inputPath)
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush validated dataset: %w", err)
	}

	report.UniqueRetained = len(unique)

	return report, nil
}

// retain applies the validated-dataset filter to one row.
func retain(row []string, matchID func(string) bool) bool {
	if len(row) != len(models.DatasetColumns) {
		return false
	}

	if !matchID(row[colDecisionID]) {
		return false
	}

	label, err := strconv.Atoi(row[colLabel])
	if err != nil {
		return false
	}

	if label != models.LabelUpheld && label != models.LabelNotUpheld && label != models.LabelPartiallyUpheld {
		return false
	}

	// The provisional decision is the one section allowed to be null.
	for _, col := range []int{colComplaint, colWhatHappened, colDecidedAndWhy, colFinalDecision} {
		if row[col] == "" {
			return false
		}
	}

	return true
}
