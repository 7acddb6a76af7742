package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX writes a CSV table to an XLSX workbook, one row per spreadsheet
// row, header included.
func ExportXLSX(csvPath, xlsxPath string) error {
	in, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", csvPath, err)
	}

	defer func() {
		_ = in.Close()
	}()

	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1

	workbook := excelize.NewFile()

	defer func() {
		_ = workbook.Close()
	}()

	const sheet = "Decisions"

	index, err := workbook.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	workbook.SetActiveSheet(index)

	if err := workbook.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	line := 0

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return fmt.Errorf("failed to read %s: %w", csvPath, err)
		}

		line++

		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}

		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = v
		}

		if err := workbook.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", line, err)
		}
	}

	if err := workbook.SaveAs(xlsxPath); err != nil {
		return fmt.Errorf("failed to save %s: %w", xlsxPath, err)
	}

	return nil
}
