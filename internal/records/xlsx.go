package records

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/rewired-gh/lottoracle/internal/models"
)

const xlsxSheet = "Draws"

// ExportXLSX writes records as a single-sheet workbook. Every cell is stored
// as a string so leading zeros survive.
func ExportXLSX(w io.Writer, draws []models.DrawRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	rows := append([][]string{ExportHeaders}, Rows(draws)...)
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("invalid cell at row %d col %d: %w", r+1, c+1, err)
			}
			if err := f.SetCellStr(xlsxSheet, cell, value); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ParseXLSX reads the first sheet of a workbook with the same header rules as Parse.
func ParseXLSX(r io.Reader) ([]models.DrawRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []models.DrawRecord{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return fromRows(rows), nil
}
