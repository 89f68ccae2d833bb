package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/kouho/internal/models"
)

const sheetName = "Candidates"

// WriteXLSX writes records as an XLSX workbook under dir and returns the
// path of the file it created. Ratings are written as numeric cells so
// the column sorts correctly in a spreadsheet.
func WriteXLSX(dir, basename string, records []*models.CandidateRecord) (string, error) {
	path, reserved, err := reserveFile(dir, basename, ".xlsx")
	if err != nil {
		return "", err
	}
	reserved.Close()

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, h := range header() {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return "", fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for i, rec := range records {
		rowNum := i + 2
		for col, value := range row(rec) {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return "", fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
		if rec.Rating != nil {
			cell, _ := excelize.CoordinatesToCellName(3, rowNum)
			if err := f.SetCellValue(sheetName, cell, *rec.Rating); err != nil {
				return "", fmt.Errorf("failed to write rating cell: %w", err)
			}
		}
	}

	// Widen the columns a reader scans first.
	_ = f.SetColWidth(sheetName, "B", "B", 28) // name
	_ = f.SetColWidth(sheetName, "C", "C", 10) // rating
	_ = f.SetColWidth(sheetName, "K", "O", 48) // answers
	_ = f.SetColWidth(sheetName, "P", "Q", 60) // paths

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}
