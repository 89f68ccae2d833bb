package report

import (
	"encoding/csv"
	"fmt"

	"github.com/hyperjump/kouho/internal/models"
)

// WriteCSV writes records as CSV under dir and returns the path of the
// file it created.
func WriteCSV(dir, basename string, records []*models.CandidateRecord) (string, error) {
	path, f, err := reserveFile(dir, basename, ".csv")
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header()); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(row(rec)); err != nil {
			return "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}
	return path, nil
}
