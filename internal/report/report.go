// Package report writes the tabular output of a screening run. Both
// formats share the same columns; filenames carry a probed numeric
// suffix so a new run never overwrites an earlier report.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hyperjump/kouho/internal/models"
)

// maxProbes bounds the suffix search so a pathological directory cannot
// spin forever.
const maxProbes = 10000

func header() []string {
	return []string{
		"Candidate ID",
		"Full Name",
		"Rating",
		"PyTorch",
		"TensorFlow",
		"C#",
		"Computer Vision",
		"Azure",
		"AWS",
		"Buzzwords",
		"Answer 1",
		"Answer 2",
		"Answer 3",
		"Answer 4",
		"Answer 5",
		"Application",
		"CV",
		"Processing Errors",
	}
}

func row(rec *models.CandidateRecord) []string {
	rating := ""
	if rec.Rating != nil {
		rating = strconv.FormatFloat(*rec.Rating, 'f', -1, 64)
	}
	cells := []string{
		strconv.Itoa(rec.CandidateID),
		rec.FullName,
		rating,
		strconv.FormatBool(rec.Skills.PyTorch),
		strconv.FormatBool(rec.Skills.TensorFlow),
		strconv.FormatBool(rec.Skills.CSharp),
		strconv.FormatBool(rec.Skills.ComputerVision),
		strconv.FormatBool(rec.Skills.Azure),
		strconv.FormatBool(rec.Skills.AWS),
		strconv.Itoa(rec.BuzzwordCount),
	}
	cells = append(cells, rec.Answers[:]...)
	return append(cells,
		rec.ApplicationPath,
		rec.CVPath,
		strconv.FormatBool(rec.HasProcessingErrors),
	)
}

// reserveFile finds the first free <basename><i><ext> under dir and
// creates it exclusively, so two concurrent runs can never claim the
// same report path.
func reserveFile(dir, basename, ext string) (string, *os.File, error) {
	for i := 0; i < maxProbes; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%s%d%s", basename, i, ext))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return path, f, nil
		}
		if !os.IsExist(err) {
			return "", nil, fmt.Errorf("failed to create report file: %w", err)
		}
	}
	return "", nil, fmt.Errorf("no free report filename under %s after %d attempts", dir, maxProbes)
}
