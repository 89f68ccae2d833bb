// Package cli provides CLI output helpers for kouho.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hyperjump/kouho/internal/index"
	"github.com/hyperjump/kouho/internal/models"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteRecords writes a run's candidate records to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteRecords(w io.Writer, records []*models.CandidateRecord, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	default:
		writeRecordsText(w, records)
		return nil
	}
}

func writeRecordsText(w io.Writer, records []*models.CandidateRecord) {
	fmt.Fprintf(w, "\nProcessed %d candidates\n\n", len(records))
	for _, rec := range records {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Candidate %d", rec.CandidateID)
		if rec.FullName != "" {
			fmt.Fprintf(w, " | %s", rec.FullName)
		}
		fmt.Fprintln(w)
		if rec.Rating != nil {
			fmt.Fprintf(w, "Rating: %.3f\n", *rec.Rating)
		} else {
			fmt.Fprintf(w, "Rating: - (processing errors)\n")
		}
		fmt.Fprintf(w, "Skills: %s | Buzzwords: %d\n", skillSummary(rec.Skills), rec.BuzzwordCount)
		fmt.Fprintln(w)
	}
}

func skillSummary(s models.SkillFlags) string {
	names := []struct {
		set  bool
		name string
	}{
		{s.ComputerVision, "computer vision"},
		{s.PyTorch, "pytorch"},
		{s.TensorFlow, "tensorflow"},
		{s.CSharp, "c#"},
		{s.Azure, "azure"},
		{s.AWS, "aws"},
	}
	out := ""
	for _, n := range names {
		if !n.set {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += n.name
	}
	if out == "" {
		return "none"
	}
	return out
}

// WriteRuns writes past run summaries to w in the given format, one
// line per run in text mode.
func WriteRuns(w io.Writer, runs []*models.Run, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	default:
		fmt.Fprintf(w, "\n%d runs\n\n", len(runs))
		for _, run := range runs {
			fmt.Fprintf(w, "%s | %s | %d candidates | %s\n",
				run.ID,
				run.StartedAt.Format(time.RFC3339),
				run.CandidateCount,
				run.Root,
			)
		}
		return nil
	}
}

// WriteSearchHits writes search results to w in the given format.
func WriteSearchHits(w io.Writer, hits []*index.Hit, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	default:
		fmt.Fprintf(w, "\nFound %d documents\n\n", len(hits))
		for i, hit := range hits {
			fmt.Fprintf(w, "%d. candidate %d | score %.4f\n   %s\n", i+1, hit.CandidateID, hit.Score, hit.Path)
		}
		return nil
	}
}
