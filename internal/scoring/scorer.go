// Package scoring computes the heuristic suitability rating of a
// candidate record.
package scoring

import "github.com/hyperjump/kouho/internal/models"

// Hand-tuned weights, preserved exactly: substantive signal (computer
// vision, pytorch, azure) counts full, csharp and tensorflow half, aws
// slightly under full, and every distinct buzzword costs 1/1.75.
const (
	halfWeight     = 2.0
	awsDivisor     = 1.1
	buzzwordDivisor = 1.75
)

// Answer-length penalty bands, in bytes of the trimmed answer.
const (
	brokenAnswerMax = 30   // (0,30): likely a link to another document
	shortAnswerMax  = 250  // [30,250]: suspiciously short
	longAnswerMin   = 1800 // >1800: suspiciously long
)

// Rate returns the rating for a finalized record. It is a pure function
// of the record's current field values and must only be called once all
// of the candidate's documents have been processed.
//
// Records with processing errors are never rated: ok is false and the
// rating must stay unset, so known-incomplete data cannot be mistaken
// for a comparable score.
func Rate(rec *models.CandidateRecord) (rating float64, ok bool) {
	if rec.HasProcessingErrors {
		return 0, false
	}

	rating = flag(rec.Skills.ComputerVision) +
		flag(rec.Skills.CSharp)/halfWeight +
		flag(rec.Skills.PyTorch) +
		flag(rec.Skills.TensorFlow)/halfWeight +
		flag(rec.Skills.Azure) +
		flag(rec.Skills.AWS)/awsDivisor
	rating -= float64(rec.BuzzwordCount) / buzzwordDivisor

	for _, answer := range rec.Answers {
		switch n := len(answer); {
		case n > 0 && n < brokenAnswerMax:
			rating--
		case n >= brokenAnswerMax && n <= shortAnswerMax:
			rating -= 0.5
		case n > longAnswerMin:
			rating -= 0.5
		}
	}
	return rating, true
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
