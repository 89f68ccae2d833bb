// Package detect scans extracted text for nice-to-have skill mentions
// and marketing buzzwords.
package detect

import (
	"strings"

	"github.com/hyperjump/kouho/internal/config"
	"github.com/hyperjump/kouho/internal/models"
)

// Detector holds the detection vocabularies. Both checks are pure,
// case-insensitive substring containment: no word boundaries, so "aws"
// matches inside longer tokens too — accepted imprecision.
type Detector struct {
	skills    config.SkillTerms
	buzzwords []string
}

// NewDetector creates a detector with the given vocabularies.
func NewDetector(skills config.SkillTerms, buzzwords []string) *Detector {
	lowered := make([]string, len(buzzwords))
	for i, b := range buzzwords {
		lowered[i] = strings.ToLower(b)
	}
	return &Detector{skills: skills, buzzwords: lowered}
}

// DetectSkills returns which skill terms text mentions.
func (d *Detector) DetectSkills(text string) models.SkillFlags {
	lower := strings.ToLower(text)
	return models.SkillFlags{
		PyTorch:        mentions(lower, d.skills.PyTorch),
		TensorFlow:     mentions(lower, d.skills.TensorFlow),
		CSharp:         mentions(lower, d.skills.CSharp),
		ComputerVision: mentions(lower, d.skills.ComputerVision),
		Azure:          mentions(lower, d.skills.Azure),
		AWS:            mentions(lower, d.skills.AWS),
	}
}

// CountBuzzwords returns how many distinct buzzwords text contains.
func (d *Detector) CountBuzzwords(text string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, b := range d.buzzwords {
		if b != "" && strings.Contains(lower, b) {
			count++
		}
	}
	return count
}

func mentions(lowerText, term string) bool {
	return term != "" && strings.Contains(lowerText, strings.ToLower(term))
}
