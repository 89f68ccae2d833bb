package detect

import (
	"testing"

	"github.com/hyperjump/kouho/internal/config"
	"github.com/hyperjump/kouho/internal/models"
)

func newTestDetector() *Detector {
	cfg := config.Default()
	return NewDetector(cfg.Screening.Skills, cfg.Screening.Buzzwords)
}

func TestDetectSkills_caseInsensitive(t *testing.T) {
	d := newTestDetector()
	got := d.DetectSkills("Built models in PyTorch and deployed on AWS and Azure.")
	want := models.SkillFlags{PyTorch: true, AWS: true, Azure: true}
	if got != want {
		t.Errorf("DetectSkills() = %+v, want %+v", got, want)
	}
}

func TestDetectSkills_substringMatch(t *testing.T) {
	// No word boundaries: "aws" inside a longer token still matches.
	d := newTestDetector()
	got := d.DetectSkills("worked on chainsaws")
	if !got.AWS {
		t.Error("substring containment should match aws inside a longer token")
	}
}

func TestDetectSkills_none(t *testing.T) {
	d := newTestDetector()
	if got := d.DetectSkills("plain text with no mentions"); got != (models.SkillFlags{}) {
		t.Errorf("DetectSkills() = %+v, want zero flags", got)
	}
}

func TestCountBuzzwords(t *testing.T) {
	d := newTestDetector()
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a plain honest sentence", 0},
		{"our CUTTING-EDGE platform", 1},
		{"cutting-edge, state-of-the-art, innovative work", 3},
		// Each vocabulary entry counts once, however often it repeats.
		{"innovative and innovative and innovative", 1},
	}
	for _, tt := range tests {
		if got := d.CountBuzzwords(tt.text); got != tt.want {
			t.Errorf("CountBuzzwords(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestDetector_substitutedVocabulary(t *testing.T) {
	d := NewDetector(config.SkillTerms{PyTorch: "torch"}, []string{"synergy"})
	if !d.DetectSkills("I like Torch.").PyTorch {
		t.Error("substituted skill term should match")
	}
	if d.DetectSkills("I like PyTorch.").AWS {
		t.Error("empty term should never match")
	}
	if d.CountBuzzwords("Synergy everywhere") != 1 {
		t.Error("substituted buzzword should match")
	}
}
