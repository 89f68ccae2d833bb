package models

import "time"

// SkillFlags records which nice-to-have technologies a candidate's
// documents mention. Flags only ever accumulate: once a mention is
// seen in any document it stays set.
type SkillFlags struct {
	PyTorch        bool
	TensorFlow     bool
	CSharp         bool
	ComputerVision bool
	Azure          bool
	AWS            bool
}

// Merge returns the logical OR of s and other.
func (s SkillFlags) Merge(other SkillFlags) SkillFlags {
	return SkillFlags{
		PyTorch:        s.PyTorch || other.PyTorch,
		TensorFlow:     s.TensorFlow || other.TensorFlow,
		CSharp:         s.CSharp || other.CSharp,
		ComputerVision: s.ComputerVision || other.ComputerVision,
		Azure:          s.Azure || other.Azure,
		AWS:            s.AWS || other.AWS,
	}
}

// CandidateRecord is one candidate's aggregated screening result, the
// unit of output. It is built up incrementally while the candidate's
// documents are processed and finalized exactly once; read-only after
// that.
type CandidateRecord struct {
	CandidateID     int
	FullName        string
	ApplicationPath string
	CVPath          string

	// Answers holds the five screening-question answers in question
	// order; an answer the segmenter never found stays empty.
	Answers [5]string

	Skills        SkillFlags
	BuzzwordCount int

	// Rating is nil until scoring runs, and stays nil for records with
	// processing errors so an incomplete record can never be mistaken
	// for a comparably scored one.
	Rating *float64

	// HasProcessingErrors is set (never cleared) on any extraction,
	// segmentation, or missing-document failure for this candidate.
	HasProcessingErrors bool
}

// Run identifies one batch run over a root directory.
type Run struct {
	ID             string
	Root           string
	StartedAt      time.Time
	FinishedAt     time.Time
	CandidateCount int
}
