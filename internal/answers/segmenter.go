// Package answers locates the screening-question answers inside an
// application document's extracted text.
package answers

import "strings"

// endMarker terminates the final answer in the documents we process.
const endMarker = "Additional Information"

// Lead fragment bounds within each question text. The first few
// characters are the question number, which reformatting mangles more
// often than the prose that follows it.
const (
	leadStart = 5
	leadEnd   = 20
)

// Segmenter extracts answers by pattern-matching against known question
// prompts. The question texts are injected so vocabularies can be
// substituted in tests.
type Segmenter struct {
	questions []string
	leads     []string
}

// NewSegmenter creates a segmenter for the given full question prompts,
// in the order they appear in documents.
func NewSegmenter(questions []string) *Segmenter {
	leads := make([]string, len(questions))
	for i, q := range questions {
		if len(q) >= leadEnd {
			leads[i] = q[leadStart:leadEnd]
		} else {
			leads[i] = q
		}
	}
	return &Segmenter{questions: questions, leads: leads}
}

// Segment scans text line by line and returns the answers found, keyed
// 1..n in discovery order — not by which question's lead matched. That
// assumes documents present questions in their fixed order; an out-of-
// order or missing question shifts later answers into earlier slots.
//
// Fewer than len(questions) entries means segmentation was incomplete.
// An answer may be the empty string when a lead is immediately followed
// by the next lead or the end marker. Never fails on malformed input.
func (s *Segmenter) Segment(text string) map[int]string {
	answers := make(map[int]string)
	lines := strings.Split(text, "\n")
	slot := 1
	for i := 0; i < len(lines) && slot <= len(s.questions); i++ {
		if !s.containsLead(lines[i]) {
			continue
		}
		// The document may wrap or restate the question across several
		// lines before the answer begins; skip every line that is a
		// literal fragment of a known question. A line carrying another
		// lead is never skipped — it terminates the (empty) answer.
		j := i + 1
		for j < len(lines) && s.isQuestionFragment(lines[j]) && !s.containsLead(lines[j]) {
			j++
		}
		var parts []string
		for ; j < len(lines); j++ {
			if s.containsLead(lines[j]) || strings.Contains(lines[j], endMarker) {
				break
			}
			parts = append(parts, lines[j])
		}
		answers[slot] = strings.TrimSpace(strings.Join(parts, " "))
		slot++
	}
	return answers
}

// containsLead reports whether the line contains any question-lead fragment.
func (s *Segmenter) containsLead(line string) bool {
	for _, lead := range s.leads {
		if strings.Contains(line, lead) {
			return true
		}
	}
	return false
}

// isQuestionFragment reports whether the line is a literal substring of
// any full question text. The empty line counts, which conveniently
// skips blank lines between a question and its answer.
func (s *Segmenter) isQuestionFragment(line string) bool {
	for _, q := range s.questions {
		if strings.Contains(q, line) {
			return true
		}
	}
	return false
}
