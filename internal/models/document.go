// Package models defines core data structures for extracted documents and candidate records.
package models

import (
	"sort"
	"strings"
)

// DirectConfidence is the confidence assigned to pages whose text came
// straight from the PDF text layer, without optical recognition.
const DirectConfidence = 100.0

// PageText holds one page's extracted text. Confidence is on a 0..100
// scale: DirectConfidence for text-layer extraction, the recognition
// engine's mean word confidence for OCR pages, and NaN when the engine
// produced no confident words at all. Immutable once created.
type PageText struct {
	PageNumber int     // 1-based position within the source document
	Confidence float64 // 0..100, or NaN
	Text       string
}

// DocumentText aggregates all extracted pages of one document, keyed by
// 0-based page index. A page missing from the map failed recognition.
type DocumentText struct {
	SourcePath string
	Pages      map[int]PageText
}

// NewDocumentText returns an empty DocumentText for the given source path.
func NewDocumentText(sourcePath string) *DocumentText {
	return &DocumentText{SourcePath: sourcePath, Pages: make(map[int]PageText)}
}

// AllText returns the text of every page joined by single spaces, in
// page order. This is the unit of downstream analysis.
func (d *DocumentText) AllText() string {
	indices := make([]int, 0, len(d.Pages))
	for i := range d.Pages {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	parts := make([]string, 0, len(indices))
	for _, i := range indices {
		parts = append(parts, d.Pages[i].Text)
	}
	return strings.Join(parts, " ")
}
