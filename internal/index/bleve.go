// Package index provides full-text search over extracted document text,
// backed by Bleve.
package index

import (
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
)

// indexedDocument is the shape Bleve stores, keyed by document path.
type indexedDocument struct {
	CandidateID int    `json:"candidate_id"`
	Path        string `json:"path"`
	Content     string `json:"content"`
}

// Hit is one search result.
type Hit struct {
	CandidateID int
	Path        string
	Score       float64
}

// BleveIndex indexes document text for later search.
type BleveIndex struct {
	index bleve.Index
}

// NewBleveIndex creates or opens a Bleve index at path. An existing
// index is opened and reused, so re-running over the same root replaces
// each document in place instead of duplicating it.
func NewBleveIndex(path string) (*BleveIndex, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	// Standard analyzer (lowercase + tokenize, no stemming) so a query
	// for an exact term like "pytorch" matches the indexed word.
	contentMapping := bleve.NewTextFieldMapping()
	contentMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("content", contentMapping)
	docMapping.AddFieldMappingsAt("path", bleve.NewKeywordFieldMapping())
	docMapping.AddFieldMappingsAt("candidate_id", bleve.NewNumericFieldMapping())

	im.AddDocumentMapping("document", docMapping)
	im.DefaultType = "document"
	im.DefaultMapping = docMapping

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// IndexDocument indexes one document's extracted text, keyed by path so
// a re-processed document overwrites its previous entry.
func (b *BleveIndex) IndexDocument(candidateID int, path, text string) error {
	return b.index.Index(path, indexedDocument{
		CandidateID: candidateID,
		Path:        path,
		Content:     text,
	})
}

// Search runs a match query over document content and returns up to
// limit hits, best first.
func (b *BleveIndex) Search(query string, limit int) ([]*Hit, error) {
	q := bleve.NewMatchQuery(query)
	q.SetField("content")
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	req.Fields = []string{"candidate_id", "path"}

	results, err := b.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}

	hits := make([]*Hit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		h := &Hit{Path: hit.ID, Score: hit.Score}
		// Stored numeric fields come back as float64.
		if id, ok := hit.Fields["candidate_id"].(float64); ok {
			h.CandidateID = int(id)
		}
		hits = append(hits, h)
	}
	return hits, nil
}

// DocCount returns the total number of indexed documents.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
