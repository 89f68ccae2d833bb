// Package pipeline orchestrates a screening run: locating candidate
// documents, extracting their text, segmenting answers, detecting skill
// and buzzword mentions, and rating each finalized record.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/kouho/internal/answers"
	"github.com/hyperjump/kouho/internal/config"
	"github.com/hyperjump/kouho/internal/detect"
	"github.com/hyperjump/kouho/internal/extract"
	"github.com/hyperjump/kouho/internal/locate"
	"github.com/hyperjump/kouho/internal/models"
	"github.com/hyperjump/kouho/internal/scoring"
)

// TextExtractor produces per-page text for one document. Satisfied by
// *extract.Extractor; substituted in tests.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (*models.DocumentText, error)
}

// RunStore persists a completed run and its records. Optional sink: a
// failure is logged, never fails the run.
type RunStore interface {
	SaveRun(ctx context.Context, run *models.Run, records []*models.CandidateRecord) error
}

// DocumentIndexer receives the extracted text of every document for
// later full-text search. Optional sink with the same failure policy as
// RunStore.
type DocumentIndexer interface {
	IndexDocument(candidateID int, path, text string) error
}

// cvFallbackTerms classify an otherwise unmarked filename as a CV, used
// only when no filename carries an explicit CV marker. The match must be
// unique: two plausible CVs means we cannot tell which one to trust.
var cvFallbackTerms = []string{"scientist", "research", "curriculum", "analyst", "engineer", "science"}

// Pipeline runs the screening process over a directory tree.
type Pipeline struct {
	cfg       *config.Config
	extractor TextExtractor
	detector  *detect.Detector
	segmenter *answers.Segmenter
	store     RunStore
	indexer   DocumentIndexer
	logger    *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a logger for run progress and per-candidate events.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithExtractor substitutes the document text extractor, used by tests.
func WithExtractor(e TextExtractor) Option {
	return func(p *Pipeline) { p.extractor = e }
}

// WithStore attaches a run store sink.
func WithStore(s RunStore) Option {
	return func(p *Pipeline) { p.store = s }
}

// WithIndexer attaches a document index sink.
func WithIndexer(ix DocumentIndexer) Option {
	return func(p *Pipeline) { p.indexer = ix }
}

// New creates a pipeline from cfg. The default extractor shells out to
// the configured rasterizer and recognizer binaries.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:       cfg,
		detector:  detect.NewDetector(cfg.Screening.Skills, cfg.Screening.Buzzwords),
		segmenter: answers.NewSegmenter(cfg.Screening.Questions),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.extractor == nil {
		var extractOpts []extract.Option
		if p.logger != nil {
			extractOpts = append(extractOpts, extract.WithLogger(p.logger))
		}
		p.extractor = extract.NewExtractor(extract.Config{
			Pdftoppm:        cfg.Extract.Pdftoppm,
			Tesseract:       cfg.Extract.Tesseract,
			DPI:             cfg.Extract.DPI,
			MinWordsPerPage: cfg.Extract.MinWordsPerPage,
		}, extractOpts...)
	}
	return p
}

// Run processes every candidate found under root and returns the run
// descriptor plus one record per candidate, ordered by candidate id.
// Individual candidate failures mark that record, not the run; the only
// run-level error is an unreadable root.
func (p *Pipeline) Run(ctx context.Context, root string) (*models.Run, []*models.CandidateRecord, error) {
	grouping, err := locate.Locate(root)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to locate documents: %w", err)
	}

	run := &models.Run{
		ID:        uuid.NewString(),
		Root:      root,
		StartedAt: time.Now(),
	}
	p.info("starting run",
		zap.String("run_id", run.ID),
		zap.String("root", root),
		zap.Int("candidates", len(grouping)),
	)

	records := make([]*models.CandidateRecord, 0, len(grouping))
	for _, id := range grouping.CandidateIDs() {
		rec := p.processCandidate(ctx, id, grouping[id])
		records = append(records, rec)
		p.info("processed candidate",
			zap.Int("candidate_id", rec.CandidateID),
			zap.String("name", rec.FullName),
			zap.Bool("errors", rec.HasProcessingErrors),
		)
	}

	run.FinishedAt = time.Now()
	run.CandidateCount = len(records)

	if p.store != nil {
		if err := p.store.SaveRun(ctx, run, records); err != nil {
			p.warn("failed to persist run", zap.String("run_id", run.ID), zap.Error(err))
		}
	}

	p.info("run complete",
		zap.String("run_id", run.ID),
		zap.Int("candidates", len(records)),
		zap.Duration("elapsed", run.FinishedAt.Sub(run.StartedAt)),
	)
	return run, records, nil
}

// processCandidate builds one record from a candidate's documents. Every
// failure along the way marks the record and processing continues, so a
// single broken document never hides the rest of the candidate's data.
func (p *Pipeline) processCandidate(ctx context.Context, id int, paths []string) *models.CandidateRecord {
	rec := &models.CandidateRecord{CandidateID: id}

	application, cv, rest := classify(paths)
	if cv == "" {
		cv = fallbackCV(rest)
	}

	if application == "" {
		p.warn("no application document", zap.Int("candidate_id", id))
	} else {
		rec.ApplicationPath = application
		p.processApplication(ctx, rec, application)
	}

	if cv == "" {
		p.warn("no cv document", zap.Int("candidate_id", id))
	} else {
		rec.CVPath = cv
		p.processCV(ctx, rec, cv)
	}

	// A single missing role is tolerated: the other document still
	// yields a usable record. Only a candidate with neither document
	// is incomplete.
	if application == "" && cv == "" {
		rec.HasProcessingErrors = true
	}

	if !rec.HasProcessingErrors {
		if rating, ok := scoring.Rate(rec); ok {
			rec.Rating = &rating
		}
	}
	return rec
}

// processApplication extracts the application document and fills in the
// candidate's answers, skill flags, and buzzword count.
func (p *Pipeline) processApplication(ctx context.Context, rec *models.CandidateRecord, path string) {
	text, ok := p.extractDocument(ctx, rec, path)
	if !ok {
		return
	}

	rec.Skills = rec.Skills.Merge(p.detector.DetectSkills(text))
	rec.BuzzwordCount += p.detector.CountBuzzwords(text)

	found := p.segmenter.Segment(text)
	for slot, answer := range found {
		if slot >= 1 && slot <= len(rec.Answers) {
			rec.Answers[slot-1] = answer
		}
	}
	if len(found) < len(p.cfg.Screening.Questions) {
		p.warn("incomplete answer segmentation",
			zap.Int("candidate_id", rec.CandidateID),
			zap.String("path", path),
			zap.Int("found", len(found)),
			zap.Int("expected", len(p.cfg.Screening.Questions)),
		)
		rec.HasProcessingErrors = true
	}
}

// processCV extracts the CV document, merges its skill mentions, and
// derives the candidate's full name from the filename.
func (p *Pipeline) processCV(ctx context.Context, rec *models.CandidateRecord, path string) {
	rec.FullName = locate.NameFromPath(path)

	text, ok := p.extractDocument(ctx, rec, path)
	if !ok {
		return
	}
	rec.Skills = rec.Skills.Merge(p.detector.DetectSkills(text))
	rec.BuzzwordCount += p.detector.CountBuzzwords(text)
}

// extractDocument runs extraction under the per-document budget. On any
// failure the record is marked and ok is false.
func (p *Pipeline) extractDocument(ctx context.Context, rec *models.CandidateRecord, path string) (text string, ok bool) {
	docCtx := ctx
	if timeout := p.cfg.Extract.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		docCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	doc, err := p.extractor.Extract(docCtx, path)
	if err != nil {
		p.warn("failed to extract document",
			zap.Int("candidate_id", rec.CandidateID),
			zap.String("path", path),
			zap.Error(err),
		)
		rec.HasProcessingErrors = true
		return "", false
	}

	text = doc.AllText()
	if p.indexer != nil {
		if err := p.indexer.IndexDocument(rec.CandidateID, path, text); err != nil {
			p.warn("failed to index document", zap.String("path", path), zap.Error(err))
		}
	}
	return text, true
}

// classify splits a candidate's documents into the application, the CV,
// and everything else, on filename markers. The first match of each kind
// wins.
func classify(paths []string) (application, cv string, rest []string) {
	for _, path := range paths {
		s := strings.ToLower(stem(path))
		switch {
		case application == "" && strings.Contains(s, "application"):
			application = path
		case cv == "" && (strings.Contains(s, "cv") || strings.Contains(s, "resume") || strings.Contains(s, "curriculum")):
			cv = path
		default:
			rest = append(rest, path)
		}
	}
	return application, cv, rest
}

// fallbackCV picks the CV among unmarked documents by secondary filename
// terms. Returns "" unless exactly one document matches.
func fallbackCV(paths []string) string {
	var match string
	for _, path := range paths {
		s := strings.ToLower(stem(path))
		for _, term := range cvFallbackTerms {
			if strings.Contains(s, term) {
				if match != "" {
					return ""
				}
				match = path
				break
			}
		}
	}
	return match
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (p *Pipeline) info(msg string, fields ...zap.Field) {
	if p.logger != nil {
		p.logger.Info(msg, fields...)
	}
}

func (p *Pipeline) warn(msg string, fields ...zap.Field) {
	if p.logger != nil {
		p.logger.Warn(msg, fields...)
	}
}
