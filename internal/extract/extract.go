// Package extract produces per-page text with confidence scores from PDF
// documents, using the embedded text layer when present and optical
// recognition as the fallback.
package extract

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/kouho/internal/models"
	"github.com/hyperjump/kouho/pkg/utils"
)

// ErrTimeout marks an extraction that exceeded its per-document budget.
// Callers set the budget on the context; the partial result is discarded.
var ErrTimeout = errors.New("document extraction timed out")

// Config holds extraction settings. Binary names may be absolute paths.
type Config struct {
	Pdftoppm        string // rasterizer binary; if empty -> "pdftoppm"
	Tesseract       string // recognition binary; if empty -> "tesseract"
	DPI             int    // rasterization DPI, default 300
	MinWordsPerPage int    // text-layer acceptance threshold, default 50
}

// Extractor extracts document text with the two-stage strategy.
type Extractor struct {
	cfg       Config
	runner    Runner
	openPages func(path string) ([]string, error)
	logger    *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets a logger for per-document and per-page events.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// WithRunner substitutes the external-command runner, used by tests.
func WithRunner(r Runner) Option {
	return func(e *Extractor) { e.runner = r }
}

// withOpenPages substitutes the text-layer reader, used by tests.
func withOpenPages(open func(string) ([]string, error)) Option {
	return func(e *Extractor) { e.openPages = open }
}

// NewExtractor creates an extractor, applying config defaults.
func NewExtractor(cfg Config, opts ...Option) *Extractor {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MinWordsPerPage <= 0 {
		cfg.MinWordsPerPage = 50
	}
	e := &Extractor{cfg: cfg, runner: execRunner{}, openPages: openPDFPages}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the per-page text of the document at path.
//
// Every page whose embedded text layer yields more alphabetic words than
// the threshold is accepted at full confidence. If that covers the whole
// document, recognition never runs. Otherwise the whole document is
// rasterized and recognized page by page; pages whose recognition fails
// are logged and omitted without aborting the rest.
//
// The operation honors ctx cancellation; when the deadline passes the
// returned error matches ErrTimeout and no partial result is kept.
func (e *Extractor) Extract(ctx context.Context, path string) (*models.DocumentText, error) {
	pages, err := e.openPages(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document %s: %w", path, err)
	}

	doc := models.NewDocumentText(path)
	for i, text := range pages {
		if err := budgetErr(ctx); err != nil {
			return nil, err
		}
		if utils.CountAlphaWords(text) > e.cfg.MinWordsPerPage {
			doc.Pages[i] = models.PageText{
				PageNumber: i + 1,
				Confidence: models.DirectConfidence,
				Text:       text,
			}
		}
	}

	if len(doc.Pages) == len(pages) {
		e.debug("text layer extraction complete", zap.String("path", path), zap.Int("pages", len(pages)))
		return doc, nil
	}

	e.debug("text layer incomplete, falling back to recognition",
		zap.String("path", path),
		zap.Int("accepted", len(doc.Pages)),
		zap.Int("pages", len(pages)),
	)
	if err := e.recognize(ctx, path, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// budgetErr translates a spent context into the timeout sentinel.
func budgetErr(ctx context.Context) error {
	switch ctx.Err() {
	case nil:
		return nil
	case context.DeadlineExceeded:
		return ErrTimeout
	default:
		return ctx.Err()
	}
}

func (e *Extractor) debug(msg string, fields ...zap.Field) {
	if e.logger != nil {
		e.logger.Debug(msg, fields...)
	}
}

func (e *Extractor) warn(msg string, fields ...zap.Field) {
	if e.logger != nil {
		e.logger.Warn(msg, fields...)
	}
}
