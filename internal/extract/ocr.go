package extract

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/kouho/internal/models"
	"github.com/hyperjump/kouho/pkg/utils"
)

// recognize rasterizes every page of the document to a grayscale image
// and runs the recognition engine on each, writing results into doc.
// Pages already present from the text layer are overwritten by their
// recognized counterpart; a page whose recognition fails keeps whatever
// was there (usually nothing) and is logged, not raised.
func (e *Extractor) recognize(ctx context.Context, path string, doc *models.DocumentText) error {
	tmpDir, err := os.MkdirTemp("", "kouho-ocr-*")
	if err != nil {
		return fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.warn("failed to remove scratch dir", zap.String("dir", tmpDir), zap.Error(rmErr))
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -gray -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", strconv.Itoa(e.cfg.DPI), "-gray", "-png", path, prefix)
	if err != nil {
		if budgetErr(ctx) != nil {
			return budgetErr(ctx)
		}
		return fmt.Errorf("failed to rasterize %s: %s: %w", path, utils.Truncate(string(errb), 512), err)
	}

	// pdftoppm pads page numbers to a fixed width, so a lexical sort is page order.
	images, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(images)
	if len(images) == 0 {
		return fmt.Errorf("rasterizer produced no pages for %s", path)
	}

	for i, img := range images {
		if err := budgetErr(ctx); err != nil {
			return err
		}
		text, conf, pageErr := e.recognizePage(ctx, img)
		if pageErr != nil {
			if budgetErr(ctx) != nil {
				return budgetErr(ctx)
			}
			e.warn("page recognition failed",
				zap.String("path", path),
				zap.Int("page", i+1),
				zap.Error(pageErr),
			)
			continue
		}
		doc.Pages[i] = models.PageText{PageNumber: i + 1, Confidence: conf, Text: text}
	}
	return nil
}

// recognizePage runs the recognition engine on one page image and
// returns its text plus the engine's mean word confidence (0..100, NaN
// when the engine reported no confident words).
func (e *Extractor) recognizePage(ctx context.Context, img string) (string, float64, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, img, "stdout")
	if err != nil {
		return "", 0, fmt.Errorf("recognition: %s: %w", utils.Truncate(string(errb), 512), err)
	}
	text := string(out)

	conf, confErr := e.pageConfidence(ctx, img)
	if confErr != nil {
		e.warn("page confidence unavailable", zap.String("image", img), zap.Error(confErr))
		conf = math.NaN()
	}
	return text, conf, nil
}

// pageConfidence runs the engine in TSV mode and averages the per-word
// confidence column, skipping the -1 rows the engine emits for
// non-word elements.
func (e *Extractor) pageConfidence(ctx context.Context, img string) (float64, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, img, "stdout", "tsv")
	if err != nil {
		return 0, fmt.Errorf("recognition TSV: %s: %w", utils.Truncate(string(errb), 512), err)
	}

	var sum float64
	var n int
	for i, line := range strings.Split(string(out), "\n") {
		if i == 0 || line == "" { // header
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := cols[10]
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, parseErr := strconv.ParseFloat(confStr, 64); parseErr == nil {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN(), nil
	}
	return sum / float64(n), nil
}
