package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/kouho/internal/config"
	"github.com/hyperjump/kouho/internal/models"
)

var testQuestions = []string{
	"Q1 - Tell us why you want to join this team.",
	"Q2 - Describe a project you are most proud of.",
	"Q3 - How do you keep your skills up to date over time?",
	"Q4 - What does good collaboration look like to you?",
	"Q5 - Where do you want to be in five years from now?",
}

// stubExtractor serves canned text keyed by filename, or a canned error.
type stubExtractor struct {
	texts map[string]string
	errs  map[string]error
}

func (s *stubExtractor) Extract(_ context.Context, path string) (*models.DocumentText, error) {
	base := filepath.Base(path)
	if err, ok := s.errs[base]; ok {
		return nil, err
	}
	text, ok := s.texts[base]
	if !ok {
		return nil, errors.New("no canned text for " + base)
	}
	doc := models.NewDocumentText(path)
	doc.Pages[0] = models.PageText{PageNumber: 1, Confidence: models.DirectConfidence, Text: text}
	return doc, nil
}

type recordingStore struct {
	run     *models.Run
	records []*models.CandidateRecord
	err     error
}

func (s *recordingStore) SaveRun(_ context.Context, run *models.Run, records []*models.CandidateRecord) error {
	s.run = run
	s.records = records
	return s.err
}

type recordingIndexer struct {
	paths []string
}

func (ix *recordingIndexer) IndexDocument(_ int, path, _ string) error {
	ix.paths = append(ix.paths, filepath.Base(path))
	return nil
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Screening.Questions = testQuestions
	return cfg
}

// applicationText renders a plausible application document: each question
// verbatim on its own line, followed by its answer.
func applicationText(answers ...string) string {
	var b strings.Builder
	for i, q := range testQuestions {
		b.WriteString(q + "\n")
		if i < len(answers) {
			b.WriteString(answers[i] + "\n")
		}
	}
	b.WriteString("Additional Information\n")
	return b.String()
}

func touchFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRun_completeCandidate(t *testing.T) {
	root := t.TempDir()
	touchFiles(t, root,
		"7 - Application Form.pdf",
		"7 - JANE DOE CV.pdf",
	)

	longAnswer := strings.Repeat("experience with computer vision systems ", 10)
	ext := &stubExtractor{texts: map[string]string{
		"7 - Application Form.pdf": applicationText(longAnswer, longAnswer, longAnswer, longAnswer, longAnswer),
		"7 - JANE DOE CV.pdf":      "Deployed PyTorch models on Azure.",
	}}

	p := New(testConfig(), WithExtractor(ext))
	_, records, err := p.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.CandidateID != 7 {
		t.Errorf("CandidateID = %d, want 7", rec.CandidateID)
	}
	if rec.FullName != "JANE DOE" {
		t.Errorf("FullName = %q, want %q", rec.FullName, "JANE DOE")
	}
	if rec.HasProcessingErrors {
		t.Error("unexpected processing errors")
	}
	for i, a := range rec.Answers {
		if a == "" {
			t.Errorf("answer %d is empty", i+1)
		}
	}
	// Skills accumulate across both documents.
	if !rec.Skills.ComputerVision || !rec.Skills.PyTorch || !rec.Skills.Azure {
		t.Errorf("Skills = %+v, want computer vision, pytorch and azure set", rec.Skills)
	}
	if rec.Rating == nil {
		t.Fatal("expected a rating on a clean record")
	}
}

func TestRun_missingCVStillRated(t *testing.T) {
	root := t.TempDir()
	touchFiles(t, root, "3 - Application Form.pdf")

	// PyTorch and AWS mentioned, no buzzwords, five 100-char answers.
	skilled := "built pipelines with pytorch deployed on aws " + strings.Repeat("x", 55)
	plain := strings.Repeat("y", 100)
	ext := &stubExtractor{texts: map[string]string{
		"3 - Application Form.pdf": applicationText(skilled, plain, plain, plain, plain),
	}}
	p := New(testConfig(), WithExtractor(ext))
	_, records, err := p.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	rec := records[0]
	if rec.HasProcessingErrors {
		t.Error("a missing CV alone must not mark the record")
	}
	if rec.CVPath != "" || rec.FullName != "" {
		t.Errorf("CVPath = %q, FullName = %q, want both empty", rec.CVPath, rec.FullName)
	}
	if rec.Rating == nil {
		t.Fatal("rating must be computed with the CV unavailable")
	}
	// Divide through a variable so the expectation uses float64
	// arithmetic, same as the scorer.
	divisor := 1.1
	if want := 1 + 1/divisor - 2.5; *rec.Rating != want {
		t.Errorf("Rating = %v, want %v", *rec.Rating, want)
	}
}

func TestRun_missingApplicationStillRated(t *testing.T) {
	root := t.TempDir()
	touchFiles(t, root, "3 - JOHN SMITH CV.pdf")

	ext := &stubExtractor{texts: map[string]string{
		"3 - JOHN SMITH CV.pdf": "Shipped several Azure services.",
	}}
	p := New(testConfig(), WithExtractor(ext))
	_, records, err := p.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	rec := records[0]
	if rec.HasProcessingErrors {
		t.Error("a missing application alone must not mark the record")
	}
	if rec.FullName != "JOHN SMITH" {
		t.Errorf("FullName = %q, want %q", rec.FullName, "JOHN SMITH")
	}
	if rec.Rating == nil {
		t.Fatal("rating must be computed with the application unavailable")
	}
	if *rec.Rating != 1 {
		t.Errorf("Rating = %v, want 1 for a single full-weight skill", *rec.Rating)
	}
}

func TestRun_neitherRoleFoundMarksRecord(t *testing.T) {
	root := t.TempDir()
	touchFiles(t, root, "3 - Meeting Notes.pdf")

	p := New(testConfig(), WithExtractor(&stubExtractor{}))
	_, records, err := p.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	rec := records[0]
	if !rec.HasProcessingErrors {
		t.Error("a candidate with neither application nor cv must be marked")
	}
	if rec.Rating != nil {
		t.Error("marked record must not be rated")
	}
}

func TestRun_extractionFailureMarksRecordOnly(t *testing.T) {
	root := t.TempDir()
	touchFiles(t, root,
		"1 - Application.pdf",
		"1 - AMY POND CV.pdf",
		"2 - Application.pdf",
		"2 - RORY WILLIAMS CV.pdf",
	)

	good := applicationText(strings.Repeat("x", 300), strings.Repeat("x", 300),
		strings.Repeat("x", 300), strings.Repeat("x", 300), strings.Repeat("x", 300))
	ext := &stubExtractor{
		texts: map[string]string{
			"1 - AMY POND CV.pdf":      "cv",
			"2 - Application.pdf":      good,
			"2 - RORY WILLIAMS CV.pdf": "cv",
		},
		errs: map[string]error{
			"1 - Application.pdf": errors.New("malformed document"),
		},
	}
	p := New(testConfig(), WithExtractor(ext))
	_, records, err := p.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if !records[0].HasProcessingErrors {
		t.Error("candidate 1 should be marked")
	}
	if records[1].HasProcessingErrors {
		t.Error("candidate 2 should be clean")
	}
}

func TestRun_incompleteSegmentationMarksRecord(t *testing.T) {
	root := t.TempDir()
	touchFiles(t, root, "5 - Application.pdf", "5 - CLARA OSWALD CV.pdf")

	// Only the first three questions appear in the document.
	var b strings.Builder
	for _, q := range testQuestions[:3] {
		b.WriteString(q + "\nan answer of reasonable length goes right here\n")
	}
	ext := &stubExtractor{texts: map[string]string{
		"5 - Application.pdf":     b.String(),
		"5 - CLARA OSWALD CV.pdf": "cv text",
	}}
	p := New(testConfig(), WithExtractor(ext))
	_, records, _ := p.Run(context.Background(), root)

	rec := records[0]
	if !rec.HasProcessingErrors {
		t.Error("incomplete segmentation should mark the record")
	}
	if rec.Answers[0] == "" || rec.Answers[2] == "" {
		t.Error("answers that were found should still be recorded")
	}
	if rec.Answers[4] != "" {
		t.Error("missing answer slot should stay empty")
	}
}

func TestRun_recordsOrderedByCandidateID(t *testing.T) {
	root := t.TempDir()
	touchFiles(t, root,
		"30 - Application.pdf", "30 - A B CV.pdf",
		"4 - Application.pdf", "4 - C D CV.pdf",
	)
	good := applicationText("a", "b", "c", "d", "e")
	ext := &stubExtractor{texts: map[string]string{
		"30 - Application.pdf": good, "30 - A B CV.pdf": "cv",
		"4 - Application.pdf": good, "4 - C D CV.pdf": "cv",
	}}
	p := New(testConfig(), WithExtractor(ext))
	_, records, _ := p.Run(context.Background(), root)
	if len(records) != 2 || records[0].CandidateID != 4 || records[1].CandidateID != 30 {
		t.Errorf("records out of order: %v, %v", records[0].CandidateID, records[1].CandidateID)
	}
}

func TestRun_sinksReceiveData(t *testing.T) {
	root := t.TempDir()
	touchFiles(t, root, "9 - Application.pdf", "9 - E F CV.pdf")

	ext := &stubExtractor{texts: map[string]string{
		"9 - Application.pdf": applicationText("a", "b", "c", "d", "e"),
		"9 - E F CV.pdf":      "cv text",
	}}
	store := &recordingStore{}
	ix := &recordingIndexer{}
	p := New(testConfig(), WithExtractor(ext), WithStore(store), WithIndexer(ix))

	run, records, err := p.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if store.run == nil || store.run.ID != run.ID {
		t.Error("store did not receive the run")
	}
	if len(store.records) != len(records) {
		t.Errorf("store received %d records, want %d", len(store.records), len(records))
	}
	if run.CandidateCount != 1 {
		t.Errorf("CandidateCount = %d, want 1", run.CandidateCount)
	}
	if run.ID == "" {
		t.Error("run id must be set")
	}
	if len(ix.paths) != 2 {
		t.Errorf("indexer received %d documents, want 2", len(ix.paths))
	}
}

func TestRun_storeFailureDoesNotFailRun(t *testing.T) {
	root := t.TempDir()
	touchFiles(t, root, "9 - Application.pdf", "9 - E F CV.pdf")
	ext := &stubExtractor{texts: map[string]string{
		"9 - Application.pdf": applicationText("a", "b", "c", "d", "e"),
		"9 - E F CV.pdf":      "cv text",
	}}
	store := &recordingStore{err: errors.New("disk full")}
	p := New(testConfig(), WithExtractor(ext), WithStore(store))
	if _, _, err := p.Run(context.Background(), root); err != nil {
		t.Errorf("sink failure should not fail the run: %v", err)
	}
}

func TestClassify(t *testing.T) {
	application, cv, rest := classify([]string{
		"/r/12 - Extra Notes.pdf",
		"/r/12 - Application Form.pdf",
		"/r/12 - JANE DOE Resume.pdf",
	})
	if filepath.Base(application) != "12 - Application Form.pdf" {
		t.Errorf("application = %q", application)
	}
	if filepath.Base(cv) != "12 - JANE DOE Resume.pdf" {
		t.Errorf("cv = %q", cv)
	}
	if len(rest) != 1 {
		t.Errorf("rest = %v", rest)
	}
}

func TestFallbackCV(t *testing.T) {
	if got := fallbackCV([]string{"/r/12 - JANE DOE Data Scientist.pdf", "/r/12 - notes.pdf"}); filepath.Base(got) != "12 - JANE DOE Data Scientist.pdf" {
		t.Errorf("fallbackCV = %q", got)
	}
	// Two plausible CVs: refuse to guess.
	if got := fallbackCV([]string{"/r/12 - Research Summary.pdf", "/r/12 - ML Engineer.pdf"}); got != "" {
		t.Errorf("ambiguous fallback should return empty, got %q", got)
	}
	if got := fallbackCV([]string{"/r/12 - notes.pdf"}); got != "" {
		t.Errorf("no match should return empty, got %q", got)
	}
}
