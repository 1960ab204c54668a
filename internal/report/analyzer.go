package report

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"medscan/internal/extract"
	"medscan/internal/logger"
	"medscan/internal/ocr"
	"medscan/internal/refrange"
	"medscan/pkg/models"
)

// Options holds the analyzer's tunable thresholds.
type Options struct {
	// CriticalMargin is the global critical-margin fraction used when a
	// reference range carries no per-metric override.
	CriticalMargin float64

	// ConfidenceFloor is the hard OCR-confidence floor. Below it the
	// document is rejected with ErrConfidenceTooLow before extraction.
	ConfidenceFloor float32

	// LowConfidenceThreshold is the soft threshold below which analysis
	// still runs but the result carries the low-confidence flag.
	LowConfidenceThreshold float32
}

// DefaultOptions returns the analyzer defaults.
func DefaultOptions() Options {
	return Options{
		CriticalMargin:         DefaultCriticalMargin,
		ConfidenceFloor:        0.20,
		LowConfidenceThreshold: 0.60,
	}
}

// Analyzer turns one document's OCR text into a ReportAnalysis. It holds
// only immutable configuration, so a single instance serves concurrent
// analyses.
type Analyzer struct {
	vocab *extract.Vocabulary
	table *refrange.Table
	opts  Options
	log   zerolog.Logger
}

// NewAnalyzer creates an analyzer over the given vocabulary and reference
// range table.
func NewAnalyzer(vocab *extract.Vocabulary, table *refrange.Table, opts Options) *Analyzer {
	return &Analyzer{
		vocab: vocab,
		table: table,
		opts:  opts,
		log:   logger.WithComponent("report-analyzer"),
	}
}

// Input is everything Analyze needs for one document.
type Input struct {
	DocumentID string
	PatientID  string
	CapturedAt time.Time

	// RawText is the OCR output for the document.
	RawText string

	// Confidence is the OCR collaborator's confidence score (0-1).
	Confidence float32

	// Demographics optionally refine reference range lookups.
	Demographics refrange.Demographics
}

// Analyze runs the extraction and classification pipeline over one
// document. Apart from the analysis timestamp it is a pure function of its
// input: identical input yields structurally identical findings and
// category. Zero findings is a valid outcome, distinct from the input
// errors that reject the document outright.
func (a *Analyzer) Analyze(in Input) (*models.ReportAnalysis, error) {
	const op = "Analyze"

	if strings.TrimSpace(in.RawText) == "" {
		return nil, &AnalysisError{Op: op, DocumentID: in.DocumentID, Err: ErrEmptyText}
	}
	if in.Confidence < a.opts.ConfidenceFloor {
		return nil, &AnalysisError{Op: op, DocumentID: in.DocumentID, Err: ErrConfidenceTooLow}
	}

	values := extract.Extract(in.RawText, a.vocab)

	// A report often repeats a value in a summary line. The first
	// occurrence by document order is authoritative; the rest are kept as
	// duplicates, not findings.
	var duplicates []models.ExtractedValue
	seen := make(map[string]bool, len(values))
	findings := make([]models.Finding, 0, len(values))
	for _, ev := range values {
		if seen[ev.MetricName] {
			duplicates = append(duplicates, ev)
			continue
		}
		seen[ev.MetricName] = true
		findings = append(findings, Classify(ev, a.table, in.Demographics, a.opts.CriticalMargin))
	}

	analysis := &models.ReportAnalysis{
		DocumentID:      in.DocumentID,
		PatientID:       in.PatientID,
		CapturedAt:      in.CapturedAt,
		Category:        inferCategory(in.RawText, len(findings)),
		Findings:        findings,
		DuplicateValues: duplicates,
		OCRConfidence:   in.Confidence,
		LowConfidence:   in.Confidence < a.opts.LowConfidenceThreshold,
		AnalyzedAt:      time.Now(),
	}

	a.log.Info().
		Str("document_id", in.DocumentID).
		Str("patient_id", in.PatientID).
		Str("category", string(analysis.Category)).
		Int("findings", len(findings)).
		Int("duplicates", len(duplicates)).
		Float32("ocr_confidence", in.Confidence).
		Bool("low_confidence", analysis.LowConfidence).
		Msg("Document analyzed")

	return analysis, nil
}

// Document identifies the document being analyzed from bytes.
type Document struct {
	DocumentID   string
	PatientID    string
	CapturedAt   time.Time
	Demographics refrange.Demographics
}

// AnalyzeDocument runs the OCR collaborator over the document bytes and
// analyzes the result. A collaborator failure is propagated as an
// UpstreamError; no partial analysis is produced.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, svc ocr.Service, data io.Reader, doc Document) (*models.ReportAnalysis, error) {
	res, err := svc.ProcessDocument(ctx, data)
	if err != nil {
		a.log.Error().
			Err(err).
			Str("document_id", doc.DocumentID).
			Msg("OCR collaborator failed")
		return nil, &UpstreamError{Err: err}
	}

	return a.Analyze(Input{
		DocumentID:   doc.DocumentID,
		PatientID:    doc.PatientID,
		CapturedAt:   doc.CapturedAt,
		RawText:      res.Text,
		Confidence:   res.Confidence,
		Demographics: doc.Demographics,
	})
}
