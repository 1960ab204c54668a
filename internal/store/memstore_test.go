package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"medscan/pkg/models"
)

func storedDoc(docID, patientID string, capturedAt time.Time, severity models.Severity) StoredDocument {
	return StoredDocument{
		DocumentID:    docID,
		PatientID:     patientID,
		CapturedAt:    capturedAt,
		RawText:       "Hemoglobin: 9.2 g/dL",
		OCRConfidence: 0.9,
		Analysis: &models.ReportAnalysis{
			DocumentID: docID,
			PatientID:  patientID,
			CapturedAt: capturedAt,
			Findings: []models.Finding{
				{MetricName: "HGB", Value: 9.2, Unit: "g/dL", Severity: severity},
			},
		},
	}
}

func TestMemStore_SaveAndGet(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	doc := storedDoc("doc-1", "patient-1", time.Now(), models.SeverityCriticalLow)
	if err := s.Save(ctx, doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PatientID != "patient-1" || got.RawText != doc.RawText {
		t.Errorf("stored document does not match: %+v", got)
	}
}

func TestMemStore_SaveRequiresDocumentID(t *testing.T) {
	s := NewMemStore()

	err := s.Save(context.Background(), StoredDocument{PatientID: "patient-1"})
	if !errors.Is(err, ErrMissingDocumentID) {
		t.Errorf("expected ErrMissingDocumentID, got %v", err)
	}
}

func TestMemStore_GetMissing(t *testing.T) {
	s := NewMemStore()

	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemStore_ListByPatientOrdersByCaptureTime(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Saved out of order, plus another patient's document.
	docs := []StoredDocument{
		storedDoc("doc-2", "patient-1", base.AddDate(0, 1, 0), models.SeverityLow),
		storedDoc("doc-1", "patient-1", base, models.SeverityCriticalLow),
		storedDoc("doc-3", "patient-2", base, models.SeverityNormal),
	}
	for _, doc := range docs {
		if err := s.Save(ctx, doc); err != nil {
			t.Fatal(err)
		}
	}

	analyses, err := s.ListByPatient(ctx, "patient-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(analyses) != 2 {
		t.Fatalf("expected 2 analyses, got %d", len(analyses))
	}
	if analyses[0].DocumentID != "doc-1" || analyses[1].DocumentID != "doc-2" {
		t.Errorf("expected chronological order doc-1, doc-2; got %s, %s",
			analyses[0].DocumentID, analyses[1].DocumentID)
	}
}

func TestMemStore_ReprocessReplacesAnalysis(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	doc := storedDoc("doc-1", "patient-1", time.Now(), models.SeverityCriticalLow)
	if err := s.Save(ctx, doc); err != nil {
		t.Fatal(err)
	}

	replacement, err := s.Reprocess(ctx, "doc-1", func(d StoredDocument) (*models.ReportAnalysis, error) {
		if d.RawText != doc.RawText {
			t.Errorf("reprocess should see the stored raw text, got %q", d.RawText)
		}
		updated := *d.Analysis
		updated.Findings = []models.Finding{
			{MetricName: "HGB", Value: 11.0, Unit: "g/dL", Severity: models.SeverityLow},
		}
		return &updated, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if replacement.Findings[0].Value != 11.0 {
		t.Errorf("expected replacement analysis, got %g", replacement.Findings[0].Value)
	}

	got, err := s.Get(ctx, "doc-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Analysis.Findings[0].Value != 11.0 {
		t.Errorf("expected stored analysis replaced, got %g", got.Analysis.Findings[0].Value)
	}
}

func TestMemStore_ReprocessMissingDocument(t *testing.T) {
	s := NewMemStore()

	_, err := s.Reprocess(context.Background(), "nope", func(StoredDocument) (*models.ReportAnalysis, error) {
		t.Error("reprocess func must not run for a missing document")
		return nil, nil
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemStore_ReprocessFailureKeepsPriorAnalysis(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	doc := storedDoc("doc-1", "patient-1", time.Now(), models.SeverityCriticalLow)
	if err := s.Save(ctx, doc); err != nil {
		t.Fatal(err)
	}

	wantErr := errors.New("ocr backend unavailable")
	_, err := s.Reprocess(ctx, "doc-1", func(StoredDocument) (*models.ReportAnalysis, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected reprocess error, got %v", err)
	}

	got, err := s.Get(ctx, "doc-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Analysis.Findings[0].Severity != models.SeverityCriticalLow {
		t.Error("failed reprocess must leave the prior analysis intact")
	}
}

func TestMemStore_ConcurrentReprocessRejected(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	doc := storedDoc("doc-1", "patient-1", time.Now(), models.SeverityCriticalLow)
	if err := s.Save(ctx, doc); err != nil {
		t.Fatal(err)
	}

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, err := s.Reprocess(ctx, "doc-1", func(d StoredDocument) (*models.ReportAnalysis, error) {
			close(entered)
			<-release
			return d.Analysis, nil
		})
		done <- err
	}()

	<-entered
	_, err := s.Reprocess(ctx, "doc-1", func(d StoredDocument) (*models.ReportAnalysis, error) {
		return d.Analysis, nil
	})
	if !errors.Is(err, ErrReprocessInFlight) {
		t.Errorf("expected ErrReprocessInFlight, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first reprocess failed: %v", err)
	}

	// Once the first reprocess completes the document is free again.
	if _, err := s.Reprocess(ctx, "doc-1", func(d StoredDocument) (*models.ReportAnalysis, error) {
		return d.Analysis, nil
	}); err != nil {
		t.Errorf("expected reprocess to succeed after the first finished, got %v", err)
	}
}
