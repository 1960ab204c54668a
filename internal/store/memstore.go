package store

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"medscan/internal/logger"
	"medscan/pkg/models"
)

// MemStore is an in-memory DocumentStore. It serves the CLI and tests; a
// database-backed store can replace it behind the same interface.
type MemStore struct {
	mu   sync.RWMutex
	docs map[string]StoredDocument

	// reprocessing marks documents with a reprocess in flight.
	reprocessing map[string]bool

	log zerolog.Logger
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		docs:         make(map[string]StoredDocument),
		reprocessing: make(map[string]bool),
		log:          logger.WithComponent("memstore"),
	}
}

// Save stores a document record, replacing any prior record for the same ID.
func (s *MemStore) Save(_ context.Context, doc StoredDocument) error {
	if doc.DocumentID == "" {
		return ErrMissingDocumentID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.DocumentID] = doc
	return nil
}

// Get returns the record for a document ID.
func (s *MemStore) Get(_ context.Context, documentID string) (StoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[documentID]
	if !ok {
		return StoredDocument{}, ErrNotFound
	}
	return doc, nil
}

// ListByPatient returns the patient's analyses ordered by capture time.
func (s *MemStore) ListByPatient(_ context.Context, patientID string) ([]models.ReportAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var analyses []models.ReportAnalysis
	for _, doc := range s.docs {
		if doc.PatientID == patientID && doc.Analysis != nil {
			analyses = append(analyses, *doc.Analysis)
		}
	}

	sort.Slice(analyses, func(i, j int) bool {
		return analyses[i].CapturedAt.Before(analyses[j].CapturedAt)
	})
	return analyses, nil
}

// Reprocess re-runs analysis from the stored raw text and replaces the
// prior analysis atomically. At most one reprocess runs per document; a
// concurrent request for the same document is rejected with
// ErrReprocessInFlight.
func (s *MemStore) Reprocess(_ context.Context, documentID string, fn ReprocessFunc) (*models.ReportAnalysis, error) {
	s.mu.Lock()
	doc, ok := s.docs[documentID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if s.reprocessing[documentID] {
		s.mu.Unlock()
		return nil, ErrReprocessInFlight
	}
	s.reprocessing[documentID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.reprocessing, documentID)
		s.mu.Unlock()
	}()

	analysis, err := fn(doc)
	if err != nil {
		// The prior analysis stays in place; a failed reprocess must not
		// leave the document half-replaced.
		s.log.Error().
			Err(err).
			Str("document_id", documentID).
			Msg("Reprocess failed, keeping prior analysis")
		return nil, err
	}

	s.mu.Lock()
	doc = s.docs[documentID]
	doc.Analysis = analysis
	s.docs[documentID] = doc
	s.mu.Unlock()

	s.log.Info().
		Str("document_id", documentID).
		Int("findings", len(analysis.Findings)).
		Msg("Document reprocessed")
	return analysis, nil
}

// Len returns the number of stored documents.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
