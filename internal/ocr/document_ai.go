package ocr

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
)

// DocumentAIConfig holds configuration for the Document AI OCR backend.
type DocumentAIConfig struct {
	// ProjectID is the Google Cloud project where Document AI is enabled.
	ProjectID string

	// Location is the processing location (e.g., "us", "eu").
	Location string

	// ProcessorID is the Document AI OCR processor ID.
	ProcessorID string

	// Timeout is the maximum time to wait for processing. Default: 60s.
	Timeout time.Duration
}

// DocumentAIService implements Service using Google Document AI document
// text extraction. Compared to the Vision backend it handles denser layouts
// better but requires a provisioned processor.
type DocumentAIService struct {
	client *documentai.DocumentProcessorClient
	config DocumentAIConfig
}

// NewDocumentAIService creates a Document AI OCR backend with configuration
// from the environment.
// Expects: GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS
// Requires: GOOGLE_CLOUD_PROJECT, DOCUMENT_AI_PROCESSOR_ID
// Optional: GOOGLE_CLOUD_LOCATION (defaults to "us")
func NewDocumentAIService(ctx context.Context) (Service, error) {
	const op = "NewDocumentAIService"

	config := DocumentAIConfig{
		ProjectID:   os.Getenv("GOOGLE_CLOUD_PROJECT"),
		Location:    os.Getenv("GOOGLE_CLOUD_LOCATION"),
		ProcessorID: os.Getenv("DOCUMENT_AI_PROCESSOR_ID"),
		Timeout:     60 * time.Second,
	}
	if config.ProjectID == "" {
		return nil, WrapOCRError(op, ErrOCRFailed, "GOOGLE_CLOUD_PROJECT is required")
	}
	if config.ProcessorID == "" {
		return nil, WrapOCRError(op, ErrOCRFailed, "DOCUMENT_AI_PROCESSOR_ID is required")
	}
	if config.Location == "" {
		config.Location = "us"
	}

	var clientOptions []option.ClientOption
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		clientOptions = append(clientOptions, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if len(clientOptions) == 0 {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapOCRError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return &DocumentAIService{client: client, config: config}, nil
}

// NewDocumentAIServiceWithConfig creates a backend with explicit config and
// client (for testing).
func NewDocumentAIServiceWithConfig(config DocumentAIConfig, client *documentai.DocumentProcessorClient) Service {
	return &DocumentAIService{client: client, config: config}
}

// ProcessDocument extracts text from a scanned PDF document.
func (p *DocumentAIService) ProcessDocument(ctx context.Context, data io.Reader) (*Result, error) {
	const op = "ProcessDocument"
	startTime := time.Now()

	docBytes, err := io.ReadAll(data)
	if err != nil {
		return nil, WrapOCRError(op, err, "failed to read document data")
	}
	if len(docBytes) > MaxFileSizeBytes {
		return nil, WrapOCRError(op, ErrDocumentTooLarge, fmt.Sprintf("file size: %d bytes", len(docBytes)))
	}
	if len(docBytes) < 4 || string(docBytes[:4]) != "%PDF" {
		return nil, WrapOCRError(op, ErrInvalidDocument, "missing PDF header")
	}

	processCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	req := &documentaipb.ProcessRequest{
		Name: fmt.Sprintf("projects/%s/locations/%s/processors/%s",
			p.config.ProjectID, p.config.Location, p.config.ProcessorID),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  docBytes,
				MimeType: "application/pdf",
			},
		},
	}

	resp, err := p.client.ProcessDocument(processCtx, req)
	if err != nil {
		return nil, p.handleProcessingError(op, err)
	}
	if resp.Document == nil {
		return nil, WrapOCRError(op, ErrOCRFailed, "no document in response")
	}

	result, err := extractDocumentText(resp.Document)
	if err != nil {
		return nil, WrapOCRError(op, err, "failed to extract document text")
	}

	result.ProcessedAt = time.Now()
	result.ProcessingDuration = result.ProcessedAt.Sub(startTime)
	return result, nil
}

// handleProcessingError converts Document AI errors to OCR errors.
func (p *DocumentAIService) handleProcessingError(op string, err error) error {
	errStr := err.Error()
	switch {
	case strings.Contains(errStr, "PERMISSION_DENIED"):
		return WrapOCRError(op, ErrMissingCredentials, "insufficient permissions for Document AI")
	case strings.Contains(errStr, "NOT_FOUND"):
		return WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("processor not found: %s", p.config.ProcessorID))
	case strings.Contains(errStr, "INVALID_ARGUMENT"):
		return WrapOCRError(op, ErrInvalidDocument, "document format not supported or corrupted")
	case strings.Contains(errStr, "DeadlineExceeded") || strings.Contains(errStr, "context deadline exceeded"):
		return WrapOCRError(op, context.DeadlineExceeded, "processing timeout")
	case strings.Contains(errStr, "Canceled") || strings.Contains(errStr, "context canceled"):
		return WrapOCRError(op, ErrContextCanceled, "processing was canceled")
	default:
		return WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Document AI error: %v", err))
	}
}

// extractDocumentText pulls the full text plus average page-level detection
// confidence out of a processed document.
func extractDocumentText(doc *documentaipb.Document) (*Result, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return nil, ErrUnreadableDocument
	}

	var confidenceSum float32
	var confidenceCount int
	languageSet := make(map[string]bool)

	for _, page := range doc.Pages {
		if page.Layout != nil && page.Layout.Confidence > 0 {
			confidenceSum += page.Layout.Confidence
			confidenceCount++
		}
		for _, lang := range page.DetectedLanguages {
			if lang.LanguageCode != "" {
				languageSet[lang.LanguageCode] = true
			}
		}
	}

	var avgConfidence float32
	if confidenceCount > 0 {
		avgConfidence = confidenceSum / float32(confidenceCount)
	}

	var languages []string
	for lang := range languageSet {
		languages = append(languages, lang)
	}

	return &Result{
		Text:          doc.Text,
		Confidence:    avgConfidence,
		PageCount:     len(doc.Pages),
		LanguageCodes: languages,
	}, nil
}

// Close closes the underlying Document AI client.
func (p *DocumentAIService) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// NewFromEnv creates the OCR backend selected by MEDSCAN_OCR_BACKEND:
// "documentai" for Document AI, anything else (or unset) for Vision.
func NewFromEnv(ctx context.Context) (Service, error) {
	if strings.EqualFold(os.Getenv("MEDSCAN_OCR_BACKEND"), "documentai") {
		return NewDocumentAIService(ctx)
	}
	return NewGoogleVisionService(ctx)
}
