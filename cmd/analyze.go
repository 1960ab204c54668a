package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"medscan/internal/config"
	"medscan/internal/extract"
	"medscan/internal/logger"
	"medscan/internal/ocr"
	"medscan/internal/refrange"
	"medscan/internal/report"
	"medscan/pkg/models"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [document-file]",
	Short: "Extract and classify health metrics from a scanned document",
	Long: `Analyze a scanned medical document: run OCR, extract known health
metrics from the text, classify each value against its reference range,
and infer the document category.

The input is a PDF processed through the configured OCR backend. With
--text the input is treated as already-OCRed raw text and no Google
credentials are needed.

Required environment variables (PDF input only):
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string`,
	Example: `  # Analyze a scanned lab report
  medscan analyze report.pdf --patient p-123

  # Analyze raw OCR text, save the analysis
  medscan analyze report.txt --text --patient p-123 -o analysis.json

  # Use demographic-specific reference ranges
  medscan analyze report.pdf --patient p-123 --sex F --age 34`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("patient", "", "Patient identifier (required)")
	analyzeCmd.Flags().String("document", "", "Document identifier (default: generated)")
	analyzeCmd.Flags().String("captured", "", "Capture timestamp, RFC 3339 (default: now)")
	analyzeCmd.Flags().Bool("text", false, "Treat input as raw OCR text instead of a PDF")
	analyzeCmd.Flags().Float32("confidence", 1.0, "OCR confidence to assume with --text")
	analyzeCmd.Flags().String("sex", "", "Patient sex (M/F) for demographic reference ranges")
	analyzeCmd.Flags().Int("age", -1, "Patient age in years for demographic reference ranges")
	analyzeCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")

	analyzeCmd.MarkFlagRequired("patient")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("analyze")

	patientID, _ := cmd.Flags().GetString("patient")
	documentID, _ := cmd.Flags().GetString("document")
	capturedStr, _ := cmd.Flags().GetString("captured")
	textInput, _ := cmd.Flags().GetBool("text")
	confidence, _ := cmd.Flags().GetFloat32("confidence")
	sex, _ := cmd.Flags().GetString("sex")
	age, _ := cmd.Flags().GetInt("age")
	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	inputPath := args[0]

	if documentID == "" {
		documentID = uuid.NewString()
	}
	capturedAt := time.Now()
	if capturedStr != "" {
		t, err := time.Parse(time.RFC3339, capturedStr)
		if err != nil {
			return fmt.Errorf("invalid --captured timestamp: %w", err)
		}
		capturedAt = t
	}

	log.Info().
		Str("file", inputPath).
		Str("patient_id", patientID).
		Str("document_id", documentID).
		Bool("text_input", textInput).
		Msg("Starting document analysis")

	analyzer, err := buildAnalyzer()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(timeoutSecs, log)
	defer cancel()

	demo := refrange.Demographics{Sex: sex, Age: age}

	var analysis *models.ReportAnalysis
	if textInput {
		raw, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("failed to read text file: %w", err)
		}
		analysis, err = analyzer.Analyze(report.Input{
			DocumentID:   documentID,
			PatientID:    patientID,
			CapturedAt:   capturedAt,
			RawText:      string(raw),
			Confidence:   confidence,
			Demographics: demo,
		})
		if err != nil {
			return handleAnalysisError(err, log)
		}
	} else {
		svc, err := ocr.NewFromEnv(ctx)
		if err != nil {
			return fmt.Errorf("failed to create OCR service: %w", err)
		}
		f, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("failed to open document file: %w", err)
		}
		defer f.Close()

		analysis, err = analyzer.AnalyzeDocument(ctx, svc, f, report.Document{
			DocumentID:   documentID,
			PatientID:    patientID,
			CapturedAt:   capturedAt,
			Demographics: demo,
		})
		if err != nil {
			return handleAnalysisError(err, log)
		}
	}

	log.Info().
		Str("category", string(analysis.Category)).
		Int("findings", len(analysis.Findings)).
		Bool("low_confidence", analysis.LowConfidence).
		Msg("Analysis completed")

	return writeJSON(analysis, outputPath)
}

// buildAnalyzer wires the vocabulary, reference range table, and thresholds
// from configuration.
func buildAnalyzer() (*report.Analyzer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	table, err := refrange.Load(cfg.RangesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference ranges: %w", err)
	}

	return report.NewAnalyzer(extract.DefaultVocabulary(), table, report.Options{
		CriticalMargin:         cfg.CriticalMargin,
		ConfidenceFloor:        cfg.ConfidenceFloor,
		LowConfidenceThreshold: cfg.LowConfidenceThreshold,
	}), nil
}

// signalContext creates a timeout context canceled on SIGINT/SIGTERM.
func signalContext(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// handleAnalysisError maps pipeline failures to user-facing messages,
// keeping document-level input errors distinct from upstream OCR failures.
func handleAnalysisError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Document analysis failed")

	var upstream *report.UpstreamError
	switch {
	case errors.Is(err, report.ErrEmptyText):
		return fmt.Errorf("document has no text to analyze")
	case errors.Is(err, report.ErrConfidenceTooLow):
		return fmt.Errorf("OCR confidence is below the configured floor; rescan the document or lower MEDSCAN_CONFIDENCE_FLOOR")
	case errors.As(err, &upstream):
		switch {
		case errors.Is(err, ocr.ErrUnreadableDocument):
			return fmt.Errorf("no readable text found in the document")
		case errors.Is(err, ocr.ErrDocumentTooLarge):
			return fmt.Errorf("document is too large (maximum 20MB)")
		case errors.Is(err, ocr.ErrTooManyPages):
			return fmt.Errorf("document has too many pages (maximum 5 for synchronous OCR)")
		case errors.Is(err, ocr.ErrInvalidDocument):
			return fmt.Errorf("invalid or corrupted document file")
		}
		return fmt.Errorf("OCR failed: %w", err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("analysis timed out; try increasing --timeout")
	default:
		return fmt.Errorf("analysis failed: %w", err)
	}
}

// writeJSON marshals v and writes it to the given path, or stdout when the
// path is empty.
func writeJSON(v any, outputPath string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if outputPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
