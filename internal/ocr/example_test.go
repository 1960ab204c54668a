package ocr_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"medscan/internal/ocr"
)

// Example demonstrates basic usage of the OCR service.
func Example() {
	// Load .env file (using godotenv in main)
	// This should be done in your main() function:
	//
	// if err := godotenv.Load(); err != nil {
	//     log.Printf("Warning: Could not load .env file: %v", err)
	// }

	// Create context with timeout for OCR processing
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Create service - credentials handled internally from environment
	svc, err := ocr.NewGoogleVisionService(ctx)
	if err != nil {
		log.Fatalf("Failed to create OCR service: %v", err)
	}

	// Open scanned report
	pdfFile, err := os.Open("scanned_lab_report.pdf")
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	defer pdfFile.Close()

	// Process the document
	result, err := svc.ProcessDocument(ctx, pdfFile)
	if err != nil {
		log.Fatalf("Failed to process document: %v", err)
	}

	fmt.Printf("OCR Results:\n")
	fmt.Printf("  Pages processed: %d\n", result.PageCount)
	fmt.Printf("  Confidence: %.2f%%\n", result.Confidence*100)
	fmt.Printf("  Languages: %s\n", strings.Join(result.LanguageCodes, ", "))
	fmt.Printf("  Processing time: %v\n", result.ProcessingDuration)
	fmt.Printf("\nExtracted text:\n%s\n", result.Text)
}
