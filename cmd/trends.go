package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"medscan/internal/config"
	"medscan/internal/logger"
	"medscan/internal/refrange"
	"medscan/internal/timeline"
	"medscan/pkg/models"
)

var trendsCmd = &cobra.Command{
	Use:   "trends [analysis-dir]",
	Short: "Compute per-metric trends over a patient's stored analyses",
	Long: `Read stored report analyses (JSON files produced by "medscan analyze")
from a directory, select one patient's documents, order them by capture
time, and compute a trend summary per metric: direction relative to the
reference range midpoint and a risk flag for concerning histories.

Trends are recomputed from scratch on every invocation; the same stored
history always yields the same result.`,
	Example: `  # Trends for one patient over saved analyses
  medscan trends ./analyses --patient p-123

  # Wider trend window
  medscan trends ./analyses --patient p-123 --window 5`,
	Args: cobra.ExactArgs(1),
	RunE: runTrends,
}

func init() {
	rootCmd.AddCommand(trendsCmd)

	trendsCmd.Flags().String("patient", "", "Patient identifier (required)")
	trendsCmd.Flags().Int("window", 0, "Trend window size (default: from configuration)")
	trendsCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")

	trendsCmd.MarkFlagRequired("patient")
}

func runTrends(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("trends")

	patientID, _ := cmd.Flags().GetString("patient")
	window, _ := cmd.Flags().GetInt("window")
	outputPath, _ := cmd.Flags().GetString("output")

	dir := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	table, err := refrange.Load(cfg.RangesFile)
	if err != nil {
		return fmt.Errorf("failed to load reference ranges: %w", err)
	}

	analyses, err := loadAnalyses(dir, patientID)
	if err != nil {
		return err
	}
	if len(analyses) == 0 {
		return fmt.Errorf("no stored analyses for patient %s in %s", patientID, dir)
	}

	opts := timeline.Options{
		Window:         cfg.TrendWindow,
		NoiseTolerance: cfg.TrendNoiseTolerance,
	}
	if window > 0 {
		opts.Window = window
	}

	summaries := timeline.Trends(analyses, table, opts)

	log.Info().
		Str("patient_id", patientID).
		Int("analyses", len(analyses)).
		Int("metrics", len(summaries)).
		Msg("Trend computation completed")

	return writeJSON(summaries, outputPath)
}

// loadAnalyses reads every *.json report analysis in dir and keeps the
// given patient's. Files that do not parse as an analysis are skipped with
// a warning rather than failing the run.
func loadAnalyses(dir, patientID string) ([]models.ReportAnalysis, error) {
	log := logger.WithComponent("trends")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis directory: %w", err)
	}

	var analyses []models.ReportAnalysis
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		var ra models.ReportAnalysis
		if err := json.Unmarshal(data, &ra); err != nil || ra.DocumentID == "" {
			log.Warn().
				Str("file", path).
				Msg("Skipping file that is not a report analysis")
			continue
		}
		if ra.PatientID == patientID {
			analyses = append(analyses, ra)
		}
	}
	return analyses, nil
}
