package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"medscan/internal/ai"
	"medscan/internal/logger"
	"medscan/pkg/models"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [analysis-file]",
	Short: "Generate a plain-language summary of an analyzed document",
	Long: `Send a stored report analysis to the text-generation service and print
a plain-language summary of its findings.

Requires OPENAI_API_KEY. The analysis pipeline itself never calls the
text-generation service; this command is the only consumer.`,
	Example: `  medscan summarize analysis.json
  medscan summarize analysis.json -o summary.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	summarizeCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	summarizeCmd.Flags().Int("timeout", 120, "Generation timeout in seconds")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("summarize")

	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read analysis file: %w", err)
	}
	var analysis models.ReportAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return fmt.Errorf("failed to parse analysis file: %w", err)
	}

	prompt, err := ai.SummaryPrompt(&analysis)
	if err != nil {
		return err
	}

	gen, err := ai.NewOpenAIGenerator()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(timeoutSecs, log)
	defer cancel()

	summary, err := gen.Generate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("summary generation failed: %w", err)
	}

	log.Info().
		Str("document_id", analysis.DocumentID).
		Int("summary_len", len(summary)).
		Msg("Summary generated")

	if outputPath == "" {
		fmt.Println(summary)
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(summary+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}
	return nil
}
