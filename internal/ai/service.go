// Package ai is the boundary to the AI text-generation collaborator: given
// a prompt it returns prose. The analysis core never calls it; only the
// summarize command does, to turn a structured analysis into patient-facing
// text.
package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"medscan/pkg/models"
)

// TextGenerator is the text-generation collaborator contract.
type TextGenerator interface {
	// Generate returns prose for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// SummaryPrompt renders a report analysis into the prompt used for
// patient-facing summaries. The structured analysis rides along as JSON so
// the model sees exact values and severities rather than re-parsing text.
func SummaryPrompt(analysis *models.ReportAnalysis) (string, error) {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling analysis: %w", err)
	}

	return fmt.Sprintf(`You are a medical report assistant. Summarize the following
analyzed health document for the patient in plain language.

Rules:
- Mention every finding with its value and whether it is normal, low, or high.
- Call out critical findings first.
- Do not invent values that are not in the data.
- Close with a reminder to discuss results with a doctor.

Analyzed document (JSON):
%s`, data), nil
}
