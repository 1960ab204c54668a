package report

import (
	"regexp"

	"medscan/pkg/models"
)

// Textual cues for document-category inference. Patterns are matched
// case-insensitively on word boundaries against the full raw text.
var (
	prescriptionCues = regexp.MustCompile(`(?i)\b(?:tablet|tablets|tab|capsule|capsules|cap|syrup|ointment|injection|dose|dosage|rx|sig|refill|once daily|twice daily|thrice daily|every \d+ hours?|at bedtime|before food|after food|tds|tid|bid|qid|prn)\b`)

	dischargeCues = regexp.MustCompile(`(?i)\b(?:discharge summary|discharged|date of discharge|condition on discharge|admitted|admission|date of admission|hospital course|final diagnosis|diagnosis at discharge)\b`)
)

// minLabMetrics is how many distinct recognized metrics make a document a
// lab result in the absence of stronger cues.
const minLabMetrics = 2

// inferCategory guesses the document type from textual cues. Ties resolve
// by fixed priority: Prescription, then DischargeSummary, then LabResult,
// then Unknown.
func inferCategory(text string, recognizedMetrics int) models.Category {
	switch {
	case prescriptionCues.MatchString(text):
		return models.CategoryPrescription
	case dischargeCues.MatchString(text):
		return models.CategoryDischargeSummary
	case recognizedMetrics >= minLabMetrics:
		return models.CategoryLabResult
	default:
		return models.CategoryUnknown
	}
}
