package models

import "time"

// Severity classifies how far a measured value deviates from its reference range.
type Severity string

const (
	SeverityNormal       Severity = "NORMAL"
	SeverityLow          Severity = "LOW"
	SeverityHigh         Severity = "HIGH"
	SeverityCriticalLow  Severity = "CRITICAL_LOW"
	SeverityCriticalHigh Severity = "CRITICAL_HIGH"
	// SeverityUnknown means no reference range was available for the metric.
	// It is a valid classification outcome, not an error.
	SeverityUnknown Severity = "UNKNOWN"
)

// IsCritical reports whether the severity is one of the critical classifications.
func (s Severity) IsCritical() bool {
	return s == SeverityCriticalLow || s == SeverityCriticalHigh
}

// IsAbnormal reports whether the severity indicates a value outside its
// reference range (Unknown does not count as abnormal).
func (s Severity) IsAbnormal() bool {
	switch s {
	case SeverityLow, SeverityHigh, SeverityCriticalLow, SeverityCriticalHigh:
		return true
	}
	return false
}

// Category is the document-type guess produced by report analysis.
type Category string

const (
	CategoryLabResult        Category = "LAB_RESULT"
	CategoryPrescription     Category = "PRESCRIPTION"
	CategoryDischargeSummary Category = "DISCHARGE_SUMMARY"
	CategoryUnknown          Category = "UNKNOWN"
)

// ExtractedValue is one metric reading located in raw OCR text.
// It is transient: extraction produces it, analysis consumes it.
type ExtractedValue struct {
	// MetricName is the canonical metric key (e.g. "HGB"), never a surface alias.
	MetricName string `json:"metric_name"`

	// RawText is the matched span as it appeared in the source text,
	// kept for traceability and debugging of OCR repairs.
	RawText string `json:"raw_text"`

	// Value is the parsed numeric value, after any OCR digit repair
	// and unit conversion.
	Value float64 `json:"value"`

	// Unit is the unit the value is expressed in after normalization.
	Unit string `json:"unit"`

	// SourceOffset is the byte offset of the metric alias in the raw text.
	SourceOffset int `json:"source_offset"`

	// UnitVerified is false when no unit token was found near the value, or
	// the found unit did not match the expected unit and no conversion was
	// known. The value is retained either way.
	UnitVerified bool `json:"unit_verified"`
}

// RangeVariant narrows a reference range for a demographic group.
// Bounds left nil inherit the parent range's bounds.
type RangeVariant struct {
	// Sex is "M", "F", or empty for any.
	Sex string `json:"sex,omitempty"`

	// AgeMin/AgeMax bound the applicable age in years, inclusive.
	// Nil means unbounded on that side.
	AgeMin *int `json:"age_min,omitempty"`
	AgeMax *int `json:"age_max,omitempty"`

	Low  *float64 `json:"low,omitempty"`
	High *float64 `json:"high,omitempty"`
}

// ReferenceRange is the normal interval for a metric. Loaded once at process
// start and treated as read-only thereafter.
type ReferenceRange struct {
	// Metric is the canonical metric key.
	Metric string `json:"metric"`

	// Unit is the unit the bounds are expressed in.
	Unit string `json:"unit"`

	Low  float64 `json:"low"`
	High float64 `json:"high"`

	// CriticalMargin optionally overrides the global critical-margin
	// fraction for this metric. Nil means use the configured global value.
	CriticalMargin *float64 `json:"critical_margin,omitempty"`

	// Variants optionally refine the bounds per demographic group. The
	// first matching variant wins.
	Variants []RangeVariant `json:"variants,omitempty"`
}

// Midpoint returns the center of the range.
func (r ReferenceRange) Midpoint() float64 {
	return (r.Low + r.High) / 2
}

// Width returns the size of the range interval.
func (r ReferenceRange) Width() float64 {
	return r.High - r.Low
}

// Finding is one classified, metric-attributed value from a document.
type Finding struct {
	MetricName string   `json:"metric_name"`
	Value      float64  `json:"value"`
	Unit       string   `json:"unit"`
	Severity   Severity `json:"severity"`

	// ReferenceRange is the range the severity was judged against.
	// Nil when Severity is Unknown.
	ReferenceRange *ReferenceRange `json:"reference_range,omitempty"`

	// SourceOffset carries through the extraction position for traceability.
	SourceOffset int `json:"source_offset"`

	// UnitVerified carries through from extraction.
	UnitVerified bool `json:"unit_verified"`
}

// ReportAnalysis is the structured result of analyzing one document.
// It is owned by its source document and replaced wholesale on reprocess,
// never mutated in place.
type ReportAnalysis struct {
	DocumentID string    `json:"document_id"`
	PatientID  string    `json:"patient_id"`
	CapturedAt time.Time `json:"captured_at"`

	Category Category `json:"category"`

	// Findings are ordered by source offset; one per metric, the first
	// occurrence in the document being authoritative.
	Findings []Finding `json:"findings"`

	// DuplicateValues holds later occurrences of metrics already present in
	// Findings (reports often repeat a value in a summary line).
	DuplicateValues []ExtractedValue `json:"duplicate_values,omitempty"`

	// OCRConfidence is the confidence reported by the OCR collaborator (0-1).
	OCRConfidence float32 `json:"ocr_confidence"`

	// LowConfidence is set when OCRConfidence fell below the configured flag
	// threshold. Analysis still ran; consumers may discount the result.
	LowConfidence bool `json:"low_confidence,omitempty"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}

// FindingFor returns the finding for a canonical metric name, if present.
func (ra *ReportAnalysis) FindingFor(metric string) (Finding, bool) {
	for _, f := range ra.Findings {
		if f.MetricName == metric {
			return f, true
		}
	}
	return Finding{}, false
}
