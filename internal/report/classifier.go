// Package report classifies extracted health measurements against reference
// ranges and assembles per-document analyses.
//
// Classification is a total, pure function: every extracted value yields a
// finding, with severity Unknown standing in when no reference range exists
// for the metric. The analyzer orchestrates extraction, deduplication,
// classification, and document-category inference for one document's OCR
// text; it holds no state between calls, so concurrent analyses of
// different documents never contend.
package report

import (
	"medscan/internal/refrange"
	"medscan/pkg/models"
)

// DefaultCriticalMargin is the fraction by which a value must exceed its
// bound, relative to the bound, to classify as critical rather than merely
// low or high. A reference range can override it per metric.
const DefaultCriticalMargin = 0.25

// Classify builds a finding from one extracted value. The reference range is
// resolved from the table using the canonical metric name and the given
// demographics; a missing range yields severity Unknown and no range on the
// finding. Never fails.
func Classify(ev models.ExtractedValue, table *refrange.Table, demo refrange.Demographics, criticalMargin float64) models.Finding {
	f := models.Finding{
		MetricName:   ev.MetricName,
		Value:        ev.Value,
		Unit:         ev.Unit,
		SourceOffset: ev.SourceOffset,
		UnitVerified: ev.UnitVerified,
	}

	r, ok := table.LookupFor(ev.MetricName, demo)
	if !ok {
		f.Severity = models.SeverityUnknown
		return f
	}

	margin := criticalMargin
	if r.CriticalMargin != nil {
		margin = *r.CriticalMargin
	}

	f.Severity = severity(ev.Value, r, margin)
	f.ReferenceRange = &r
	return f
}

// severity compares a value to its range. Bounds are inclusive: a value
// exactly at a bound is Normal. Beyond a bound, the deviation fraction
// relative to that bound decides between the plain and critical label.
func severity(value float64, r models.ReferenceRange, margin float64) models.Severity {
	switch {
	case value < r.Low:
		if r.Low > 0 && (r.Low-value)/r.Low > margin {
			return models.SeverityCriticalLow
		}
		return models.SeverityLow
	case value > r.High:
		if r.High > 0 && (value-r.High)/r.High > margin {
			return models.SeverityCriticalHigh
		}
		return models.SeverityHigh
	default:
		return models.SeverityNormal
	}
}
