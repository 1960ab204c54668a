// Package timeline aggregates a patient's analyzed documents into per-metric
// chronological histories and computes trend direction and risk flags.
//
// The aggregator is a pure read-side computation: it derives everything from
// the snapshot of analyses handed to it and keeps no state between calls, so
// the same stored history always yields the same trends.
package timeline

import (
	"sort"
	"time"

	"medscan/internal/refrange"
	"medscan/pkg/models"
)

// Direction is the per-metric trend classification.
type Direction string

const (
	DirectionImproving        Direction = "IMPROVING"
	DirectionWorsening        Direction = "WORSENING"
	DirectionStable           Direction = "STABLE"
	DirectionInsufficientData Direction = "INSUFFICIENT_DATA"
)

// TimelinePoint is one metric reading placed on the patient's timeline.
// A read-only projection of a finding plus its document's capture time.
type TimelinePoint struct {
	MetricName string          `json:"metric_name"`
	Timestamp  time.Time       `json:"timestamp"`
	Value      float64         `json:"value"`
	Severity   models.Severity `json:"severity"`
}

// TrendSummary is the computed trend for one metric of one patient.
type TrendSummary struct {
	MetricName string `json:"metric_name"`

	Direction Direction `json:"direction"`

	// RecentPoints are the points the direction was judged over, oldest
	// first.
	RecentPoints []TimelinePoint `json:"recent_points"`

	// RiskFlag marks histories that warrant attention: consecutive critical
	// readings, or a worsening trend on an already-abnormal latest value.
	RiskFlag bool `json:"risk_flag"`
}

// Options holds the aggregator's tunables.
type Options struct {
	// Window is how many of the most recent usable points the direction is
	// computed over.
	Window int

	// NoiseTolerance bounds the fitted change, as a fraction of the
	// reference range width, inside which the trend counts as Stable.
	NoiseTolerance float64
}

// DefaultOptions returns the aggregator defaults.
func DefaultOptions() Options {
	return Options{
		Window:         3,
		NoiseTolerance: 0.05,
	}
}

// Trends computes one TrendSummary per metric found in the patient's
// analyses. Analyses may arrive in any order; points are sorted by their
// document's capture time. The result is sorted by metric name.
func Trends(analyses []models.ReportAnalysis, table *refrange.Table, opts Options) []TrendSummary {
	if opts.Window < 2 {
		opts.Window = DefaultOptions().Window
	}

	byMetric := make(map[string][]TimelinePoint)
	for _, ra := range analyses {
		for _, f := range ra.Findings {
			byMetric[f.MetricName] = append(byMetric[f.MetricName], TimelinePoint{
				MetricName: f.MetricName,
				Timestamp:  ra.CapturedAt,
				Value:      f.Value,
				Severity:   f.Severity,
			})
		}
	}

	summaries := make([]TrendSummary, 0, len(byMetric))
	for metric, points := range byMetric {
		sort.SliceStable(points, func(i, j int) bool {
			return points[i].Timestamp.Before(points[j].Timestamp)
		})
		summaries = append(summaries, summarize(metric, points, table, opts))
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].MetricName < summaries[j].MetricName
	})
	return summaries
}

// summarize computes direction and risk for one metric's ordered points.
func summarize(metric string, points []TimelinePoint, table *refrange.Table, opts Options) TrendSummary {
	// Unknown-severity points carry no usable range context for direction,
	// but they still count as observations for risk flagging.
	usable := make([]TimelinePoint, 0, len(points))
	for _, p := range points {
		if p.Severity != models.SeverityUnknown {
			usable = append(usable, p)
		}
	}
	if len(usable) > opts.Window {
		usable = usable[len(usable)-opts.Window:]
	}

	s := TrendSummary{
		MetricName:   metric,
		RecentPoints: usable,
		Direction:    DirectionInsufficientData,
	}

	r, haveRange := table.Lookup(metric)
	if len(usable) >= 2 && haveRange {
		s.Direction = direction(usable, r, opts.NoiseTolerance)
	}

	s.RiskFlag = riskFlag(points, s.Direction)
	return s
}

// direction fits a least-squares line over the points and judges the fitted
// change across the window against the reference range midpoint: movement
// toward the midpoint is Improving, away is Worsening, and a change within
// the noise tolerance of the range width is Stable.
func direction(points []TimelinePoint, r models.ReferenceRange, noiseTolerance float64) Direction {
	slope := fitSlope(points)

	first, last := points[0], points[len(points)-1]
	change := slope * last.Timestamp.Sub(first.Timestamp).Seconds()

	tolerance := noiseTolerance * r.Width()
	if change >= -tolerance && change <= tolerance {
		return DirectionStable
	}

	// Moving up from below the midpoint, or down from above it, closes the
	// gap to normal.
	mean := 0.0
	for _, p := range points {
		mean += p.Value
	}
	mean /= float64(len(points))

	towardMidpoint := (mean < r.Midpoint() && change > 0) || (mean > r.Midpoint() && change < 0)
	if towardMidpoint {
		return DirectionImproving
	}
	return DirectionWorsening
}

// fitSlope computes the least-squares slope of value over time, in value
// units per second. Returns 0 when all points share a timestamp.
func fitSlope(points []TimelinePoint) float64 {
	n := float64(len(points))
	base := points[0].Timestamp

	var sumT, sumV, sumTT, sumTV float64
	for _, p := range points {
		t := p.Timestamp.Sub(base).Seconds()
		sumT += t
		sumV += p.Value
		sumTT += t * t
		sumTV += t * p.Value
	}

	denom := n*sumTT - sumT*sumT
	if denom == 0 {
		return 0
	}
	return (n*sumTV - sumT*sumV) / denom
}

// riskFlag applies the risk rules over the full point history (Unknown
// severities included): the two most recent points both critical, or a
// worsening trend while the latest point is already outside its range.
func riskFlag(points []TimelinePoint, dir Direction) bool {
	if len(points) >= 2 {
		a, b := points[len(points)-2], points[len(points)-1]
		if a.Severity.IsCritical() && b.Severity.IsCritical() {
			return true
		}
	}
	if dir == DirectionWorsening && len(points) > 0 {
		if points[len(points)-1].Severity.IsAbnormal() {
			return true
		}
	}
	return false
}
