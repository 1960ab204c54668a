package extract

import (
	"regexp"
	"sort"
	"strings"

	"medscan/pkg/models"
)

const (
	// valueWindow is how many bytes after a metric alias are searched for
	// the numeric value. Lab report layouts put the value close to the
	// name; a tight window keeps values from unrelated lines out.
	valueWindow = 48
)

// numberPattern matches a candidate numeric token: at least one real digit,
// optionally surrounded by characters OCR commonly substitutes for digits.
// parseNumeric decides whether the candidate repairs to a number.
var numberPattern = regexp.MustCompile(`[OoIl|SsBZD]*[0-9][0-9OoIl|SsBZD,]*(?:\.[0-9OoIl|SsBZD]*)?`)

// unitPattern matches a unit token directly after the value: starts with a
// letter, µ, %, or / (count units like "/uL"), continues with unit-ish
// characters.
var unitPattern = regexp.MustCompile(`^[ \t]*([A-Za-zµ%/][A-Za-z0-9µ%^/]*)`)

type aliasMatch struct {
	metric *Metric
	start  int
	end    int
}

// Extract locates every vocabulary metric occurrence in the raw text and
// returns the values found after them, in document order. All occurrences of
// the same metric are retained; deduplication is the report analyzer's job.
// Candidates whose numeric token cannot be parsed or repaired are dropped.
func Extract(text string, vocab *Vocabulary) []models.ExtractedValue {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	matches := findAliases(text, vocab)

	values := make([]models.ExtractedValue, 0, len(matches))
	for _, m := range matches {
		if ev, ok := valueAfter(text, m); ok {
			values = append(values, ev)
		}
	}
	return values
}

// findAliases collects alias matches for all metrics and resolves overlaps
// in favor of the longer surface form, so "glycated hemoglobin" claims its
// span before "hemoglobin" can.
func findAliases(text string, vocab *Vocabulary) []aliasMatch {
	var all []aliasMatch
	for i := range vocab.metrics {
		for _, loc := range vocab.patterns[i].FindAllStringIndex(text, -1) {
			all = append(all, aliasMatch{metric: &vocab.metrics[i], start: loc[0], end: loc[1]})
		}
	}

	sort.Slice(all, func(i, j int) bool {
		li, lj := all[i].end-all[i].start, all[j].end-all[j].start
		if li != lj {
			return li > lj
		}
		return all[i].start < all[j].start
	})

	var kept []aliasMatch
	for _, m := range all {
		overlaps := false
		for _, k := range kept {
			if m.start < k.end && k.start < m.end {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, m)
		}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].start < kept[j].start })
	return kept
}

// valueAfter finds the first numeric token within the window after an alias
// and builds the extracted value, or reports false when no parsable number
// is there.
func valueAfter(text string, m aliasMatch) (models.ExtractedValue, bool) {
	limit := m.end + valueWindow
	if limit > len(text) {
		limit = len(text)
	}
	window := text[m.end:limit]

	loc := numberPattern.FindStringIndex(window)
	if loc == nil {
		return models.ExtractedValue{}, false
	}

	value, ok := parseNumeric(window[loc[0]:loc[1]])
	if !ok {
		return models.ExtractedValue{}, false
	}

	rawEnd := m.end + loc[1]
	unit, verified := "", false
	if u := unitPattern.FindStringSubmatch(window[loc[1]:]); u != nil {
		unit = u[1]
		rawEnd = m.end + loc[1] + len(u[0])
	}
	value, unit, verified = normalizeUnit(value, unit, m.metric)

	return models.ExtractedValue{
		MetricName:   m.metric.Canonical,
		RawText:      strings.TrimSpace(text[m.start:rawEnd]),
		Value:        value,
		Unit:         unit,
		SourceOffset: m.start,
		UnitVerified: verified,
	}, true
}

// normalizeUnit reconciles a found unit token against the metric's expected
// unit. A recognized alternate spelling verifies as-is; a unit with a known
// conversion factor is converted; anything else is kept but marked
// unverified rather than discarded. A missing unit reports the expected unit
// unverified.
func normalizeUnit(value float64, found string, m *Metric) (float64, string, bool) {
	if found == "" {
		return value, m.Unit, false
	}
	lower := strings.ToLower(strings.TrimRight(found, "."))
	if lower == strings.ToLower(m.Unit) {
		return value, m.Unit, true
	}
	for _, alias := range m.UnitAliases {
		if lower == alias {
			return value, m.Unit, true
		}
	}
	if factor, ok := m.Conversions[lower]; ok {
		return value * factor, m.Unit, true
	}
	return value, found, false
}
