// Package extract turns raw OCR text from medical documents into typed
// metric readings.
//
// Extraction works from a static vocabulary: each canonical metric carries a
// set of accepted surface forms (names, abbreviations), its expected unit,
// accepted unit spellings, and known unit conversion factors. For every alias
// occurrence the extractor looks for the first numeric token within a bounded
// window after the alias, repairs common OCR digit confusions, and normalizes
// the unit.
//
// Extraction is a pure function of the input text and vocabulary: no I/O, no
// side effects, safe for concurrent use.
package extract

import (
	"regexp"
	"strings"
)

// Metric describes how one canonical metric is recognized in raw text.
type Metric struct {
	// Canonical is the metric key used throughout the system (e.g. "HGB").
	Canonical string

	// Aliases are accepted surface forms, matched case-insensitively on
	// word boundaries. Longer aliases win over shorter ones on overlap.
	Aliases []string

	// Unit is the expected unit, as keyed in the reference range table.
	Unit string

	// UnitAliases are additional spellings that count as the expected unit.
	// Compared lowercase.
	UnitAliases []string

	// Conversions maps a lowercase found-unit to the factor that converts a
	// value in that unit into the expected unit.
	Conversions map[string]float64
}

// Vocabulary is a compiled set of metric recognition patterns. Build one via
// NewVocabulary or use DefaultVocabulary; it is immutable afterwards.
type Vocabulary struct {
	metrics  []Metric
	patterns []*regexp.Regexp
	byName   map[string]*Metric
}

// NewVocabulary compiles recognition patterns for the given metrics.
func NewVocabulary(metrics []Metric) *Vocabulary {
	v := &Vocabulary{
		metrics:  metrics,
		patterns: make([]*regexp.Regexp, len(metrics)),
		byName:   make(map[string]*Metric, len(metrics)),
	}
	for i := range v.metrics {
		m := &v.metrics[i]
		v.patterns[i] = compileAliases(m.Aliases)
		v.byName[m.Canonical] = m
	}
	return v
}

// Metric returns the vocabulary entry for a canonical metric name.
func (v *Vocabulary) Metric(canonical string) (Metric, bool) {
	m, ok := v.byName[canonical]
	if !ok {
		return Metric{}, false
	}
	return *m, true
}

// Len returns the number of metrics in the vocabulary.
func (v *Vocabulary) Len() int {
	return len(v.metrics)
}

// compileAliases builds one case-insensitive pattern matching any alias on
// word boundaries. Aliases ending in a non-word character (e.g. "K+") get no
// trailing boundary, since \b is undefined after punctuation.
func compileAliases(aliases []string) *regexp.Regexp {
	parts := make([]string, 0, len(aliases))
	for _, a := range aliases {
		p := regexp.QuoteMeta(a)
		if isWordChar(a[len(a)-1]) {
			p += `\b`
		}
		parts = append(parts, p)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(parts, "|") + `)`)
}

func isWordChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// DefaultVocabulary returns the built-in vocabulary covering the metrics of
// the embedded reference range table.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(defaultMetrics)
}

var defaultMetrics = []Metric{
	{
		Canonical: "HGB",
		Aliases:   []string{"hemoglobin", "haemoglobin", "hgb", "hb"},
		Unit:      "g/dL",
		UnitAliases: []string{"gm/dl", "g%", "gm%"},
		Conversions: map[string]float64{"g/l": 0.1},
	},
	{
		Canonical: "WBC",
		Aliases:   []string{"total leukocyte count", "white blood cells", "white blood cell count", "leukocytes", "wbc", "tlc"},
		Unit:      "K/uL",
		UnitAliases: []string{"x10^3/ul", "10^3/ul", "thou/ul", "thousand/cumm"},
		Conversions: map[string]float64{"/ul": 0.001, "cells/ul": 0.001, "/cumm": 0.001},
	},
	{
		Canonical: "PLT",
		Aliases:   []string{"platelet count", "platelets", "plt"},
		Unit:      "K/uL",
		UnitAliases: []string{"x10^3/ul", "10^3/ul", "lakhs/cumm"},
		Conversions: map[string]float64{"/ul": 0.001, "/cumm": 0.001},
	},
	{
		Canonical: "GLU",
		Aliases:   []string{"fasting blood sugar", "fasting glucose", "blood glucose", "blood sugar", "glucose", "fbs", "rbs", "glu"},
		Unit:      "mg/dL",
		UnitAliases: []string{"mg%"},
		Conversions: map[string]float64{"mmol/l": 18.0182},
	},
	{
		Canonical: "HBA1C",
		Aliases:   []string{"glycated hemoglobin", "glycosylated hemoglobin", "hba1c", "hb a1c", "a1c"},
		Unit:      "%",
	},
	{
		Canonical: "CHOL",
		Aliases:   []string{"total cholesterol", "cholesterol", "chol"},
		Unit:      "mg/dL",
		Conversions: map[string]float64{"mmol/l": 38.67},
	},
	{
		Canonical: "LDL",
		Aliases:   []string{"ldl cholesterol", "ldl-c", "ldl"},
		Unit:      "mg/dL",
		Conversions: map[string]float64{"mmol/l": 38.67},
	},
	{
		Canonical: "HDL",
		Aliases:   []string{"hdl cholesterol", "hdl-c", "hdl"},
		Unit:      "mg/dL",
		Conversions: map[string]float64{"mmol/l": 38.67},
	},
	{
		Canonical: "TG",
		Aliases:   []string{"triglycerides", "triglyceride", "tg"},
		Unit:      "mg/dL",
		Conversions: map[string]float64{"mmol/l": 88.57},
	},
	{
		Canonical: "CREA",
		Aliases:   []string{"serum creatinine", "creatinine", "crea"},
		Unit:      "mg/dL",
		Conversions: map[string]float64{"umol/l": 0.0113, "µmol/l": 0.0113},
	},
	{
		Canonical: "TSH",
		Aliases:   []string{"thyroid stimulating hormone", "tsh"},
		Unit:      "mIU/L",
		UnitAliases: []string{"uiu/ml", "µiu/ml"},
	},
	{
		Canonical: "ESR",
		Aliases:   []string{"erythrocyte sedimentation rate", "sed rate", "esr"},
		Unit:      "mm/hr",
		UnitAliases: []string{"mm/h", "mm/1st hr"},
	},
	{
		Canonical: "NA",
		Aliases:   []string{"sodium", "serum sodium", "na+"},
		Unit:      "mmol/L",
		UnitAliases: []string{"meq/l"},
	},
	{
		Canonical: "K",
		Aliases:   []string{"potassium", "serum potassium", "k+"},
		Unit:      "mmol/L",
		UnitAliases: []string{"meq/l"},
	},
}
