package extract

import (
	"testing"
)

func TestExtract_BasicLabLine(t *testing.T) {
	vocab := DefaultVocabulary()

	values := Extract("Hemoglobin: 9.2 g/dL (Normal: 13.5-17.5)", vocab)
	if len(values) != 1 {
		t.Fatalf("expected 1 value, got %d: %+v", len(values), values)
	}

	v := values[0]
	if v.MetricName != "HGB" {
		t.Errorf("expected metric HGB, got %s", v.MetricName)
	}
	if v.Value != 9.2 {
		t.Errorf("expected value 9.2, got %g", v.Value)
	}
	if v.Unit != "g/dL" {
		t.Errorf("expected unit g/dL, got %s", v.Unit)
	}
	if !v.UnitVerified {
		t.Error("expected unit to be verified")
	}
	if v.SourceOffset != 0 {
		t.Errorf("expected source offset 0, got %d", v.SourceOffset)
	}
}

func TestExtract_EmptyText(t *testing.T) {
	vocab := DefaultVocabulary()

	if values := Extract("", vocab); len(values) != 0 {
		t.Errorf("expected no values for empty text, got %d", len(values))
	}
	if values := Extract("   \n\t  ", vocab); len(values) != 0 {
		t.Errorf("expected no values for blank text, got %d", len(values))
	}
}

func TestExtract_OCRDigitRepair(t *testing.T) {
	vocab := DefaultVocabulary()

	values := Extract("Glucose: l20 mg/dL", vocab)
	if len(values) != 1 {
		t.Fatalf("expected 1 value, got %d", len(values))
	}
	if values[0].Value != 120 {
		t.Errorf("expected repaired value 120, got %g", values[0].Value)
	}
}

func TestExtract_UnrepairableCandidateDropped(t *testing.T) {
	vocab := DefaultVocabulary()

	// "low" has no digits; the candidate must be dropped, not repaired to a
	// number and not panic.
	values := Extract("Hemoglobin: low", vocab)
	if len(values) != 0 {
		t.Errorf("expected candidate to be dropped, got %+v", values)
	}
}

func TestExtract_UnitConversion(t *testing.T) {
	vocab := DefaultVocabulary()

	values := Extract("Hemoglobin 140 g/L", vocab)
	if len(values) != 1 {
		t.Fatalf("expected 1 value, got %d", len(values))
	}
	if values[0].Value != 14 {
		t.Errorf("expected converted value 14, got %g", values[0].Value)
	}
	if values[0].Unit != "g/dL" {
		t.Errorf("expected unit g/dL after conversion, got %s", values[0].Unit)
	}
	if !values[0].UnitVerified {
		t.Error("expected converted unit to count as verified")
	}
}

func TestExtract_UnknownUnitKeptUnverified(t *testing.T) {
	vocab := DefaultVocabulary()

	values := Extract("Hemoglobin: 13.9 units", vocab)
	if len(values) != 1 {
		t.Fatalf("expected 1 value, got %d", len(values))
	}
	if values[0].UnitVerified {
		t.Error("expected mismatched unit to be unverified")
	}
	if values[0].Unit != "units" {
		t.Errorf("expected found unit to be kept, got %s", values[0].Unit)
	}
	if values[0].Value != 13.9 {
		t.Errorf("expected value 13.9, got %g", values[0].Value)
	}
}

func TestExtract_MissingUnitAssumesExpectedUnverified(t *testing.T) {
	vocab := DefaultVocabulary()

	values := Extract("Sodium 140\nPotassium 4.2", vocab)
	if len(values) != 2 {
		t.Fatalf("expected 2 values, got %d: %+v", len(values), values)
	}
	for _, v := range values {
		if v.UnitVerified {
			t.Errorf("%s: expected missing unit to be unverified", v.MetricName)
		}
	}
	if values[0].Unit != "mmol/L" || values[1].Unit != "mmol/L" {
		t.Errorf("expected expected-unit fallback, got %s / %s", values[0].Unit, values[1].Unit)
	}
}

func TestExtract_CountConversion(t *testing.T) {
	vocab := DefaultVocabulary()

	values := Extract("Platelet count: 250000 /uL", vocab)
	if len(values) != 1 {
		t.Fatalf("expected 1 value, got %d", len(values))
	}
	if values[0].MetricName != "PLT" {
		t.Errorf("expected PLT, got %s", values[0].MetricName)
	}
	if values[0].Value != 250 {
		t.Errorf("expected 250 K/uL, got %g", values[0].Value)
	}
}

func TestExtract_RepeatedMetricRetained(t *testing.T) {
	vocab := DefaultVocabulary()

	text := "Hemoglobin: 9.2 g/dL\nImpression: Hgb 9.2 g/dL is low."
	values := Extract(text, vocab)
	if len(values) != 2 {
		t.Fatalf("expected both occurrences retained, got %d", len(values))
	}
	if values[0].MetricName != "HGB" || values[1].MetricName != "HGB" {
		t.Errorf("expected both values to be HGB, got %+v", values)
	}
	if values[0].SourceOffset >= values[1].SourceOffset {
		t.Error("expected document order by source offset")
	}
}

func TestExtract_LongerAliasWinsOverlap(t *testing.T) {
	vocab := DefaultVocabulary()

	values := Extract("Glycated hemoglobin: 5.8 %", vocab)
	if len(values) != 1 {
		t.Fatalf("expected 1 value, got %d: %+v", len(values), values)
	}
	if values[0].MetricName != "HBA1C" {
		t.Errorf("expected HBA1C to claim the span, got %s", values[0].MetricName)
	}
}

func TestExtract_HbA1cDoesNotMatchHemoglobin(t *testing.T) {
	vocab := DefaultVocabulary()

	values := Extract("HbA1c: 6.5 %", vocab)
	if len(values) != 1 {
		t.Fatalf("expected 1 value, got %d: %+v", len(values), values)
	}
	if values[0].MetricName != "HBA1C" {
		t.Errorf("expected HBA1C, got %s", values[0].MetricName)
	}
}

func TestExtract_MultiMetricReport(t *testing.T) {
	vocab := DefaultVocabulary()

	text := `COMPLETE BLOOD COUNT
Hemoglobin      14.1 g/dL
WBC             7.2 K/uL
Platelets       210 K/uL
Glucose (F)     105 mg/dL`

	values := Extract(text, vocab)
	if len(values) != 4 {
		t.Fatalf("expected 4 values, got %d: %+v", len(values), values)
	}

	byMetric := map[string]float64{}
	for _, v := range values {
		byMetric[v.MetricName] = v.Value
	}
	want := map[string]float64{"HGB": 14.1, "WBC": 7.2, "PLT": 210, "GLU": 105}
	for metric, value := range want {
		if byMetric[metric] != value {
			t.Errorf("%s: expected %g, got %g", metric, value, byMetric[metric])
		}
	}
}

func TestExtract_ValueOutsideWindowIgnored(t *testing.T) {
	vocab := DefaultVocabulary()

	// The metric name appears but the nearest number is far past the
	// look-ahead window.
	text := "Hemoglobin result pending, see addendum further below in this report for the final confirmed laboratory measurement 14.1"
	values := Extract(text, vocab)
	if len(values) != 0 {
		t.Errorf("expected no value outside the window, got %+v", values)
	}
}
