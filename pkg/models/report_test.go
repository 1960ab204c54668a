package models

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestSeverity_Predicates(t *testing.T) {
	tests := []struct {
		sev      Severity
		critical bool
		abnormal bool
	}{
		{SeverityNormal, false, false},
		{SeverityLow, false, true},
		{SeverityHigh, false, true},
		{SeverityCriticalLow, true, true},
		{SeverityCriticalHigh, true, true},
		{SeverityUnknown, false, false},
	}

	for _, tt := range tests {
		if got := tt.sev.IsCritical(); got != tt.critical {
			t.Errorf("%s: IsCritical() = %v, want %v", tt.sev, got, tt.critical)
		}
		if got := tt.sev.IsAbnormal(); got != tt.abnormal {
			t.Errorf("%s: IsAbnormal() = %v, want %v", tt.sev, got, tt.abnormal)
		}
	}
}

func TestReportAnalysis_JSONRoundTrip(t *testing.T) {
	margin := 0.1
	capturedAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	original := ReportAnalysis{
		DocumentID: "doc-1",
		PatientID:  "patient-1",
		CapturedAt: capturedAt,
		Category:   CategoryLabResult,
		Findings: []Finding{
			{
				MetricName: "HGB",
				Value:      9.2,
				Unit:       "g/dL",
				Severity:   SeverityCriticalLow,
				ReferenceRange: &ReferenceRange{
					Metric: "HGB", Unit: "g/dL", Low: 13.5, High: 17.5,
					CriticalMargin: &margin,
				},
				SourceOffset: 12,
				UnitVerified: true,
			},
		},
		DuplicateValues: []ExtractedValue{
			{MetricName: "HGB", RawText: "9.5", Value: 9.5, Unit: "g/dL", SourceOffset: 40, UnitVerified: true},
		},
		OCRConfidence: 0.93,
		AnalyzedAt:    capturedAt.Add(time.Minute),
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded ReportAnalysis
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("round trip changed the analysis:\n got %+v\nwant %+v", decoded, original)
	}
}

func TestSeverity_WireValues(t *testing.T) {
	// The enum strings are the wire format; stored analyses depend on them
	// staying put.
	tests := []struct {
		sev  Severity
		want string
	}{
		{SeverityNormal, `"NORMAL"`},
		{SeverityLow, `"LOW"`},
		{SeverityHigh, `"HIGH"`},
		{SeverityCriticalLow, `"CRITICAL_LOW"`},
		{SeverityCriticalHigh, `"CRITICAL_HIGH"`},
		{SeverityUnknown, `"UNKNOWN"`},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.sev)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != tt.want {
			t.Errorf("severity %s marshals to %s, want %s", tt.sev, data, tt.want)
		}
	}
}

func TestReferenceRange_MidpointAndWidth(t *testing.T) {
	r := ReferenceRange{Metric: "HGB", Low: 13.5, High: 17.5}
	if got := r.Midpoint(); got != 15.5 {
		t.Errorf("Midpoint() = %g, want 15.5", got)
	}
	if got := r.Width(); got != 4.0 {
		t.Errorf("Width() = %g, want 4.0", got)
	}
}

func TestFindingFor(t *testing.T) {
	analysis := ReportAnalysis{
		Findings: []Finding{
			{MetricName: "HGB", Value: 9.2},
			{MetricName: "GLU", Value: 105},
		},
	}

	if f, ok := analysis.FindingFor("GLU"); !ok || f.Value != 105 {
		t.Errorf("FindingFor(GLU) = %+v, %v", f, ok)
	}
	if _, ok := analysis.FindingFor("TSH"); ok {
		t.Error("expected miss for absent metric")
	}
}
