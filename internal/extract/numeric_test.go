package extract

import "testing"

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  float64
		ok    bool
	}{
		{"plain integer", "120", 120, true},
		{"plain decimal", "9.2", 9.2, true},
		{"thousands separator", "1,200", 1200, true},
		{"trailing dot", "14.", 14, true},
		{"letter l for one", "l20", 120, true},
		{"letter O for zero", "12O", 120, true},
		{"letter S for five", "9.S", 9.5, true},
		{"letter B for eight", "B.1", 8.1, true},
		{"pipe for one", "|4", 14, true},
		{"mixed confusions", "I4.l", 14.1, true},
		{"no digits at all", "lo", 0, false},
		{"empty", "", 0, false},
		{"unrepairable", "12x4", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseNumeric(tt.token)
			if ok != tt.ok {
				t.Fatalf("parseNumeric(%q) ok = %v, want %v", tt.token, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("parseNumeric(%q) = %g, want %g", tt.token, got, tt.want)
			}
		})
	}
}

func TestVocabularyLookup(t *testing.T) {
	vocab := DefaultVocabulary()

	if vocab.Len() == 0 {
		t.Fatal("default vocabulary is empty")
	}

	m, ok := vocab.Metric("HGB")
	if !ok {
		t.Fatal("expected HGB in default vocabulary")
	}
	if m.Unit != "g/dL" {
		t.Errorf("expected HGB unit g/dL, got %s", m.Unit)
	}

	if _, ok := vocab.Metric("NOPE"); ok {
		t.Error("expected lookup miss for unknown metric")
	}
}
