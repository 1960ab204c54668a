// Package refrange holds the reference range table: the static mapping from
// canonical metric name to the numeric interval considered normal, with its
// unit and optional demographic variants.
//
// The table is loaded once at process start, validated, and treated as
// read-only for the life of the process. Lookups never mutate it, so it can
// be shared across concurrent analyses without synchronization.
//
// Ranges come from an embedded default table covering common lab panels, or
// from a JSON file when MEDSCAN_RANGES_FILE points at one. File entries
// replace embedded entries for the same metric.
package refrange

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"medscan/pkg/models"
)

// Demographics describes the patient attributes a range variant can match on.
type Demographics struct {
	// Sex is "M", "F", or empty when unknown.
	Sex string

	// Age in years; negative when unknown.
	Age int
}

// Table maps canonical metric names to their reference ranges.
type Table struct {
	ranges map[string]models.ReferenceRange
}

// Load builds a table from the embedded defaults, overlaid with entries from
// the given JSON file when path is non-empty. The file holds an array of
// models.ReferenceRange. Every entry is validated: Low must not exceed High,
// and the same must hold for each variant's effective bounds.
func Load(path string) (*Table, error) {
	const op = "Load"

	ranges := make(map[string]models.ReferenceRange, len(defaultRanges))
	for _, r := range defaultRanges {
		ranges[r.Metric] = r
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, WrapRangeError(op, err, fmt.Sprintf("reading %s", path))
		}
		var fileRanges []models.ReferenceRange
		if err := json.Unmarshal(data, &fileRanges); err != nil {
			return nil, WrapRangeError(op, ErrInvalidRangeFile, err.Error())
		}
		for _, r := range fileRanges {
			ranges[r.Metric] = r
		}
	}

	for _, r := range ranges {
		if err := validateRange(r); err != nil {
			return nil, WrapRangeError(op, err, fmt.Sprintf("metric %s", r.Metric))
		}
	}

	return &Table{ranges: ranges}, nil
}

// MustLoadDefaults returns a table built from the embedded defaults only.
// It panics on a defect in the embedded data, which validation at test time
// rules out.
func MustLoadDefaults() *Table {
	t, err := Load("")
	if err != nil {
		panic(err)
	}
	return t
}

func validateRange(r models.ReferenceRange) error {
	if r.Metric == "" {
		return fmt.Errorf("%w: empty metric name", ErrInvalidRange)
	}
	if r.Low > r.High {
		return fmt.Errorf("%w: low %g > high %g", ErrInvalidRange, r.Low, r.High)
	}
	if r.CriticalMargin != nil && *r.CriticalMargin < 0 {
		return fmt.Errorf("%w: negative critical margin", ErrInvalidRange)
	}
	for i, v := range r.Variants {
		low, high := r.Low, r.High
		if v.Low != nil {
			low = *v.Low
		}
		if v.High != nil {
			high = *v.High
		}
		if low > high {
			return fmt.Errorf("%w: variant %d low %g > high %g", ErrInvalidRange, i, low, high)
		}
		if v.AgeMin != nil && v.AgeMax != nil && *v.AgeMin > *v.AgeMax {
			return fmt.Errorf("%w: variant %d age_min > age_max", ErrInvalidRange, i)
		}
	}
	return nil
}

// Lookup returns the reference range for a canonical metric name.
// The second return is false when the metric is not in the table.
func (t *Table) Lookup(metric string) (models.ReferenceRange, bool) {
	r, ok := t.ranges[metric]
	return r, ok
}

// LookupFor returns the range for a metric resolved against the given
// demographics: the first matching variant's bounds replace the base bounds.
// With zero-value demographics it behaves like Lookup.
func (t *Table) LookupFor(metric string, demo Demographics) (models.ReferenceRange, bool) {
	r, ok := t.ranges[metric]
	if !ok {
		return r, false
	}
	for _, v := range r.Variants {
		if !variantMatches(v, demo) {
			continue
		}
		if v.Low != nil {
			r.Low = *v.Low
		}
		if v.High != nil {
			r.High = *v.High
		}
		r.Variants = nil
		return r, true
	}
	return r, true
}

func variantMatches(v models.RangeVariant, demo Demographics) bool {
	if v.Sex != "" && v.Sex != demo.Sex {
		return false
	}
	if v.AgeMin != nil && (demo.Age < 0 || demo.Age < *v.AgeMin) {
		return false
	}
	if v.AgeMax != nil && (demo.Age < 0 || demo.Age > *v.AgeMax) {
		return false
	}
	return true
}

// Metrics returns the canonical metric names in the table, sorted.
func (t *Table) Metrics() []string {
	names := make([]string, 0, len(t.ranges))
	for name := range t.ranges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of metrics in the table.
func (t *Table) Len() int {
	return len(t.ranges)
}
