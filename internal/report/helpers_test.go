package report

import (
	"encoding/json"
	"os"
	"path/filepath"

	"medscan/internal/refrange"
	"medscan/pkg/models"
)

// loadTableWith builds a range table containing just the given entries, via
// the same file-loading path production uses.
func loadTableWith(ranges ...models.ReferenceRange) (*refrange.Table, error) {
	data, err := json.Marshal(ranges)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "ranges")
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "ranges.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, err
	}
	return refrange.Load(path)
}
