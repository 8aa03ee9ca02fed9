package wwise

import (
	"encoding/json"
	"fmt"
	"os"
)

// Export is one snapshot file written by the authoring tool. ExportedAt is
// an opaque human-readable string and is carried through to documents
// unchanged. RecordCount is informational only and is not checked against
// the actual record list.
type Export struct {
	Records    []Record `json:"records"`
	ExportedAt string   `json:"exported_at"`
	Project    string   `json:"project"`

	ToolVersion string `json:"tool_version,omitempty"`
	ProjectFile string `json:"project_file,omitempty"`
	RecordCount int    `json:"record_count,omitempty"`
}

// Validate checks the batch as a whole. Any failure here aborts the run
// before a single document is touched.
func (e *Export) Validate() error {
	if e.Project == "" {
		return fmt.Errorf("project is required")
	}
	if e.ExportedAt == "" {
		return fmt.Errorf("exported_at is required")
	}
	if e.Records == nil {
		return fmt.Errorf("records is required")
	}

	seen := make(map[string]int, len(e.Records))
	for i := range e.Records {
		r := &e.Records[i]
		if err := r.Validate(); err != nil {
			return fmt.Errorf("record %d (%s): %w", i, r.Name, err)
		}
		if prev, dup := seen[r.ID]; dup {
			return fmt.Errorf("duplicate record id %s (records %d and %d)", r.ID, prev, i)
		}
		seen[r.ID] = i
	}
	return nil
}

// ReadExport reads, parses and validates an export file. Every record has
// its defaults applied before validation.
func ReadExport(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export file %s: %w", path, err)
	}

	var export Export
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to parse export file %s: %w", path, err)
	}

	for i := range export.Records {
		export.Records[i].SetDefaults()
	}

	if err := export.Validate(); err != nil {
		return nil, fmt.Errorf("invalid export file %s: %w", path, err)
	}

	return &export, nil
}
