package wwise

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestRecordValidate exercises the per-record validation rules.
func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  Record
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid minimal record",
			record: Record{ID: "{abc-1}", Name: "Explosion_Far"},
		},
		{
			name: "valid full record",
			record: Record{
				ID:       "{abc-2}",
				Name:     "Footstep",
				Path:     "SFX/Foley",
				Scope:    ScopeGameObject,
				Playback: PlaybackContinuous,
				Parameters: []GameParameter{
					{Name: "surface", Type: "switch", Values: []string{"grass", "stone"}},
				},
			},
		},
		{
			name:    "missing id",
			record:  Record{Name: "Explosion_Far"},
			wantErr: true,
			errMsg:  "id is required",
		},
		{
			name:    "blank name",
			record:  Record{ID: "{abc-1}", Name: "   "},
			wantErr: true,
			errMsg:  "name is required",
		},
		{
			name:    "invalid scope",
			record:  Record{ID: "{abc-1}", Name: "X", Scope: "local"},
			wantErr: true,
			errMsg:  "invalid scope",
		},
		{
			name:    "invalid playback",
			record:  Record{ID: "{abc-1}", Name: "X", Playback: "looping"},
			wantErr: true,
			errMsg:  "invalid playback",
		},
		{
			name: "nameless parameter",
			record: Record{
				ID: "{abc-1}", Name: "X",
				Parameters: []GameParameter{{Type: "slider"}},
			},
			wantErr: true,
			errMsg:  "parameter 0 has no name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() succeeded, want error")
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error = %q, want substring %q", err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() failed: %v", err)
			}
		})
	}
}

// TestRecordSetDefaults verifies enum defaults are filled and set values
// are left alone.
func TestRecordSetDefaults(t *testing.T) {
	r := Record{ID: "{a}", Name: "X"}
	r.SetDefaults()
	if r.Scope != ScopeGlobal {
		t.Errorf("Scope = %q, want %q", r.Scope, ScopeGlobal)
	}
	if r.Playback != PlaybackOneShot {
		t.Errorf("Playback = %q, want %q", r.Playback, PlaybackOneShot)
	}

	r = Record{ID: "{a}", Name: "X", Scope: ScopeGameObject, Playback: PlaybackContinuous}
	r.SetDefaults()
	if r.Scope != ScopeGameObject || r.Playback != PlaybackContinuous {
		t.Errorf("SetDefaults() overwrote explicit values: %+v", r)
	}
}

// TestExportValidate exercises batch-level validation, including duplicate
// identifier detection.
func TestExportValidate(t *testing.T) {
	tests := []struct {
		name    string
		export  Export
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid batch",
			export: Export{
				Project:    "Demo",
				ExportedAt: "2026-08-24 10:00",
				Records: []Record{
					{ID: "{a}", Name: "One"},
					{ID: "{b}", Name: "Two"},
				},
			},
		},
		{
			name: "empty record list is valid",
			export: Export{
				Project:    "Demo",
				ExportedAt: "2026-08-24 10:00",
				Records:    []Record{},
			},
		},
		{
			name:    "missing project",
			export:  Export{ExportedAt: "now", Records: []Record{}},
			wantErr: true,
			errMsg:  "project is required",
		},
		{
			name:    "missing timestamp",
			export:  Export{Project: "Demo", Records: []Record{}},
			wantErr: true,
			errMsg:  "exported_at is required",
		},
		{
			name:    "missing records",
			export:  Export{Project: "Demo", ExportedAt: "now"},
			wantErr: true,
			errMsg:  "records is required",
		},
		{
			name: "duplicate ids",
			export: Export{
				Project:    "Demo",
				ExportedAt: "now",
				Records: []Record{
					{ID: "{a}", Name: "One"},
					{ID: "{a}", Name: "Two"},
				},
			},
			wantErr: true,
			errMsg:  "duplicate record id {a}",
		},
		{
			name: "invalid record names the offender",
			export: Export{
				Project:    "Demo",
				ExportedAt: "now",
				Records:    []Record{{Name: "Nameless ID"}},
			},
			wantErr: true,
			errMsg:  "record 0 (Nameless ID)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.export.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() succeeded, want error")
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error = %q, want substring %q", err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() failed: %v", err)
			}
		})
	}
}

// TestReadExport verifies parsing, defaulting and validation of a file on
// disk.
func TestReadExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.json")
	content := `{
  "project": "Demo",
  "exported_at": "2026-08-24 10:00",
  "record_count": 99,
  "records": [
    {"id": "{abc-1}", "name": "Explosion_Far", "path": "SFX/Weapons", "notes": "boom"}
  ]
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	export, err := ReadExport(path)
	if err != nil {
		t.Fatalf("ReadExport() failed: %v", err)
	}

	if len(export.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(export.Records))
	}
	r := export.Records[0]
	if r.Scope != ScopeGlobal || r.Playback != PlaybackOneShot {
		t.Errorf("defaults not applied: scope=%q playback=%q", r.Scope, r.Playback)
	}
	// record_count is informational: 99 vs 1 actual is not an error.
	if export.RecordCount != 99 {
		t.Errorf("RecordCount = %d, want 99", export.RecordCount)
	}
}

// TestReadExport_Errors verifies the fatal input error paths.
func TestReadExport_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadExport(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("ReadExport() on missing file succeeded, want error")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if _, err := ReadExport(bad); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("ReadExport() on malformed JSON: err = %v", err)
	}

	invalid := filepath.Join(dir, "invalid.json")
	body := `{"project": "Demo", "exported_at": "now", "records": [{"name": "no id"}]}`
	if err := os.WriteFile(invalid, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if _, err := ReadExport(invalid); err == nil || !strings.Contains(err.Error(), "id is required") {
		t.Errorf("ReadExport() on invalid record: err = %v", err)
	}
}
