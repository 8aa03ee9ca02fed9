package engine

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/wavebeam/wwvault/internal/wwise"
)

// BenchmarkRun measures a full sync pass over a mid-sized export, the
// second-run (all updates) shape that dominates real usage.
func BenchmarkRun(b *testing.B) {
	root := filepath.Join(b.TempDir(), "Events")

	records := make([]wwise.Record, 200)
	for i := range records {
		records[i] = wwise.Record{
			ID:    fmt.Sprintf("{bench-%03d}", i),
			Name:  fmt.Sprintf("Event_%03d", i),
			Path:  fmt.Sprintf("SFX/Group_%d", i%10),
			Notes: "benchmark notes",
		}
		records[i].SetDefaults()
	}
	export := &wwise.Export{Project: "Bench", ExportedAt: "now", Records: records}

	d := NewDriver(DefaultConfig(root))
	if _, err := d.Run(export); err != nil {
		b.Fatalf("seed Run() failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := d.Run(export); err != nil {
			b.Fatalf("Run() failed: %v", err)
		}
	}
}
