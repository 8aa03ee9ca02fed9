package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), ".wwvault", "history.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() failed: %v", err)
		}
	})
	return db
}

// TestRecordAndLastRun verifies a run round-trips through the database,
// skips included.
func TestRecordAndLastRun(t *testing.T) {
	db := openTestDB(t)

	now := time.Now().UTC().Truncate(time.Second)
	run := &Run{
		StartedAt:   now,
		FinishedAt:  now.Add(2 * time.Second),
		Project:     "Demo",
		ToolVersion: "2024.1",
		ExportedAt:  "2026-08-24 10:00",
		Created:     3,
		Updated:     5,
		Moved:       1,
		Skipped:     1,
		Skips: []Skip{
			{RecordID: "{bbb}", RecordName: "Explosion_Far", Reason: "filename collision"},
		},
	}

	id, err := db.RecordRun(run)
	if err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("RecordRun() id = %d, want positive", id)
	}

	got, err := db.LastRun()
	if err != nil {
		t.Fatalf("LastRun() failed: %v", err)
	}
	if got == nil {
		t.Fatal("LastRun() = nil, want the recorded run")
	}
	if got.Project != "Demo" || got.ToolVersion != "2024.1" || got.ExportedAt != "2026-08-24 10:00" {
		t.Errorf("metadata = %q/%q/%q", got.Project, got.ToolVersion, got.ExportedAt)
	}
	if got.Created != 3 || got.Updated != 5 || got.Moved != 1 || got.Skipped != 1 {
		t.Errorf("counters = %+v", got)
	}
	if !got.StartedAt.Equal(now) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, now)
	}
	if len(got.Skips) != 1 || got.Skips[0].RecordID != "{bbb}" {
		t.Errorf("Skips = %+v", got.Skips)
	}
}

// TestLastRun_Empty verifies an empty database yields no run and no error.
func TestLastRun_Empty(t *testing.T) {
	db := openTestDB(t)

	run, err := db.LastRun()
	if err != nil {
		t.Fatalf("LastRun() failed: %v", err)
	}
	if run != nil {
		t.Errorf("LastRun() = %+v, want nil", run)
	}
}

// TestListRuns_Since verifies the since filter and newest-first ordering.
func TestListRuns_Since(t *testing.T) {
	db := openTestDB(t)

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		started := base.AddDate(0, 0, i)
		if _, err := db.RecordRun(&Run{
			StartedAt:  started,
			FinishedAt: started.Add(time.Second),
			Project:    "Demo",
			ExportedAt: "x",
		}); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}

	all, err := db.ListRuns(time.Time{})
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d runs, want 3", len(all))
	}
	if !all[0].StartedAt.After(all[1].StartedAt) {
		t.Errorf("runs not newest-first: %v then %v", all[0].StartedAt, all[1].StartedAt)
	}

	recent, err := db.ListRuns(base.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ListRuns(since) failed: %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("got %d recent runs, want 2", len(recent))
	}
}

// TestOpen_Reopen verifies the schema setup is idempotent across reopens.
func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("first Open() failed: %v", err)
	}
	if _, err := db.RecordRun(&Run{
		StartedAt: time.Now(), FinishedAt: time.Now(),
		Project: "Demo", ExportedAt: "x",
	}); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	db, err = Open(path)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer db.Close()

	run, err := db.LastRun()
	if err != nil {
		t.Fatalf("LastRun() failed: %v", err)
	}
	if run == nil {
		t.Error("recorded run lost across reopen")
	}
}
