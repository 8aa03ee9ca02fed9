package engine

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"sync/atomic"

	"github.com/wavebeam/wwvault/internal/vault"
	"github.com/wavebeam/wwvault/internal/wwise"
)

// ErrSyncInProgress is returned when a run is triggered while another run
// is still active. Overlapping runs are rejected, never queued.
var ErrSyncInProgress = errors.New("sync already in progress")

// Progress is called after each record's outcome is decided. detail carries
// the skip reason for skips and the error text for errored records.
type Progress func(rec *wwise.Record, action Action, detail string)

// Config controls one Driver.
type Config struct {
	// OutputRoot is the vault directory documents are written under.
	OutputRoot string

	// Logger receives per-run notices. Never nil after DefaultConfig.
	Logger *log.Logger

	// DryRun computes every resolution and counts outcomes without touching
	// the filesystem.
	DryRun bool

	// PruneReport collects documents whose identifier no longer appears in
	// the export. Report only; nothing is deleted.
	PruneReport bool

	// OnProgress, when set, observes each record's outcome.
	OnProgress Progress
}

// DefaultConfig returns a Config with a discard logger.
func DefaultConfig(outputRoot string) Config {
	return Config{
		OutputRoot: outputRoot,
		Logger:     log.New(io.Discard, "", 0),
	}
}

// Orphan is a vault document claimed by an identifier the current export
// no longer contains.
type Orphan struct {
	Path string
	ID   string
}

// Result is the outcome of one sync run.
type Result struct {
	Stats   Stats
	Orphans []Orphan
}

// Driver runs full sync passes. One Driver permits one run at a time;
// within a run, records are reconciled and committed strictly one after
// another, so the index stays read-only and no document can be claimed
// twice.
type Driver struct {
	cfg     Config
	running atomic.Bool
}

// NewDriver returns a Driver for the given config.
func NewDriver(cfg Config) *Driver {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}
	return &Driver{cfg: cfg}
}

// Run reconciles every record in the export against the vault and commits
// each effect as soon as it is computed. A failure on one record is counted
// and logged but never aborts the rest of the run. Returns ErrSyncInProgress
// if another run is active on this Driver.
func (d *Driver) Run(export *wwise.Export) (*Result, error) {
	if !d.running.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}
	defer d.running.Store(false)

	index, err := vault.BuildIndex(d.cfg.OutputRoot, d.cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build identity index: %w", err)
	}

	// Stable order: hierarchy path, then name. Deterministic output
	// regardless of how the authoring tool ordered the export.
	records := make([]wwise.Record, len(export.Records))
	copy(records, export.Records)
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Path != records[j].Path {
			return records[i].Path < records[j].Path
		}
		return records[i].Name < records[j].Name
	})

	rec := &Reconciler{
		OutputRoot: d.cfg.OutputRoot,
		ExportedAt: export.ExportedAt,
		Index:      index,
	}

	result := &Result{}
	written := make(map[string]string, len(records))

	for i := range records {
		record := &records[i]
		res, err := d.processRecord(rec, record, written)
		if err != nil {
			result.Stats.Errors++
			d.cfg.Logger.Printf("sync: record %s (%s) failed: %v", record.Name, record.ID, err)
			d.notify(record, ActionError, err.Error())
			continue
		}

		switch res.Action {
		case ActionCreate:
			result.Stats.Created++
		case ActionUpdate:
			result.Stats.Updated++
		case ActionMove:
			result.Stats.Moved++
		case ActionSkip:
			result.Stats.Skipped++
			result.Stats.Skips = append(result.Stats.Skips, SkipReason{
				ID:     record.ID,
				Name:   record.Name,
				Reason: res.SkipReason,
			})
		}
		if res.Action != ActionSkip {
			written[res.TargetPath] = record.ID
		}
		d.notify(record, res.Action, res.SkipReason)
	}

	if n := len(result.Stats.Skips); n > 0 {
		d.cfg.Logger.Printf("sync: %d record(s) skipped; first: %s (%s): %s",
			n, result.Stats.Skips[0].Name, result.Stats.Skips[0].ID, result.Stats.Skips[0].Reason)
	}

	if d.cfg.PruneReport {
		result.Orphans = findOrphans(index, records)
	}

	return result, nil
}

// processRecord reconciles and commits a single record. Panics are
// converted to errors here so one bad record cannot take down the run.
func (d *Driver) processRecord(r *Reconciler, record *wwise.Record, written map[string]string) (res *Resolution, err error) {
	defer func() {
		if p := recover(); p != nil {
			res, err = nil, fmt.Errorf("panic reconciling record: %v", p)
		}
	}()

	res, err = r.Reconcile(record, written)
	if err != nil {
		return nil, err
	}
	if res.Action == ActionSkip || d.cfg.DryRun {
		return res, nil
	}

	// Write the new file before removing the old one, so a failure between
	// the two never leaves zero copies of the content.
	if err := vault.WriteDocument(res.TargetPath, res.Content); err != nil {
		return nil, err
	}
	if res.Action == ActionMove {
		if err := os.Remove(res.OldPath); err != nil {
			return nil, fmt.Errorf("failed to remove old document %s: %w", res.OldPath, err)
		}
	}
	return res, nil
}

func (d *Driver) notify(rec *wwise.Record, action Action, detail string) {
	if d.cfg.OnProgress != nil {
		d.cfg.OnProgress(rec, action, detail)
	}
}

// findOrphans lists indexed documents whose identifier is absent from the
// current record set.
func findOrphans(index *vault.Index, records []wwise.Record) []Orphan {
	live := make(map[string]bool, len(records))
	for i := range records {
		live[records[i].ID] = true
	}

	var orphans []Orphan
	for id, ref := range index.ByID {
		if !live[id] {
			orphans = append(orphans, Orphan{Path: ref.Path, ID: id})
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i].Path < orphans[j].Path })
	return orphans
}
