package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/wavebeam/wwvault/internal/config"
	"github.com/wavebeam/wwvault/internal/engine"
	"github.com/wavebeam/wwvault/internal/history"
	"github.com/wavebeam/wwvault/internal/ui"
	"github.com/wavebeam/wwvault/internal/wwise"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one sync of the export into the vault",
	Long: `Read the configured export file, reconcile every event against the vault,
and commit the results: new documents are created, renamed or relocated
events move their documents, changed metadata is rewritten in place.

Events whose sanitized name collides with a document owned by a different
event are skipped and reported, never overwritten.

Example usage:
  wwv sync                   # Full sync
  wwv sync --dry-run         # Show what would happen, write nothing
  wwv sync --prune-report    # Also list documents for events gone from the export`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("configuration incomplete (run 'wwv init'): %w", err)
		}
		logger := newLogger(cmd, cfg)

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		pruneReport, _ := cmd.Flags().GetBool("prune-report")

		started := time.Now()
		result, export, err := executeSync(cfg, logger, dryRun, pruneReport, nil, nil)
		if err != nil {
			return err
		}

		printSummary(result, dryRun)
		if pruneReport {
			printPruneReport(result)
		}

		if !dryRun {
			recordHistory(cfg, logger, export, result, started)
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().Bool("dry-run", false, "Compute actions without writing any files")
	syncCmd.Flags().Bool("prune-report", false, "List documents whose event no longer exists in the export (report only)")
	rootCmd.AddCommand(syncCmd)
}

// executeSync runs one full pass: read and validate the export, then drive
// the engine. Shared by sync, watch and the dashboard path. onStart, when
// set, fires after validation but before any record is processed.
func executeSync(cfg config.Config, logger *log.Logger, dryRun, pruneReport bool, progress engine.Progress, onStart func(*wwise.Export)) (*engine.Result, *wwise.Export, error) {
	export, err := wwise.ReadExport(cfg.ExportPath)
	if err != nil {
		return nil, nil, err
	}
	if onStart != nil {
		onStart(export)
	}

	dcfg := engine.DefaultConfig(cfg.OutputRoot())
	dcfg.Logger = logger
	dcfg.DryRun = dryRun
	dcfg.PruneReport = pruneReport
	dcfg.OnProgress = progress

	result, err := engine.NewDriver(dcfg).Run(export)
	if err != nil {
		return nil, nil, err
	}
	return result, export, nil
}

func printSummary(result *engine.Result, dryRun bool) {
	st := result.Stats
	label := "synced"
	if dryRun {
		label = "would sync"
	}
	fmt.Printf("%s %s %d record(s): %s created, %s updated, %s moved, %s skipped, %s error(s)\n",
		ui.RenderPass("✓"), label, st.Total(),
		ui.RenderBold(fmt.Sprintf("%d", st.Created)),
		ui.RenderBold(fmt.Sprintf("%d", st.Updated)),
		ui.RenderBold(fmt.Sprintf("%d", st.Moved)),
		ui.RenderWarn(fmt.Sprintf("%d", st.Skipped)),
		ui.RenderFail(fmt.Sprintf("%d", st.Errors)),
	)
	for _, skip := range st.Skips {
		fmt.Printf("  %s %s %s\n", ui.RenderWarn("skip"), skip.Name, ui.RenderMuted(skip.Reason))
	}
}

func printPruneReport(result *engine.Result) {
	if len(result.Orphans) == 0 {
		fmt.Printf("%s no orphaned documents\n", ui.RenderPass("✓"))
		return
	}
	fmt.Printf("%s %d document(s) whose event is gone from the export:\n",
		ui.RenderWarn("!"), len(result.Orphans))
	for _, o := range result.Orphans {
		fmt.Printf("  %s %s\n", o.Path, ui.RenderMuted(o.ID))
	}
}

// recordHistory persists the run outcome. History failures are logged, not
// fatal; the sync itself already happened.
func recordHistory(cfg config.Config, logger *log.Logger, export *wwise.Export, result *engine.Result, started time.Time) {
	db, err := history.Open(cfg.HistoryPath())
	if err != nil {
		logger.Printf("history: %v", err)
		return
	}
	defer db.Close()

	run := &history.Run{
		StartedAt:   started,
		FinishedAt:  time.Now(),
		Project:     export.Project,
		ToolVersion: export.ToolVersion,
		ExportedAt:  export.ExportedAt,
		Created:     result.Stats.Created,
		Updated:     result.Stats.Updated,
		Moved:       result.Stats.Moved,
		Skipped:     result.Stats.Skipped,
		Errors:      result.Stats.Errors,
	}
	for _, s := range result.Stats.Skips {
		run.Skips = append(run.Skips, history.Skip{
			RecordID:   s.ID,
			RecordName: s.Name,
			Reason:     s.Reason,
		})
	}

	if _, err := db.RecordRun(run); err != nil {
		logger.Printf("history: %v", err)
	}
}
