package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wavebeam/wwvault/internal/daemon"
	"github.com/wavebeam/wwvault/internal/dashboard"
	"github.com/wavebeam/wwvault/internal/engine"
	"github.com/wavebeam/wwvault/internal/ui"
	"github.com/wavebeam/wwvault/internal/wwise"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the export file and sync on every change",
	Long: `Watch the export file and run a sync whenever Wwise rewrites it. Rapid
save bursts are debounced into one run. A change arriving while a run is
still in flight is dropped, not queued; the next save triggers again.

Example usage:
  wwv watch                  # Watch and sync
  wwv watch --dashboard      # Also serve the live progress dashboard`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("configuration incomplete (run 'wwv init'): %w", err)
		}
		logger := newLogger(cmd, cfg)

		var handler *dashboard.Handler
		withDashboard, _ := cmd.Flags().GetBool("dashboard")
		if withDashboard {
			server := dashboard.NewServer(&dashboard.Config{
				Port:   cfg.DashboardPort,
				Logger: logger,
			})
			if err := server.Start(); err != nil {
				return err
			}
			defer server.Stop()
			handler = dashboard.NewHandler(server, logger)
			fmt.Printf("%s dashboard on http://%s\n", ui.RenderAccent("●"), server.GetAddr())
		}

		runOnce := func() {
			started := time.Now()
			var progress engine.Progress
			var onStart func(*wwise.Export)
			if handler != nil {
				progress = handler.OnRecordSynced
				onStart = func(export *wwise.Export) {
					handler.OnRunStarted(export.Project, len(export.Records))
				}
			}

			result, export, err := executeSync(cfg, logger, false, false, progress, onStart)
			if err == engine.ErrSyncInProgress {
				logger.Printf("watch: change ignored, sync still running")
				return
			}
			if err != nil {
				logger.Printf("watch: sync failed: %v", err)
				fmt.Printf("%s sync failed: %v\n", ui.RenderFail("✗"), err)
				return
			}

			if handler != nil {
				handler.OnRunComplete(result.Stats, time.Since(started))
			}
			printSummary(result, false)
			recordHistory(cfg, logger, export, result, started)
		}

		wcfg := daemon.DefaultConfig(cfg.ExportPath)
		wcfg.Logger = logger
		wcfg.OnChange = runOnce

		watcher, err := daemon.NewWatcher(wcfg)
		if err != nil {
			return err
		}
		if err := watcher.Start(); err != nil {
			return err
		}

		fmt.Printf("%s watching %s\n", ui.RenderAccent("●"), cfg.ExportPath)
		fmt.Println(ui.RenderMuted("Press Ctrl+C to stop."))

		// Sync once on startup so the vault reflects the current export.
		runOnce()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		<-ctx.Done()

		fmt.Println("\nStopping...")
		return watcher.Stop()
	},
}

func init() {
	watchCmd.Flags().Bool("dashboard", false, "Serve the live progress dashboard while watching")
	rootCmd.AddCommand(watchCmd)
}
