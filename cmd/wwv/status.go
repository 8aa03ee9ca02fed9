package main

import (
	"fmt"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/wavebeam/wwvault/internal/history"
	"github.com/wavebeam/wwvault/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent sync runs",
	Long: `Show the most recent sync run and, with --since, every run from a point
in time. The point in time is parsed as natural language.

Example usage:
  wwv status
  wwv status --since "last friday"
  wwv status --since "3 days ago"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.VaultRoot == "" {
			return fmt.Errorf("vault_root is not configured (run 'wwv init')")
		}

		db, err := history.Open(cfg.HistoryPath())
		if err != nil {
			return err
		}
		defer db.Close()

		sinceArg, _ := cmd.Flags().GetString("since")
		if sinceArg == "" {
			return printLastRun(db)
		}

		since, err := parseSince(sinceArg)
		if err != nil {
			return err
		}
		return printRunsSince(db, since)
	},
}

func init() {
	statusCmd.Flags().String("since", "", "Show all runs since this point in time (natural language)")
	rootCmd.AddCommand(statusCmd)
}

// parseSince turns a natural-language time expression into a time.
func parseSince(text string) (time.Time, error) {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	r, err := w.Parse(text, time.Now())
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse time expression %q: %w", text, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("could not understand time expression %q", text)
	}
	return r.Time, nil
}

func printLastRun(db *history.DB) error {
	run, err := db.LastRun()
	if err != nil {
		return err
	}
	if run == nil {
		fmt.Println(ui.RenderMuted("No sync has run yet."))
		return nil
	}

	fmt.Printf("%s %s\n", ui.RenderAccent("Last sync"),
		ui.RenderMuted(run.FinishedAt.Local().Format("2006-01-02 15:04:05")))
	fmt.Printf("  project      %s", run.Project)
	if run.ToolVersion != "" {
		fmt.Printf(" %s", ui.RenderMuted("(Wwise "+run.ToolVersion+")"))
	}
	fmt.Println()
	fmt.Printf("  exported at  %s\n", run.ExportedAt)
	fmt.Printf("  outcome      %s\n", formatCounts(run))
	for _, s := range run.Skips {
		fmt.Printf("  %s %s %s\n", ui.RenderWarn("skip"), s.RecordName, ui.RenderMuted(s.Reason))
	}
	return nil
}

func printRunsSince(db *history.DB, since time.Time) error {
	runs, err := db.ListRuns(since)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println(ui.RenderMuted("No runs in that window."))
		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  %s  %s\n",
			ui.RenderMuted(run.StartedAt.Local().Format("2006-01-02 15:04")),
			run.Project,
			formatCounts(run))
	}
	return nil
}

func formatCounts(run *history.Run) string {
	return fmt.Sprintf("%s created, %s updated, %s moved, %s skipped, %s error(s)",
		ui.RenderBold(fmt.Sprintf("%d", run.Created)),
		ui.RenderBold(fmt.Sprintf("%d", run.Updated)),
		ui.RenderBold(fmt.Sprintf("%d", run.Moved)),
		ui.RenderWarn(fmt.Sprintf("%d", run.Skipped)),
		ui.RenderFail(fmt.Sprintf("%d", run.Errors)))
}
