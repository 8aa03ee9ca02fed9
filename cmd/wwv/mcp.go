package main

import (
	"github.com/spf13/cobra"

	"github.com/wavebeam/wwvault/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve vault tools to MCP clients over stdio",
	Long: `Run an MCP (Model Context Protocol) server on stdin/stdout exposing three
tools:

  sync_run      Run a sync (optionally dry-run) and return the counts
  lookup_event  Check a GUID against the open Wwise project via WAAPI
  vault_stats   Count synced documents, claimed and unclaimed

Intended to be launched by an MCP client, not interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// stdout belongs to the protocol; log to file only.
		logger := newLogger(cmd, cfg)

		return mcpserver.Serve(mcpserver.New(cfg, logger))
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
