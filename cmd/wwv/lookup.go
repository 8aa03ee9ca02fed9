package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wavebeam/wwvault/internal/bridge"
	"github.com/wavebeam/wwvault/internal/ui"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <guid>",
	Short: "Check whether an event GUID exists in the open Wwise project",
	Long: `Ask the running Wwise instance (over WAAPI) whether the given GUID names
a live object, and print its current name and path if so. Wwise must be
open with the Authoring API enabled.

Example usage:
  wwv lookup "{1E0A2B3C-4D5E-6F70-8192-A3B4C5D6E7F8}"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cmd, cfg)

		client := bridge.NewClient(cfg.WaapiURL, logger)
		result, err := client.LookupEvent(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if !result.Found {
			fmt.Printf("%s %s not found in the open project\n", ui.RenderWarn("?"), args[0])
			return nil
		}
		fmt.Printf("%s %s\n", ui.RenderPass("✓"), ui.RenderBold(result.Name))
		fmt.Printf("  %s\n", ui.RenderMuted(result.Path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}
