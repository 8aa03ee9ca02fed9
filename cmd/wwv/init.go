package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/wavebeam/wwvault/internal/config"
	"github.com/wavebeam/wwvault/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a wwvault.toml interactively",
	Long: `Walk through the project settings and write wwvault.toml in the current
directory. Existing values from a found config file are used as defaults, so
init can also be used to edit a configuration in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			// A broken existing file should not block re-initialization.
			cfg = config.Default()
		}

		port := strconv.Itoa(cfg.DashboardPort)
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Vault root").
					Description("Top directory of your markdown vault").
					Value(&cfg.VaultRoot).
					Validate(required("vault root")),
				huh.NewInput().
					Title("Events folder").
					Description("Folder under the vault root for synced event documents").
					Value(&cfg.EventsDir).
					Validate(required("events folder")),
				huh.NewInput().
					Title("Export file").
					Description("Path to the JSON event export written by Wwise").
					Value(&cfg.ExportPath).
					Validate(required("export file")),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("WAAPI URL").
					Description("Wwise Authoring API endpoint, used only for lookups").
					Value(&cfg.WaapiURL),
				huh.NewInput().
					Title("Dashboard port").
					Value(&port).
					Validate(validPort),
			),
		)

		if err := form.Run(); err != nil {
			return fmt.Errorf("init cancelled: %w", err)
		}
		cfg.DashboardPort, _ = strconv.Atoi(port)

		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.Write(config.FileName, cfg); err != nil {
			return err
		}

		fmt.Printf("%s wrote %s\n", ui.RenderPass("✓"), config.FileName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func required(name string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func validPort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("enter a port between 0 and 65535")
	}
	return nil
}
