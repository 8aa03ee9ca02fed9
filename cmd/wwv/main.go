// wwv syncs a Wwise event export into a markdown vault.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/wavebeam/wwvault/internal/config"
	"github.com/wavebeam/wwvault/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "wwv",
	Short: "Sync Wwise event exports into a markdown vault",
	Long: `wwv reconciles a JSON event export from Wwise against a tree of markdown
documents, one document per event. Machine-managed metadata and sections are
regenerated on every sync; anything you write yourself (extra header keys,
your own sections) is preserved verbatim.

Configuration lives in wwvault.toml (run 'wwv init' to create one), searched
in the working directory and ~/.config/wwvault/. Every setting can be
overridden with a WWV_ environment variable.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to wwvault.toml (default: search cwd, then ~/.config/wwvault/)")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress log output on stderr")
}

// loadConfig reads the config honoring the persistent --config flag.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// newLogger builds the run logger: rotating file under the vault's state
// directory when a vault is configured, stderr tee unless --quiet.
func newLogger(cmd *cobra.Command, cfg config.Config) *log.Logger {
	quiet, _ := cmd.Flags().GetBool("quiet")
	opts := logging.Options{Quiet: quiet}
	if cfg.VaultRoot != "" {
		opts.Path = cfg.LogPath()
	}
	return logging.New(opts)
}
