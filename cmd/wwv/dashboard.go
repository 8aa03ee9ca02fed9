package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wavebeam/wwvault/internal/dashboard"
	"github.com/wavebeam/wwvault/internal/ui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Serve the live sync dashboard",
	Long: `Start the WebSocket dashboard server on its own, without watch mode.
Connected clients receive run_started, record_synced and run_complete
messages from syncs triggered elsewhere on the same machine.

Example usage:
  wwv dashboard              # Default port from config
  wwv dashboard --port 9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cmd, cfg)

		port := cfg.DashboardPort
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		server := dashboard.NewServer(&dashboard.Config{Port: port, Logger: logger})
		if err := server.Start(); err != nil {
			return err
		}

		fmt.Printf("%s dashboard on http://%s\n", ui.RenderAccent("●"), server.GetAddr())
		fmt.Printf("  websocket %s\n", ui.RenderMuted("ws://"+server.GetAddr()+"/ws"))
		fmt.Println(ui.RenderMuted("Press Ctrl+C to stop."))

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		<-ctx.Done()

		fmt.Println("\nStopping...")
		return server.Stop()
	},
}

func init() {
	dashboardCmd.Flags().IntP("port", "p", 8765, "Port to listen on")
	rootCmd.AddCommand(dashboardCmd)
}
