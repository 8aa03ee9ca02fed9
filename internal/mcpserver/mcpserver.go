// Package mcpserver exposes the sync engine to MCP clients over stdio:
// trigger a run, look up an event in the authoring tool, and inspect vault
// stats.
package mcpserver

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wavebeam/wwvault/internal/bridge"
	"github.com/wavebeam/wwvault/internal/config"
	"github.com/wavebeam/wwvault/internal/engine"
	"github.com/wavebeam/wwvault/internal/vault"
	"github.com/wavebeam/wwvault/internal/wwise"
)

// Version reported to MCP clients.
const Version = "0.1.0"

// New builds the MCP server with all tools registered.
func New(cfg config.Config, logger *log.Logger) *server.MCPServer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	s := server.NewMCPServer(
		"wwvault",
		Version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(syncRunTool(), syncRunHandler(cfg, logger))
	s.AddTool(lookupEventTool(), lookupEventHandler(cfg, logger))
	s.AddTool(vaultStatsTool(), vaultStatsHandler(cfg))

	return s
}

// Serve runs the server over stdio until the client disconnects.
func Serve(s *server.MCPServer) error {
	if err := server.ServeStdio(s); err != nil {
		return fmt.Errorf("failed to serve MCP over stdio: %w", err)
	}
	return nil
}

// --- sync_run ---

func syncRunTool() mcp.Tool {
	return mcp.NewTool("sync_run",
		mcp.WithDescription("Run a sync of the Wwise event export into the vault. Returns counts of created, updated, moved, skipped and errored records."),
		mcp.WithBoolean("dry_run",
			mcp.Description("Compute actions without writing any files."),
		),
	)
}

func syncRunHandler(cfg config.Config, logger *log.Logger) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := cfg.Validate(); err != nil {
			return toolError(err)
		}

		export, err := wwise.ReadExport(cfg.ExportPath)
		if err != nil {
			return toolError(err)
		}

		dcfg := engine.DefaultConfig(cfg.OutputRoot())
		dcfg.Logger = logger
		dcfg.DryRun = req.GetBool("dry_run", false)

		result, err := engine.NewDriver(dcfg).Run(export)
		if err != nil {
			return toolError(err)
		}

		st := result.Stats
		var sb strings.Builder
		fmt.Fprintf(&sb, "project: %s\n", export.Project)
		fmt.Fprintf(&sb, "created=%d updated=%d moved=%d skipped=%d errors=%d\n",
			st.Created, st.Updated, st.Moved, st.Skipped, st.Errors)
		for _, skip := range st.Skips {
			fmt.Fprintf(&sb, "skipped %s (%s): %s\n", skip.Name, skip.ID, skip.Reason)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- lookup_event ---

func lookupEventTool() mcp.Tool {
	return mcp.NewTool("lookup_event",
		mcp.WithDescription("Check whether an event GUID exists in the open Wwise project via WAAPI."),
		mcp.WithString("guid",
			mcp.Description("Wwise object GUID, e.g. {1234ABCD-...}"),
			mcp.Required(),
		),
	)
}

func lookupEventHandler(cfg config.Config, logger *log.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		guid := req.GetString("guid", "")
		if guid == "" {
			return toolError(fmt.Errorf("guid is required"))
		}

		result, err := bridge.NewClient(cfg.WaapiURL, logger).LookupEvent(ctx, guid)
		if err != nil {
			return toolError(err)
		}
		if !result.Found {
			return mcp.NewToolResultText(fmt.Sprintf("%s: not found", guid)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s: %s (%s)", guid, result.Name, result.Path)), nil
	}
}

// --- vault_stats ---

func vaultStatsTool() mcp.Tool {
	return mcp.NewTool("vault_stats",
		mcp.WithDescription("Summarize the vault: total synced documents, claimed vs unclaimed."),
	)
}

func vaultStatsHandler(cfg config.Config) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if cfg.VaultRoot == "" {
			return toolError(fmt.Errorf("vault_root is not configured"))
		}

		start := time.Now()
		index, err := vault.BuildIndex(cfg.OutputRoot(), nil)
		if err != nil {
			return toolError(err)
		}

		total := index.Size()
		claimed := len(index.ByID)
		return mcp.NewToolResultText(fmt.Sprintf(
			"documents=%d claimed=%d unclaimed=%d (scanned in %s)",
			total, claimed, total-claimed, time.Since(start).Round(time.Millisecond),
		)), nil
	}
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
