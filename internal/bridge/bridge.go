// Package bridge talks to the authoring tool's WAAPI endpoint over a local
// WebSocket connection. Only one operation matters here: checking whether a
// GUID still exists in the open project, to back "jump to record"
// navigation. Reconciliation never depends on it.
package bridge

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// objectGetURI is the WAAPI call used for lookups.
const objectGetURI = "ak.wwise.core.object.get"

// DefaultTimeout bounds one lookup round trip.
const DefaultTimeout = 5 * time.Second

// LookupResult is the outcome of one GUID lookup.
type LookupResult struct {
	Found bool
	Name  string
	Path  string
}

// Client performs WAAPI lookups. Each call dials a fresh connection; the
// authoring tool is local and the calls are rare.
type Client struct {
	url     string
	timeout time.Duration
	logger  *log.Logger
}

// NewClient creates a Client for the given WAAPI URL
// (ws://127.0.0.1:8080/waapi by default in config).
func NewClient(url string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{url: url, timeout: DefaultTimeout, logger: logger}
}

type request struct {
	URI     string         `json:"uri"`
	Args    map[string]any `json:"args,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

type response struct {
	Objects []objectInfo `json:"objects"`
	Message string       `json:"message,omitempty"`
}

type objectInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// LookupEvent asks the authoring tool whether guid names a live object.
// A tool that answers with no objects is a clean not-found, not an error;
// errors mean the tool could not be reached or refused the call.
func (c *Client) LookupEvent(ctx context.Context, guid string) (*LookupResult, error) {
	if guid == "" {
		return nil, fmt.Errorf("guid is required")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to authoring tool at %s: %w", c.url, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	req := request{
		URI: objectGetURI,
		Args: map[string]any{
			"from": map[string]any{"id": []string{guid}},
		},
		Options: map[string]any{
			"return": []string{"id", "name", "path"},
		},
	}
	if err := wsjson.Write(ctx, conn, req); err != nil {
		return nil, fmt.Errorf("failed to send lookup request: %w", err)
	}

	var resp response
	if err := wsjson.Read(ctx, conn, &resp); err != nil {
		return nil, fmt.Errorf("failed to read lookup response: %w", err)
	}
	if resp.Message != "" {
		return nil, fmt.Errorf("authoring tool rejected lookup: %s", resp.Message)
	}

	for _, obj := range resp.Objects {
		if obj.ID == guid {
			return &LookupResult{Found: true, Name: obj.Name, Path: obj.Path}, nil
		}
	}
	return &LookupResult{Found: false}, nil
}
