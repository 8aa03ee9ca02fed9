package bridge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// fakeTool stands in for the authoring tool's WAAPI endpoint: it answers
// one object.get call per connection from a fixed object table.
func fakeTool(t *testing.T, objects map[string]objectInfo) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var req request
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			return
		}
		if req.URI != objectGetURI {
			_ = wsjson.Write(ctx, conn, response{Message: "unknown uri " + req.URI})
			return
		}

		var resp response
		if from, ok := req.Args["from"].(map[string]any); ok {
			if ids, ok := from["id"].([]any); ok {
				for _, raw := range ids {
					id, _ := raw.(string)
					if obj, ok := objects[id]; ok {
						resp.Objects = append(resp.Objects, obj)
					}
				}
			}
		}
		_ = wsjson.Write(ctx, conn, resp)
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws://" + strings.TrimPrefix(server.URL, "http://")
}

// TestLookupEvent_Found verifies a known GUID resolves with name and path.
func TestLookupEvent_Found(t *testing.T) {
	server := fakeTool(t, map[string]objectInfo{
		"{abc-1}": {ID: "{abc-1}", Name: "Explosion_Far", Path: "\\Events\\SFX\\Explosion_Far"},
	})
	defer server.Close()

	c := NewClient(wsURL(server), nil)
	result, err := c.LookupEvent(context.Background(), "{abc-1}")
	if err != nil {
		t.Fatalf("LookupEvent() failed: %v", err)
	}
	if !result.Found {
		t.Fatal("Found = false, want true")
	}
	if result.Name != "Explosion_Far" {
		t.Errorf("Name = %q", result.Name)
	}
}

// TestLookupEvent_NotFound verifies an unknown GUID is a clean not-found.
func TestLookupEvent_NotFound(t *testing.T) {
	server := fakeTool(t, nil)
	defer server.Close()

	c := NewClient(wsURL(server), nil)
	result, err := c.LookupEvent(context.Background(), "{nope}")
	if err != nil {
		t.Fatalf("LookupEvent() failed: %v", err)
	}
	if result.Found {
		t.Error("Found = true, want false")
	}
}

// TestLookupEvent_ToolUnreachable verifies a connection failure surfaces as
// an error, not a not-found.
func TestLookupEvent_ToolUnreachable(t *testing.T) {
	c := NewClient("ws://127.0.0.1:1/waapi", nil)
	if _, err := c.LookupEvent(context.Background(), "{abc-1}"); err == nil {
		t.Error("LookupEvent() succeeded against nothing, want error")
	}
}

// TestLookupEvent_EmptyGUID verifies input validation.
func TestLookupEvent_EmptyGUID(t *testing.T) {
	c := NewClient("ws://127.0.0.1:1/waapi", nil)
	if _, err := c.LookupEvent(context.Background(), ""); err == nil {
		t.Error("LookupEvent(\"\") succeeded, want error")
	}
}
