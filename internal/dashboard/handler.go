package dashboard

import (
	"encoding/json"
	"io"
	"log"
	"time"

	"github.com/wavebeam/wwvault/internal/engine"
	"github.com/wavebeam/wwvault/internal/wwise"
)

// Handler formats engine events as dashboard messages. It plugs into the
// driver's progress hook and is called from the sync goroutine, so every
// method must return quickly; the server's broadcast channel absorbs the
// rest.
type Handler struct {
	server *Server
	logger *log.Logger
}

// NewHandler creates a handler bound to a dashboard server.
func NewHandler(server *Server, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Handler{server: server, logger: logger}
}

// OnRunStarted announces a new sync run.
func (h *Handler) OnRunStarted(project string, recordCount int) {
	h.send(MessageTypeRunStarted, RunStartedData{
		Project:     project,
		RecordCount: recordCount,
	})
}

// OnRecordSynced reports one record's outcome; it satisfies the driver's
// progress hook signature.
func (h *Handler) OnRecordSynced(rec *wwise.Record, action engine.Action, detail string) {
	h.send(MessageTypeRecordSynced, RecordSyncedData{
		RecordID: rec.ID,
		Name:     rec.Name,
		Action:   action.String(),
		Detail:   detail,
	})
}

// OnRunComplete broadcasts a finished run's summary.
func (h *Handler) OnRunComplete(stats engine.Stats, duration time.Duration) {
	h.send(MessageTypeRunComplete, RunCompleteData{
		Created:  stats.Created,
		Updated:  stats.Updated,
		Moved:    stats.Moved,
		Skipped:  stats.Skipped,
		Errors:   stats.Errors,
		Duration: duration,
	})
}

func (h *Handler) send(typ MessageType, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		h.logger.Printf("dashboard: failed to marshal %s data: %v", typ, err)
		return
	}
	h.server.Broadcast(Message{
		Type:      typ,
		Timestamp: time.Now(),
		Data:      payload,
	})
}
