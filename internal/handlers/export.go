package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"whisperhouse.game/internal/protocol"
)

// ExportResponse is the JSON shape of a full transcript export.
type ExportResponse struct {
	ExportedAt  string           `json:"exported_at"`
	TotalEvents int              `json:"total_events"`
	Events      []protocol.Event `json:"events"`
}

// Export handles GET /export?format=json|text. The whole retained event
// log is dumped; whispers were never logged so none appear here.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	events, err := h.engine.EventsSnapshot(r.Context())
	if err != nil {
		h.Error(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		if events == nil {
			events = []protocol.Event{}
		}
		h.JSON(w, http.StatusOK, ExportResponse{
			ExportedAt:  time.Now().UTC().Format(time.RFC3339),
			TotalEvents: len(events),
			Events:      events,
		})
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="transcript.txt"`)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Whisper House transcript, %d events\n\n", len(events))
		for _, ev := range events {
			fmt.Fprintln(w, formatEventLine(ev))
		}
	default:
		h.Error(w, http.StatusBadRequest, "unknown format: "+format)
	}
}

// formatEventLine renders one event as a human-readable transcript line.
func formatEventLine(ev protocol.Event) string {
	sec := int64(ev.Timestamp)
	stamp := time.Unix(sec, 0).UTC().Format("15:04:05")

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] ", stamp, ev.Room)
	switch ev.Type {
	case protocol.EventMove:
		fmt.Fprintf(&b, "%s enters", ev.Player)
	case protocol.EventChat:
		fmt.Fprintf(&b, "%s: %s", ev.Player, ev.Message)
	case protocol.EventAbility:
		fmt.Fprintf(&b, "%s uses %s", ev.Player, ev.Ability)
	case protocol.EventAmbient:
		fmt.Fprintf(&b, "* %s", ev.Message)
	case protocol.EventCustom:
		fmt.Fprintf(&b, "! %s", ev.Message)
	default:
		fmt.Fprintf(&b, "%s %s %s", ev.Player, ev.Type, ev.Message)
	}
	return strings.TrimRight(b.String(), " ")
}
