package handlers

import (
	"net/http"
	"strconv"
	"time"

	"whisperhouse.game/internal/protocol"
)

// PlayersResponse lists the sessions connected right now.
type PlayersResponse struct {
	Players []protocol.PlayerView `json:"players"`
	Total   int                   `json:"total"`
}

// ListPlayers handles GET /players.
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.engine.PlayersSnapshot(r.Context())
	if err != nil {
		h.Error(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if players == nil {
		players = []protocol.PlayerView{}
	}
	h.JSON(w, http.StatusOK, PlayersResponse{Players: players, Total: len(players)})
}

// PlayerHistoryResponse is a page of the durable player table.
type PlayerHistoryResponse struct {
	Players []playerHistoryEntry `json:"players"`
	Total   int64                `json:"total"`
	Limit   int                  `json:"limit"`
	Offset  int                  `json:"offset"`
}

type playerHistoryEntry struct {
	Name       string `json:"name"`
	Role       string `json:"role,omitempty"`
	LastRoom   string `json:"last_room"`
	IsAI       bool   `json:"is_ai"`
	JoinedAt   string `json:"joined_at"`
	LastSeenAt string `json:"last_seen_at"`
}

// PlayerHistory handles GET /players/history, backed by the store.
func (h *Handler) PlayerHistory(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		h.Error(w, http.StatusNotImplemented, "persistence disabled")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = 50
	}

	recs, total, err := h.db.ListPlayers(r.Context(), limit, offset)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to list players")
		return
	}

	out := make([]playerHistoryEntry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, playerHistoryEntry{
			Name:       rec.Name,
			Role:       rec.Role,
			LastRoom:   rec.LastRoom,
			IsAI:       rec.IsAI,
			JoinedAt:   rec.JoinedAt.UTC().Format(time.RFC3339),
			LastSeenAt: rec.LastSeenAt.UTC().Format(time.RFC3339),
		})
	}
	h.JSON(w, http.StatusOK, PlayerHistoryResponse{Players: out, Total: total, Limit: limit, Offset: offset})
}
