package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"whisperhouse.game/internal/game/engine"
	"whisperhouse.game/internal/protocol"
)

// SetModeRequest configures the next run before it starts.
type SetModeRequest struct {
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
	AIPlayers  int    `json:"ai_players"`
}

// SetMode handles POST /game/mode.
func (h *Handler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req SetModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.AIPlayers < 0 {
		h.Error(w, http.StatusBadRequest, "ai_players must be >= 0")
		return
	}

	view, err := h.engine.SetMode(r.Context(), req.Mode, req.Difficulty, req.AIPlayers)
	if err != nil {
		h.Error(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	if h.db != nil {
		if _, err := h.db.CreateGame(r.Context(), view.Mode, view.Difficulty); err != nil {
			// Mode is applied either way; persistence is best effort here.
			h.JSON(w, http.StatusOK, view)
			return
		}
	}
	h.JSON(w, http.StatusOK, view)
}

// GetMode handles GET /game/mode, returning current settings without changes.
func (h *Handler) GetMode(w http.ResponseWriter, r *http.Request) {
	view, err := h.engine.Mode(r.Context())
	if err != nil {
		h.Error(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	h.JSON(w, http.StatusOK, view)
}

// AssignRoles handles POST /game/assign-roles.
func (h *Handler) AssignRoles(w http.ResponseWriter, r *http.Request) {
	players, err := h.engine.AssignRoles(r.Context())
	if err != nil {
		h.Error(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	h.JSON(w, http.StatusOK, PlayersResponse{Players: players, Total: len(players)})
}

// Start handles POST /game/start.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	view, err := h.engine.Start(r.Context())
	if err != nil {
		h.Error(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	if h.db != nil {
		if g, err := h.db.LatestGame(r.Context()); err == nil && g != nil {
			_ = h.db.MarkGameStarted(r.Context(), g.ID, time.Now().UTC())
		}
	}
	h.JSON(w, http.StatusOK, view)
}

// AddAIRequest asks for synthetic participants.
type AddAIRequest struct {
	Count int `json:"count"`
}

// AddAIResponse reports how many were actually admitted.
type AddAIResponse struct {
	Added int `json:"added"`
}

// AddAIPlayers handles POST /game/add-ai-players.
func (h *Handler) AddAIPlayers(w http.ResponseWriter, r *http.Request) {
	var req AddAIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Count <= 0 {
		h.Error(w, http.StatusBadRequest, "count must be > 0")
		return
	}

	added, err := h.engine.AddAIPlayers(r.Context(), req.Count)
	if err != nil {
		h.Error(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	h.JSON(w, http.StatusOK, AddAIResponse{Added: added})
}

// InjectEventRequest places a game-master event into a room.
type InjectEventRequest struct {
	Room    string `json:"room"`
	Message string `json:"message"`
}

// InjectEventResponse echoes the injected event as appended.
type InjectEventResponse struct {
	Event  protocol.Event `json:"event"`
	Status string         `json:"status"`
}

// InjectEvent handles POST /game/inject-event.
func (h *Handler) InjectEvent(w http.ResponseWriter, r *http.Request) {
	var req InjectEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ev, err := h.engine.InjectEvent(r.Context(), req.Room, req.Message)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownRoom) {
			h.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Error(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	h.JSON(w, http.StatusOK, InjectEventResponse{Event: ev, Status: "injected"})
}
