package handlers

import (
	"encoding/json"
	"net/http"

	"whisperhouse.game/internal/store"
)

// NewStoryRequest creates a story session. Empty fields fall back to the
// defaults of the solo campaign.
type NewStoryRequest struct {
	World     string `json:"world"`
	Character string `json:"character"`
	Genre     string `json:"genre"`
}

// NewStoryResponse hands back the room code a client reconnects with.
type NewStoryResponse struct {
	RoomCode string            `json:"room_code"`
	Session  store.StoryRecord `json:"session"`
}

// NewStory handles POST /story/new.
func (h *Handler) NewStory(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		h.Error(w, http.StatusNotImplemented, "persistence disabled")
		return
	}

	var req NewStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.World == "" {
		req.World = "default"
	}
	if req.Character == "" {
		req.Character = "Player"
	}
	if req.Genre == "" {
		req.Genre = "mystery"
	}

	rec, err := h.db.CreateStory(r.Context(), req.World, req.Character, req.Genre)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to create story")
		return
	}
	h.JSON(w, http.StatusOK, NewStoryResponse{RoomCode: rec.RoomCode, Session: *rec})
}

// ListStoriesResponse is every story session on record.
type ListStoriesResponse struct {
	Total    int                 `json:"total"`
	Sessions []store.StoryRecord `json:"sessions"`
}

// ListStories handles GET /story/list.
func (h *Handler) ListStories(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		h.Error(w, http.StatusNotImplemented, "persistence disabled")
		return
	}

	recs, err := h.db.ListStories(r.Context())
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to list stories")
		return
	}
	if recs == nil {
		recs = []store.StoryRecord{}
	}
	h.JSON(w, http.StatusOK, ListStoriesResponse{Total: len(recs), Sessions: recs})
}
