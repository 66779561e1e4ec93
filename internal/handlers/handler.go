package handlers

import (
	"encoding/json"
	"net/http"

	"whisperhouse.game/internal/game/engine"
	"whisperhouse.game/internal/store"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	engine *engine.Engine
	db     store.DataStore // nil when persistence is disabled
}

// NewHandler creates a new Handler. db may be nil.
func NewHandler(e *engine.Engine, db store.DataStore) *Handler {
	return &Handler{engine: e, db: db}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}
