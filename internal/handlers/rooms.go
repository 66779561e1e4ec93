package handlers

import "net/http"

// RoomInfo describes one room of the house for clients drawing a map.
type RoomInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Exits       []string `json:"exits"`
}

// RoomsResponse is the full layout.
type RoomsResponse struct {
	Entry string     `json:"entry"`
	Rooms []RoomInfo `json:"rooms"`
}

// Rooms handles GET /rooms.
func (h *Handler) Rooms(w http.ResponseWriter, r *http.Request) {
	g := h.engine.Graph()
	names := g.Rooms()
	rooms := make([]RoomInfo, 0, len(names))
	for _, name := range names {
		rooms = append(rooms, RoomInfo{
			Name:        name,
			Description: g.Describe(name),
			Exits:       g.Neighbors(name),
		})
	}
	h.JSON(w, http.StatusOK, RoomsResponse{Entry: g.Entry(), Rooms: rooms})
}
