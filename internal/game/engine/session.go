package engine

import (
	"time"

	"whisperhouse.game/internal/protocol"
)

// Focus states are advisory; the dispatcher records them but enforces
// nothing.
const (
	FocusNormal     = "normal"
	FocusAlert      = "alert"
	FocusDistracted = "distracted"
)

// Session is the live state of one connected participant. The registry map in
// Engine is the only place current-room state lives; snapshots handed out of
// the loop are copies.
type Session struct {
	ID   string // server-assigned session id
	Name string // participant id, chosen by the client

	Room      string
	Awareness int
	Focus     string

	Role      string
	Objective string
	Abilities []protocol.AbilityRef

	IsAI bool

	// Out is the connection sink: a bounded channel drained by the
	// transport's writer goroutine. Nil for synthetic players.
	Out chan []byte

	ConnectedAt time.Time
	LastAction  time.Time

	seq int // join order, used for player index and role assignment
}

func (s *Session) View() protocol.PlayerView {
	abilities := make([]protocol.AbilityRef, len(s.Abilities))
	copy(abilities, s.Abilities)
	return protocol.PlayerView{
		Name:      s.Name,
		Room:      s.Room,
		Role:      s.Role,
		Objective: s.Objective,
		Abilities: abilities,
		Awareness: s.Awareness,
		Focus:     s.Focus,
		IsAI:      s.IsAI,
	}
}
