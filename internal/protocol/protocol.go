package protocol

import "encoding/json"

const Version = "1.0"

// Server -> client message types.
const (
	TypeWelcome      = "welcome"
	TypeEvents       = "events"
	TypePlayerJoined = "player_joined"
	TypePlayerLeft   = "player_left"
	TypeError        = "error"
)

// Client -> server action types.
const (
	ActMove    = "move"
	ActChat    = "chat"
	ActAbility = "ability"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type string `json:"type"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

// IsKnownAction reports whether t is a member of the closed action set.
// Anything else is rejected at the transport boundary, not deep in dispatch.
func IsKnownAction(t string) bool {
	switch t {
	case ActMove, ActChat, ActAbility:
		return true
	default:
		return false
	}
}
