package protocol

// ACT (client -> server). One struct for the whole closed action set; the
// type field selects which of the optional fields matter.
type ActMsg struct {
	Type    string `json:"type"`
	Room    string `json:"room,omitempty"`    // move
	Message string `json:"message,omitempty"` // chat
	Whisper bool   `json:"whisper,omitempty"` // chat
	Target  string `json:"target,omitempty"`  // chat whisper / ability
	Ability string `json:"ability,omitempty"` // ability
}

// PlayerView is the roster-facing snapshot of one session.
type PlayerView struct {
	Name      string       `json:"name"`
	Room      string       `json:"current_room"`
	Role      string       `json:"role,omitempty"`
	Objective string       `json:"objective,omitempty"`
	Abilities []AbilityRef `json:"abilities,omitempty"`
	Awareness int          `json:"awareness"`
	Focus     string       `json:"focus"`
	IsAI      bool         `json:"is_ai"`
}

// AbilityRef is reference data only; cooldowns are recorded, not enforced.
type AbilityRef struct {
	Name     string `json:"name"`
	Cooldown int    `json:"cooldown"`
}

// WELCOME (server -> client), sent once after a successful join.
type WelcomeMsg struct {
	Type         string     `json:"type"`
	SessionID    string     `json:"session_id"`
	Message      string     `json:"message"`
	Mode         string     `json:"mode"`
	Difficulty   string     `json:"difficulty"`
	Player       PlayerView `json:"player"`
	TotalPlayers int        `json:"total_players"`
	PlayerIndex  int        `json:"player_index"`
	RoomCode     string     `json:"room_code,omitempty"` // story sessions only
}

// EVENTS (server -> client): one filtered batch.
type EventBatchMsg struct {
	Type   string  `json:"type"`
	Events []Event `json:"events"`
}

type PlayerJoinedMsg struct {
	Type         string     `json:"type"`
	Player       PlayerView `json:"player"`
	TotalPlayers int        `json:"total_players"`
}

type PlayerLeftMsg struct {
	Type         string `json:"type"`
	Player       string `json:"player"`
	TotalPlayers int    `json:"total_players"`
}

type ErrorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}
