package protocol

// Event types.
const (
	EventMove    = "move"
	EventChat    = "chat"
	EventWhisper = "whisper"
	EventAbility = "ability_used"
	EventAmbient = "ambient"
	EventCustom  = "custom"
)

// Visibility classes. The class, not the event type, decides which observers
// an event reaches.
const (
	VisGlobal  = "global"
	VisRoom    = "room"
	VisWhisper = "whisper"
	VisAmbient = "ambient"
)

// Event is one entry of the append-only log. Immutable once appended; its
// position in the log is its identity.
type Event struct {
	Type       string  `json:"type"`
	Visibility string  `json:"visibility"`
	Room       string  `json:"room,omitempty"`
	Player     string  `json:"player,omitempty"`
	Target     string  `json:"target,omitempty"`
	Message    string  `json:"message,omitempty"`
	Ability    string  `json:"ability,omitempty"`
	CooldownS  int     `json:"cooldown_s,omitempty"`
	Volume     int     `json:"volume,omitempty"`
	Timestamp  float64 `json:"timestamp"` // unix seconds, assigned on append
}
