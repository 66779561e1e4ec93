package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	EventLogCapacity int `yaml:"event_log_capacity"`
	RoomWindow       int `yaml:"room_window"`   // entries scanned by per-room queries
	RecentWindow     int `yaml:"recent_window"` // entries scanned per fanout batch
	ClientQueue      int `yaml:"client_queue"`  // outbound messages buffered per connection

	AmbientPeriodS   int `yaml:"ambient_period_s"`
	DefaultAwareness int `yaml:"default_awareness"`

	MaxPlayersStory int `yaml:"max_players_story"`
	MaxPlayersGame  int `yaml:"max_players_game"`

	Difficulties map[string]Difficulty `yaml:"difficulties"`
}

// Difficulty scales the ambient generator: a tick only emits when a uniform
// 0-10 draw stays at or below Frequency, and then emits Intensity events.
type Difficulty struct {
	Frequency int `yaml:"frequency"`
	Intensity int `yaml:"intensity"`
}

func Defaults() Tuning {
	return Tuning{
		EventLogCapacity: 1000,
		RoomWindow:       50,
		RecentWindow:     100,
		ClientQueue:      32,
		AmbientPeriodS:   5,
		DefaultAwareness: 5,
		MaxPlayersStory:  1,
		MaxPlayersGame:   8,
		Difficulties: map[string]Difficulty{
			"easy":   {Frequency: 10, Intensity: 1},
			"normal": {Frequency: 5, Intensity: 2},
			"hard":   {Frequency: 2, Intensity: 3},
		},
	}
}

func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

// Profile resolves a difficulty name; unrecognized values fall back to normal.
func (t Tuning) Profile(difficulty string) Difficulty {
	if d, ok := t.Difficulties[difficulty]; ok {
		return d
	}
	return t.Difficulties["normal"]
}

// IsKnownDifficulty reports whether name maps to a configured profile.
func (t Tuning) IsKnownDifficulty(name string) bool {
	_, ok := t.Difficulties[name]
	return ok
}
