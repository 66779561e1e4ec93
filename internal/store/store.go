package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PlayerRecord is the durable trace of one identity that ever joined.
type PlayerRecord struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Role       string    `json:"role,omitempty"`
	LastRoom   string    `json:"last_room"`
	IsAI       bool      `json:"is_ai"`
	JoinedAt   time.Time `json:"joined_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// GameRecord is one configured run of the engine.
type GameRecord struct {
	ID         uuid.UUID  `json:"id"`
	Mode       string     `json:"mode"`
	Difficulty string     `json:"difficulty"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	EventCount int64      `json:"event_count"`
}

// StoryRecord is one created story session, addressed by its room code.
type StoryRecord struct {
	RoomCode  string    `json:"room_code"`
	World     string    `json:"world"`
	Character string    `json:"character"`
	Genre     string    `json:"genre"`
	CreatedAt time.Time `json:"created_at"`
}

// DataStore defines persistent storage for player and game history.
type DataStore interface {
	Close()
	Ping(ctx context.Context) error

	UpsertPlayer(ctx context.Context, rec PlayerRecord) error
	GetPlayerByName(ctx context.Context, name string) (*PlayerRecord, error)
	ListPlayers(ctx context.Context, limit, offset int) ([]PlayerRecord, int64, error)

	CreateGame(ctx context.Context, mode, difficulty string) (*GameRecord, error)
	GetGame(ctx context.Context, id uuid.UUID) (*GameRecord, error)
	LatestGame(ctx context.Context) (*GameRecord, error)
	MarkGameStarted(ctx context.Context, id uuid.UUID, at time.Time) error
	AddGameEvents(ctx context.Context, id uuid.UUID, n int64) error

	CreateStory(ctx context.Context, world, character, genre string) (*StoryRecord, error)
	ListStories(ctx context.Context) ([]StoryRecord, error)
}
