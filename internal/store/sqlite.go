package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore handles SQLite database operations.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
// If dbPath is empty, defaults to "./data/whisperhouse.db".
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/whisperhouse.db"
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, err
	}

	// modernc's driver is not safe for concurrent writers on one file.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		role TEXT DEFAULT '',
		last_room TEXT DEFAULT '',
		is_ai INTEGER DEFAULT 0,
		joined_at DATETIME NOT NULL,
		last_seen_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		started_at DATETIME,
		created_at DATETIME NOT NULL,
		event_count INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS stories (
		room_code TEXT PRIMARY KEY,
		world TEXT NOT NULL,
		character TEXT NOT NULL,
		genre TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_players_name ON players(name);
	CREATE INDEX IF NOT EXISTS idx_games_created ON games(created_at);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// UpsertPlayer inserts the record or refreshes it by name.
func (s *SQLiteStore) UpsertPlayer(ctx context.Context, rec PlayerRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, name, role, last_room, is_ai, joined_at, last_seen_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			role = excluded.role,
			last_room = excluded.last_room,
			last_seen_at = excluded.last_seen_at
	`, rec.ID.String(), rec.Name, rec.Role, rec.LastRoom, rec.IsAI, rec.JoinedAt, rec.LastSeenAt)
	return err
}

// GetPlayerByName retrieves a player record, nil if absent.
func (s *SQLiteStore) GetPlayerByName(ctx context.Context, name string) (*PlayerRecord, error) {
	rec := &PlayerRecord{}
	var idStr string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, role, last_room, is_ai, joined_at, last_seen_at
		FROM players WHERE name = ?
	`, name).Scan(&idStr, &rec.Name, &rec.Role, &rec.LastRoom, &rec.IsAI, &rec.JoinedAt, &rec.LastSeenAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rec.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListPlayers returns a page of players ordered by join time plus the total count.
func (s *SQLiteStore) ListPlayers(ctx context.Context, limit, offset int) ([]PlayerRecord, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, role, last_room, is_ai, joined_at, last_seen_at
		FROM players ORDER BY joined_at ASC LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []PlayerRecord
	for rows.Next() {
		var rec PlayerRecord
		var idStr string
		if err := rows.Scan(&idStr, &rec.Name, &rec.Role, &rec.LastRoom, &rec.IsAI, &rec.JoinedAt, &rec.LastSeenAt); err != nil {
			return nil, 0, err
		}
		rec.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}

// CreateGame records a newly configured run.
func (s *SQLiteStore) CreateGame(ctx context.Context, mode, difficulty string) (*GameRecord, error) {
	rec := &GameRecord{
		ID:         uuid.New(),
		Mode:       mode,
		Difficulty: difficulty,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO games (id, mode, difficulty, created_at, event_count)
		VALUES (?, ?, ?, ?, 0)
	`, rec.ID.String(), rec.Mode, rec.Difficulty, rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetGame retrieves a game record, nil if absent.
func (s *SQLiteStore) GetGame(ctx context.Context, id uuid.UUID) (*GameRecord, error) {
	return s.scanGame(s.db.QueryRowContext(ctx, `
		SELECT id, mode, difficulty, started_at, created_at, event_count
		FROM games WHERE id = ?
	`, id.String()))
}

// LatestGame returns the most recently created game, nil if none.
func (s *SQLiteStore) LatestGame(ctx context.Context) (*GameRecord, error) {
	return s.scanGame(s.db.QueryRowContext(ctx, `
		SELECT id, mode, difficulty, started_at, created_at, event_count
		FROM games ORDER BY created_at DESC, id DESC LIMIT 1
	`))
}

func (s *SQLiteStore) scanGame(row *sql.Row) (*GameRecord, error) {
	rec := &GameRecord{}
	var idStr string
	var started sql.NullTime
	err := row.Scan(&idStr, &rec.Mode, &rec.Difficulty, &started, &rec.CreatedAt, &rec.EventCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rec.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	if started.Valid {
		t := started.Time
		rec.StartedAt = &t
	}
	return rec, nil
}

// MarkGameStarted sets the start timestamp once.
func (s *SQLiteStore) MarkGameStarted(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE games SET started_at = ? WHERE id = ? AND started_at IS NULL
	`, at, id.String())
	return err
}

// AddGameEvents bumps the event counter.
func (s *SQLiteStore) AddGameEvents(ctx context.Context, id uuid.UUID, n int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE games SET event_count = event_count + ? WHERE id = ?
	`, n, id.String())
	return err
}

const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func newRoomCode() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = roomCodeAlphabet[int(b[i])%len(roomCodeAlphabet)]
	}
	return string(b), nil
}

// CreateStory records a new story session under a fresh room code. Code
// collisions are resolved by retrying against the primary key.
func (s *SQLiteStore) CreateStory(ctx context.Context, world, character, genre string) (*StoryRecord, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := newRoomCode()
		if err != nil {
			return nil, err
		}
		rec := &StoryRecord{
			RoomCode:  code,
			World:     world,
			Character: character,
			Genre:     genre,
			CreatedAt: time.Now().UTC(),
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO stories (room_code, world, character, genre, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, rec.RoomCode, rec.World, rec.Character, rec.Genre, rec.CreatedAt)
		if err == nil {
			return rec, nil
		}
		if !strings.Contains(err.Error(), "UNIQUE") {
			return nil, err
		}
	}
	return nil, errors.New("room code space exhausted")
}

// ListStories returns every story session, newest first.
func (s *SQLiteStore) ListStories(ctx context.Context) ([]StoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT room_code, world, character, genre, created_at
		FROM stories ORDER BY created_at DESC, room_code ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoryRecord
	for rows.Next() {
		var rec StoryRecord
		if err := rows.Scan(&rec.RoomCode, &rec.World, &rec.Character, &rec.Genre, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
