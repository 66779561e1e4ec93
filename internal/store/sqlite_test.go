package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestUpsertPlayer_InsertThenRefresh(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	err := s.UpsertPlayer(ctx, PlayerRecord{
		Name: "mara", LastRoom: "Library", JoinedAt: now, LastSeenAt: now,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	later := now.Add(time.Minute)
	err = s.UpsertPlayer(ctx, PlayerRecord{
		Name: "mara", Role: "Detective", LastRoom: "Kitchen", JoinedAt: later, LastSeenAt: later,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rec, err := s.GetPlayerByName(ctx, "mara")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec == nil {
		t.Fatal("player not found")
	}
	if rec.Role != "Detective" || rec.LastRoom != "Kitchen" {
		t.Fatalf("record not refreshed: %+v", rec)
	}
	if !rec.JoinedAt.Equal(now) {
		t.Fatalf("joined_at overwritten: %v", rec.JoinedAt)
	}
}

func TestGetPlayerByName_Absent(t *testing.T) {
	s := newTestStore(t)
	rec, err := s.GetPlayerByName(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil, got %+v", rec)
	}
}

func TestListPlayers_OrderAndTotal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	for i, name := range []string{"mara", "finn", "iris"} {
		at := base.Add(time.Duration(i) * time.Second)
		if err := s.UpsertPlayer(ctx, PlayerRecord{Name: name, JoinedAt: at, LastSeenAt: at}); err != nil {
			t.Fatalf("insert %s: %v", name, err)
		}
	}

	players, total, err := s.ListPlayers(ctx, 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if len(players) != 2 || players[0].Name != "mara" || players[1].Name != "finn" {
		t.Fatalf("page = %+v", players)
	}
}

func TestGameLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	g, err := s.CreateGame(ctx, "game", "hard")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	latest, err := s.LatestGame(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.ID != g.ID {
		t.Fatalf("latest = %+v", latest)
	}
	if latest.StartedAt != nil {
		t.Fatal("unstarted game has started_at")
	}

	start := time.Now().UTC().Truncate(time.Second)
	if err := s.MarkGameStarted(ctx, g.ID, start); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.AddGameEvents(ctx, g.ID, 7); err != nil {
		t.Fatalf("events: %v", err)
	}

	got, err := s.GetGame(ctx, g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.StartedAt == nil || !got.StartedAt.Equal(start) {
		t.Fatalf("started_at = %v", got.StartedAt)
	}
	if got.EventCount != 7 {
		t.Fatalf("event_count = %d", got.EventCount)
	}

	// MarkGameStarted is first-write-wins.
	if err := s.MarkGameStarted(ctx, g.ID, start.Add(time.Hour)); err != nil {
		t.Fatalf("restart: %v", err)
	}
	got, err = s.GetGame(ctx, g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.StartedAt.Equal(start) {
		t.Fatalf("started_at rewritten: %v", got.StartedAt)
	}
}

func TestLatestGame_Empty(t *testing.T) {
	s := newTestStore(t)
	latest, err := s.LatestGame(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil, got %+v", latest)
	}
}

func TestCreateStory_CodeShape(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec, err := s.CreateStory(ctx, "manor", "Mara", "mystery")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(rec.RoomCode) != 6 {
		t.Fatalf("room code %q, want 6 characters", rec.RoomCode)
	}
	for _, c := range rec.RoomCode {
		if !strings.ContainsRune(roomCodeAlphabet, c) {
			t.Fatalf("room code %q contains %q outside the alphabet", rec.RoomCode, c)
		}
	}
	if rec.World != "manor" || rec.Character != "Mara" || rec.Genre != "mystery" {
		t.Fatalf("record = %+v", rec)
	}
}

func TestListStories_ReturnsAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateStory(ctx, "manor", "Mara", "mystery")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := s.CreateStory(ctx, "manor", "Finn", "horror")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.RoomCode == second.RoomCode {
		t.Fatalf("room codes collided: %s", first.RoomCode)
	}

	stories, err := s.ListStories(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stories) != 2 {
		t.Fatalf("stories = %d, want 2", len(stories))
	}
	codes := map[string]bool{stories[0].RoomCode: true, stories[1].RoomCode: true}
	if !codes[first.RoomCode] || !codes[second.RoomCode] {
		t.Fatalf("listing missing a created story: %+v", stories)
	}
}

func TestListStories_Empty(t *testing.T) {
	s := newTestStore(t)
	stories, err := s.ListStories(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stories) != 0 {
		t.Fatalf("expected no stories, got %+v", stories)
	}
}
