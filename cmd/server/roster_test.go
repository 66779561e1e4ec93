package main

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	"whisperhouse.game/internal/protocol"
	"whisperhouse.game/internal/store"
)

func TestRosterPersister_JoinThenLeave(t *testing.T) {
	db, err := store.NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "roster.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer db.Close()

	p := newRosterPersister(db, log.New(io.Discard, "", 0))

	p.PlayerJoined(protocol.PlayerView{Name: "mara", Room: "Library"})
	time.Sleep(50 * time.Millisecond)
	p.PlayerLeft("mara")
	p.Close()

	rec, err := db.GetPlayerByName(context.Background(), "mara")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec == nil {
		t.Fatal("player not persisted")
	}
	if rec.LastRoom != "Library" {
		t.Fatalf("last_room = %s", rec.LastRoom)
	}
	if rec.LastSeenAt.Before(rec.JoinedAt) {
		t.Fatalf("last_seen (%v) before joined (%v)", rec.LastSeenAt, rec.JoinedAt)
	}
}

func TestRosterPersister_CloseIsIdempotent(t *testing.T) {
	db, err := store.NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "roster.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer db.Close()

	p := newRosterPersister(db, log.New(io.Discard, "", 0))
	p.Close()
	p.Close()

	// Enqueue after close must not panic.
	p.PlayerLeft("ghost")
}
