package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"

	"whisperhouse.game/internal/protocol"
	"whisperhouse.game/internal/store"
)

type discardTranscript struct{}

func (discardTranscript) WriteEvent(protocol.Event) error { return nil }

func TestCountingTranscript_FlushOnShutdown(t *testing.T) {
	ctx := context.Background()
	db, err := store.NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer db.Close()

	g, err := db.CreateGame(ctx, "game", "normal")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	ct := &countingTranscript{inner: discardTranscript{}}
	for i := 0; i < 3; i++ {
		if err := ct.WriteEvent(protocol.Event{Type: protocol.EventChat, Player: "mara"}); err != nil {
			t.Fatalf("write event: %v", err)
		}
	}

	flushCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	logger := log.New(os.Stderr, "[test] ", 0)
	go func() {
		flushEventCounts(flushCtx, ct, db, logger)
		close(done)
	}()
	cancel()
	<-done

	got, err := db.GetGame(ctx, g.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if got.EventCount != 3 {
		t.Fatalf("event count = %d, want 3", got.EventCount)
	}
	if ct.n.Load() != 0 {
		t.Fatalf("counter not drained: %d", ct.n.Load())
	}
}
