package main

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"whisperhouse.game/internal/game/engine"
	"whisperhouse.game/internal/protocol"
	"whisperhouse.game/internal/store"
)

// countingTranscript composes the real transcript sink with a counter, so
// the store's per-game event totals track the durable log. The count only
// touches an atomic on the engine path; the db write happens on a ticker.
type countingTranscript struct {
	inner engine.TranscriptLogger
	n     atomic.Int64
}

func (c *countingTranscript) WriteEvent(ev protocol.Event) error {
	c.n.Add(1)
	return c.inner.WriteEvent(ev)
}

// flushEventCounts periodically moves the accumulated count onto the most
// recent game record. Counts observed with no game configured are dropped.
func flushEventCounts(ctx context.Context, c *countingTranscript, db store.DataStore, logger *log.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	flush := func() {
		delta := c.n.Swap(0)
		if delta == 0 {
			return
		}
		opCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		g, err := db.LatestGame(opCtx)
		if err != nil || g == nil {
			return
		}
		if err := db.AddGameEvents(opCtx, g.ID, delta); err != nil {
			logger.Printf("persist event count: %v", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case <-ticker.C:
			flush()
		}
	}
}
