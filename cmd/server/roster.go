package main

import (
	"context"
	"log"
	"sync"
	"time"

	"whisperhouse.game/internal/protocol"
	"whisperhouse.game/internal/store"
)

type rosterOp struct {
	joined *protocol.PlayerView
	left   string
	at     time.Time
}

// rosterPersister mirrors join/leave notifications into the store. Writes
// happen on a worker goroutine so the engine loop never touches the db;
// a full queue drops the write rather than stalling the caller.
type rosterPersister struct {
	db     store.DataStore
	logger *log.Logger
	ops    chan rosterOp
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

func newRosterPersister(db store.DataStore, logger *log.Logger) *rosterPersister {
	p := &rosterPersister{
		db:     db,
		logger: logger,
		ops:    make(chan rosterOp, 128),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *rosterPersister) PlayerJoined(v protocol.PlayerView) {
	vc := v
	p.enqueue(rosterOp{joined: &vc, at: time.Now().UTC()})
}

func (p *rosterPersister) PlayerLeft(name string) {
	p.enqueue(rosterOp{left: name, at: time.Now().UTC()})
}

func (p *rosterPersister) enqueue(op rosterOp) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.ops <- op:
	default:
		p.logger.Printf("roster persister queue full, dropping write")
	}
}

func (p *rosterPersister) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.ops)
	p.mu.Unlock()
	<-p.done
}

// run drains until Close so queued writes land during shutdown.
func (p *rosterPersister) run() {
	defer close(p.done)
	for op := range p.ops {
		opCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		p.apply(opCtx, op)
		cancel()
	}
}

func (p *rosterPersister) apply(ctx context.Context, op rosterOp) {
	switch {
	case op.joined != nil:
		v := op.joined
		err := p.db.UpsertPlayer(ctx, store.PlayerRecord{
			Name:       v.Name,
			Role:       v.Role,
			LastRoom:   v.Room,
			IsAI:       v.IsAI,
			JoinedAt:   op.at,
			LastSeenAt: op.at,
		})
		if err != nil {
			p.logger.Printf("persist join %s: %v", v.Name, err)
		}
	case op.left != "":
		rec, err := p.db.GetPlayerByName(ctx, op.left)
		if err != nil || rec == nil {
			if err != nil {
				p.logger.Printf("persist leave %s: %v", op.left, err)
			}
			return
		}
		rec.LastSeenAt = op.at
		if err := p.db.UpsertPlayer(ctx, *rec); err != nil {
			p.logger.Printf("persist leave %s: %v", op.left, err)
		}
	}
}
