package engine

import (
	"context"
	"errors"

	"whisperhouse.game/internal/protocol"
)

// The exported query/control API. Every call funnels a request through the
// engine loop and waits for the answer, so callers always observe a
// consistent snapshot.

var (
	ErrEngineStopped = errors.New("engine stopped")
	ErrUnknownRoom   = errors.New("unknown room")
)

func (e *Engine) PlayersSnapshot(ctx context.Context) ([]protocol.PlayerView, error) {
	resp := make(chan []protocol.PlayerView, 1)
	select {
	case e.playersReq <- resp:
	case <-e.stop:
		return nil, ErrEngineStopped
	case <-e.done:
		return nil, ErrEngineStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case v := <-resp:
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// EventsSnapshot is the read-only access to the full event log, for the
// exporter. The returned slice is a copy.
func (e *Engine) EventsSnapshot(ctx context.Context) ([]protocol.Event, error) {
	resp := make(chan []protocol.Event, 1)
	select {
	case e.eventsReq <- resp:
	case <-e.stop:
		return nil, ErrEngineStopped
	case <-e.done:
		return nil, ErrEngineStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case v := <-resp:
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *Engine) SetMode(ctx context.Context, mode, difficulty string, aiSlots int) (ModeView, error) {
	req := modeReq{Mode: mode, Difficulty: difficulty, AISlots: aiSlots, Resp: make(chan ModeView, 1)}
	select {
	case e.modeReq <- req:
	case <-e.stop:
		return ModeView{}, ErrEngineStopped
	case <-e.done:
		return ModeView{}, ErrEngineStopped
	case <-ctx.Done():
		return ModeView{}, ctx.Err()
	}
	select {
	case v := <-req.Resp:
		return v, nil
	case <-ctx.Done():
		return ModeView{}, ctx.Err()
	}
}

// Mode reads the current settings without changing them.
func (e *Engine) Mode(ctx context.Context) (ModeView, error) {
	req := modeReq{ReadOnly: true, Resp: make(chan ModeView, 1)}
	select {
	case e.modeReq <- req:
	case <-e.stop:
		return ModeView{}, ErrEngineStopped
	case <-e.done:
		return ModeView{}, ErrEngineStopped
	case <-ctx.Done():
		return ModeView{}, ctx.Err()
	}
	select {
	case v := <-req.Resp:
		return v, nil
	case <-ctx.Done():
		return ModeView{}, ctx.Err()
	}
}

func (e *Engine) AssignRoles(ctx context.Context) ([]protocol.PlayerView, error) {
	resp := make(chan []protocol.PlayerView, 1)
	select {
	case e.rolesReq <- resp:
	case <-e.stop:
		return nil, ErrEngineStopped
	case <-e.done:
		return nil, ErrEngineStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case v := <-resp:
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *Engine) Start(ctx context.Context) (StartView, error) {
	resp := make(chan StartView, 1)
	select {
	case e.startReq <- resp:
	case <-e.stop:
		return StartView{}, ErrEngineStopped
	case <-e.done:
		return StartView{}, ErrEngineStopped
	case <-ctx.Done():
		return StartView{}, ctx.Err()
	}
	select {
	case v := <-resp:
		return v, nil
	case <-ctx.Done():
		return StartView{}, ctx.Err()
	}
}

func (e *Engine) AddAIPlayers(ctx context.Context, count int) (int, error) {
	req := aiReq{Count: count, Resp: make(chan int, 1)}
	select {
	case e.aiReq <- req:
	case <-e.stop:
		return 0, ErrEngineStopped
	case <-e.done:
		return 0, ErrEngineStopped
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	select {
	case v := <-req.Resp:
		return v, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// InjectEvent appends a custom room-scoped event on behalf of the game
// master and fans it out to the room's occupants.
func (e *Engine) InjectEvent(ctx context.Context, room, message string) (protocol.Event, error) {
	req := injectReq{Room: room, Message: message, Resp: make(chan injectResp, 1)}
	select {
	case e.injectReq <- req:
	case <-e.stop:
		return protocol.Event{}, ErrEngineStopped
	case <-e.done:
		return protocol.Event{}, ErrEngineStopped
	case <-ctx.Done():
		return protocol.Event{}, ctx.Err()
	}
	select {
	case v := <-req.Resp:
		return v.Event, v.Err
	case <-ctx.Done():
		return protocol.Event{}, ctx.Err()
	}
}
