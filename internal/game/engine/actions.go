package engine

import (
	"fmt"

	"whisperhouse.game/internal/metrics"
	"whisperhouse.game/internal/protocol"
)

// handleAction runs one decoded action against current state. Nothing here is
// fatal: unknown types and illegal transitions are dropped with a diagnostic
// and the session stays registered.
func (e *Engine) handleAction(env ActionEnvelope) {
	s, ok := e.sessions[env.PlayerID]
	if !ok {
		e.log.Printf("dispatch: action from unregistered %q dropped", env.PlayerID)
		return
	}

	switch env.Act.Type {
	case protocol.ActMove:
		e.handleMove(s, env.Act.Room)
	case protocol.ActChat:
		e.handleChat(s, env.Act)
	case protocol.ActAbility:
		e.handleAbility(s, env.Act)
	default:
		e.log.Printf("dispatch: %s from %s ignored (%s)",
			env.Act.Type, s.Name, protocol.ErrUnknownAction)
	}
}

// handleMove succeeds only onto an adjacent room. Invalid moves are dropped,
// not errored: no event, no reply, room unchanged.
func (e *Engine) handleMove(s *Session, target string) {
	if !e.g.Has(target) || !e.g.Adjacent(s.Room, target) {
		e.log.Printf("dispatch: move %s -> %s by %s dropped (%s)",
			s.Room, target, s.Name, protocol.ErrInvalidTransition)
		return
	}
	s.Room = target
	s.LastAction = e.now()

	e.appendEvent(protocol.Event{
		Type:       protocol.EventMove,
		Visibility: protocol.VisRoom,
		Room:       s.Room,
		Player:     s.Name,
	})
	e.broadcastRoom(s.Room)
}

func (e *Engine) handleChat(s *Session, act protocol.ActMsg) {
	s.LastAction = e.now()

	if act.Whisper {
		e.handleWhisper(s, act)
		return
	}

	e.appendEvent(protocol.Event{
		Type:       protocol.EventChat,
		Visibility: protocol.VisRoom,
		Room:       s.Room,
		Player:     s.Name,
		Message:    act.Message,
	})
	e.broadcastRoom(s.Room)
}

// handleWhisper delivers point-to-point only: straight to the target's sink,
// never through the log, so the shared filter path cannot leak it. A whisper
// to an absent or out-of-room target is dropped silently.
func (e *Engine) handleWhisper(s *Session, act protocol.ActMsg) {
	target, ok := e.sessions[act.Target]
	if !ok {
		e.log.Printf("dispatch: whisper from %s to %q dropped (%s)",
			s.Name, act.Target, protocol.ErrTargetNotFound)
		metrics.WhispersTotal.WithLabelValues("dropped").Inc()
		return
	}
	if target.Room != s.Room {
		e.log.Printf("dispatch: whisper from %s to %s dropped (%s)",
			s.Name, target.Name, protocol.ErrTargetUnreachable)
		metrics.WhispersTotal.WithLabelValues("dropped").Inc()
		return
	}

	ev := protocol.Event{
		Type:       protocol.EventWhisper,
		Visibility: protocol.VisWhisper,
		Room:       s.Room,
		Player:     s.Name,
		Target:     target.Name,
		Message:    act.Message,
		Timestamp:  float64(e.now().UnixNano()) / 1e9,
	}
	batch := protocol.EventBatchMsg{Type: protocol.TypeEvents, Events: []protocol.Event{ev}}
	if !e.sendJSON(target, batch) {
		e.dropFailed([]string{target.Name})
		metrics.WhispersTotal.WithLabelValues("dropped").Inc()
		return
	}
	metrics.WhispersTotal.WithLabelValues("delivered").Inc()
}

// handleAbility records the attempt; cooldown and range stay reference data.
func (e *Engine) handleAbility(s *Session, act protocol.ActMsg) {
	s.LastAction = e.now()

	ev := protocol.Event{
		Type:       protocol.EventAbility,
		Visibility: protocol.VisRoom,
		Room:       s.Room,
		Player:     s.Name,
		Target:     act.Target,
		Ability:    act.Ability,
	}
	if def, ok := e.cats.Ability(act.Ability); ok {
		ev.CooldownS = def.Cooldown
	}
	e.appendEvent(ev)
	e.broadcastRoom(s.Room)
}

// handleInject appends a GM-authored custom event into a room and fans it
// out like any room-scoped event. It bypasses the session registry: no
// participant authors it.
func (e *Engine) handleInject(req injectReq) injectResp {
	if !e.g.Has(req.Room) {
		return injectResp{Err: fmt.Errorf("%w: %q", ErrUnknownRoom, req.Room)}
	}
	msg := req.Message
	if msg == "" {
		msg = fmt.Sprintf("Something stirs in the %s.", req.Room)
	}
	ev := e.appendEvent(protocol.Event{
		Type:       protocol.EventCustom,
		Visibility: protocol.VisRoom,
		Room:       req.Room,
		Message:    msg,
	})
	e.broadcastRoom(req.Room)
	return injectResp{Event: ev}
}
