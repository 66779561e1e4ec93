package engine

import (
	"encoding/json"

	"whisperhouse.game/internal/metrics"
	"whisperhouse.game/internal/protocol"
)

// send pushes one encoded message into a session's sink without blocking. A
// full queue counts as a delivery failure: a peer that cannot drain its
// buffer is treated as dead rather than allowed to stall the loop. Synthetic
// players have no sink and always succeed.
func (e *Engine) send(s *Session, b []byte) bool {
	if s.Out == nil {
		return true
	}
	select {
	case s.Out <- b:
		return true
	default:
		return false
	}
}

// sendJSON marshals and sends; a marshal error is a programming error and is
// only logged.
func (e *Engine) sendJSON(s *Session, v any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		e.log.Printf("fanout: marshal: %v", err)
		return true
	}
	return e.send(s, b)
}

// broadcastRoom recomputes, for every session currently in room, its filtered
// view of the recent log and delivers it as one batch. Failed deliveries are
// collected and the sessions removed afterwards; one dead peer never aborts
// delivery to the rest.
func (e *Engine) broadcastRoom(room string) {
	var failed []string
	for _, s := range e.sessions {
		if s.Room != room {
			continue
		}
		batch := protocol.EventBatchMsg{Type: protocol.TypeEvents, Events: e.filterFor(s)}
		if !e.sendJSON(s, batch) {
			failed = append(failed, s.Name)
		}
	}
	e.dropFailed(failed)
}

// broadcastAmbient is the wide variant used for ambient emissions: the
// audience is every session the filter admits for ev, in-room or within
// hearing range.
func (e *Engine) broadcastAmbient(ev protocol.Event) {
	var failed []string
	for _, s := range e.sessions {
		if !e.visibleTo(ev, s) {
			continue
		}
		batch := protocol.EventBatchMsg{Type: protocol.TypeEvents, Events: e.filterFor(s)}
		if !e.sendJSON(s, batch) {
			failed = append(failed, s.Name)
		}
	}
	e.dropFailed(failed)
}

// broadcastAll delivers one message to every session unconditionally,
// optionally excluding one participant (the roster messages).
func (e *Engine) broadcastAll(v any, excludeName string) {
	b, err := json.Marshal(v)
	if err != nil {
		e.log.Printf("fanout: marshal: %v", err)
		return
	}
	var failed []string
	for _, s := range e.sessions {
		if s.Name == excludeName {
			continue
		}
		if !e.send(s, b) {
			failed = append(failed, s.Name)
		}
	}
	e.dropFailed(failed)
}

// dropFailed removes sessions whose delivery failed, treating each as an
// implicit disconnect.
func (e *Engine) dropFailed(names []string) {
	for _, name := range names {
		metrics.BroadcastFailures.Inc()
		e.log.Printf("fanout: delivery failed for %s, removing session (%s)",
			name, protocol.ErrDeliveryFailure)
		e.handleLeave(name)
	}
}
