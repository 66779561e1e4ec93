package engine

import "whisperhouse.game/internal/protocol"

// visibleTo decides whether one observer receives one event. It is pure: no
// state is touched beyond reading the graph.
//
// Ambient events use the hop-distance rule: sound from another room is heard
// when the shortest path from the event's room is shorter than the observer's
// awareness. Whisper-class events never travel through here; whispers are
// delivered point-to-point by the dispatcher and are not in the log.
func (e *Engine) visibleTo(ev protocol.Event, s *Session) bool {
	switch ev.Visibility {
	case protocol.VisGlobal:
		return true
	case protocol.VisRoom:
		return ev.Room == s.Room
	case protocol.VisWhisper:
		return false
	case protocol.VisAmbient:
		if ev.Room == s.Room {
			return true
		}
		dist, ok := e.g.HopDistance(ev.Room, s.Room)
		return ok && dist < s.Awareness
	default:
		return false
	}
}

// filterFor computes the observer's feed: the visibility-admitted subset of
// the most recent window of the log, in arrival order.
func (e *Engine) filterFor(s *Session) []protocol.Event {
	recent := e.events.recent(e.tune.RecentWindow)
	out := make([]protocol.Event, 0, len(recent))
	for _, ev := range recent {
		if e.visibleTo(ev, s) {
			out = append(out, ev)
		}
	}
	return out
}
