package engine

import "whisperhouse.game/internal/protocol"

// eventLog is a bounded append-only sequence. Append is the only mutation;
// once capacity is reached the oldest entry is evicted, never reordering the
// rest.
type eventLog struct {
	capacity int
	buf      []protocol.Event
}

func newEventLog(capacity int) *eventLog {
	if capacity <= 0 {
		capacity = 1000
	}
	return &eventLog{capacity: capacity}
}

func (l *eventLog) append(ev protocol.Event) {
	l.buf = append(l.buf, ev)
	if len(l.buf) > l.capacity {
		over := len(l.buf) - l.capacity
		l.buf = append(l.buf[:0], l.buf[over:]...)
	}
}

func (l *eventLog) len() int { return len(l.buf) }

// recent returns up to n entries, most-recent-last, as a copy.
func (l *eventLog) recent(n int) []protocol.Event {
	if n <= 0 || n > len(l.buf) {
		n = len(l.buf)
	}
	out := make([]protocol.Event, n)
	copy(out, l.buf[len(l.buf)-n:])
	return out
}

// forRoom returns the entries for one room among the last window entries,
// in arrival order.
func (l *eventLog) forRoom(room string, window int) []protocol.Event {
	var out []protocol.Event
	for _, ev := range l.recent(window) {
		if ev.Room == room {
			out = append(out, ev)
		}
	}
	return out
}

// all returns a full copy of the log for export.
func (l *eventLog) all() []protocol.Event {
	return l.recent(len(l.buf))
}
