package engine

import (
	"testing"

	"whisperhouse.game/internal/protocol"
)

func TestVisibleTo(t *testing.T) {
	e := newTestEngine(t)
	observer := &Session{Name: "mara", Room: "Library", Awareness: 5}

	cases := []struct {
		name string
		ev   protocol.Event
		want bool
	}{
		{"global always", protocol.Event{Visibility: protocol.VisGlobal, Room: "Attic"}, true},
		{"room same", protocol.Event{Visibility: protocol.VisRoom, Room: "Library"}, true},
		{"room other", protocol.Event{Visibility: protocol.VisRoom, Room: "Attic"}, false},
		{"whisper never via filter", protocol.Event{Visibility: protocol.VisWhisper, Room: "Library", Target: "mara"}, false},
		{"ambient same room", protocol.Event{Visibility: protocol.VisAmbient, Room: "Library", Volume: 1}, true},
		{"unknown class", protocol.Event{Visibility: "secret", Room: "Library"}, false},
	}
	for _, c := range cases {
		if got := e.visibleTo(c.ev, observer); got != c.want {
			t.Errorf("%s: visibleTo = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestVisibleTo_AmbientHopDistance(t *testing.T) {
	e := newTestEngine(t)
	// Kitchen -> Library is two hops (through the Hallway).
	ev := protocol.Event{Visibility: protocol.VisAmbient, Room: "Kitchen", Volume: 3}

	dull := &Session{Name: "dull", Room: "Library", Awareness: 1}
	if e.visibleTo(ev, dull) {
		t.Error("awareness 1 should not hear a sound two hops away")
	}

	edge := &Session{Name: "edge", Room: "Library", Awareness: 2}
	if e.visibleTo(ev, edge) {
		t.Error("awareness 2 requires distance strictly below 2")
	}

	keen := &Session{Name: "keen", Room: "Library", Awareness: 3}
	if !e.visibleTo(ev, keen) {
		t.Error("awareness 3 should hear a sound two hops away")
	}

	near := &Session{Name: "near", Room: "Hallway", Awareness: 2}
	if !e.visibleTo(ev, near) {
		t.Error("awareness 2 should hear a sound one hop away")
	}
}

func TestFilterFor_IsSideEffectFree(t *testing.T) {
	e := newTestEngine(t)
	s, _ := join(t, e, "mara")

	e.appendEvent(protocol.Event{Type: protocol.EventChat, Visibility: protocol.VisRoom, Room: "Library", Message: "a"})
	e.appendEvent(protocol.Event{Type: protocol.EventChat, Visibility: protocol.VisRoom, Room: "Attic", Message: "b"})
	e.appendEvent(protocol.Event{Type: protocol.EventCustom, Visibility: protocol.VisGlobal, Message: "c"})

	before := e.events.len()
	got := e.filterFor(s)
	if e.events.len() != before {
		t.Fatal("filter mutated the log")
	}
	if len(got) != 2 {
		t.Fatalf("filtered = %d events, want 2 (room + global)", len(got))
	}
	if got[0].Message != "a" || got[1].Message != "c" {
		t.Fatalf("filtered order wrong: %v", got)
	}
}
