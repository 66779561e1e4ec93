package engine

import (
	"fmt"
	"testing"

	"whisperhouse.game/internal/protocol"
)

func TestEventLog_CapacityEviction(t *testing.T) {
	l := newEventLog(1000)
	for i := 0; i < 1050; i++ {
		l.append(protocol.Event{Type: protocol.EventChat, Message: fmt.Sprintf("m%d", i)})
	}
	if l.len() != 1000 {
		t.Fatalf("len = %d, want exactly 1000", l.len())
	}
	all := l.all()
	if all[0].Message != "m50" {
		t.Fatalf("oldest surviving = %s, want m50 (oldest-first eviction)", all[0].Message)
	}
	if all[len(all)-1].Message != "m1049" {
		t.Fatalf("newest = %s, want m1049", all[len(all)-1].Message)
	}
	// Arrival order preserved throughout.
	for i, ev := range all {
		if want := fmt.Sprintf("m%d", i+50); ev.Message != want {
			t.Fatalf("entry %d = %s, want %s", i, ev.Message, want)
		}
	}
}

func TestEventLog_Recent(t *testing.T) {
	l := newEventLog(10)
	for i := 0; i < 5; i++ {
		l.append(protocol.Event{Message: fmt.Sprintf("m%d", i)})
	}
	got := l.recent(3)
	if len(got) != 3 || got[0].Message != "m2" || got[2].Message != "m4" {
		t.Fatalf("recent(3) = %v", got)
	}
	if len(l.recent(100)) != 5 {
		t.Fatal("recent larger than log should return the whole log")
	}

	// recent returns a copy; mutating it must not touch the log.
	got[0].Message = "mutated"
	if l.all()[2].Message != "m2" {
		t.Fatal("recent leaked the backing array")
	}
}

func TestEventLog_ForRoom(t *testing.T) {
	l := newEventLog(100)
	for i := 0; i < 6; i++ {
		room := "Hallway"
		if i%2 == 0 {
			room = "Attic"
		}
		l.append(protocol.Event{Room: room, Message: fmt.Sprintf("m%d", i)})
	}
	got := l.forRoom("Hallway", 50)
	if len(got) != 3 {
		t.Fatalf("forRoom = %d entries, want 3", len(got))
	}
	if got[0].Message != "m1" || got[2].Message != "m5" {
		t.Fatalf("forRoom order wrong: %v", got)
	}

	// The window limits how far back the query reaches.
	if got := l.forRoom("Attic", 2); len(got) != 1 {
		t.Fatalf("windowed forRoom = %d entries, want 1", len(got))
	}
}
