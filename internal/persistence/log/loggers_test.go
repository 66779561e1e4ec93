package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"whisperhouse.game/internal/protocol"
)

func TestTranscriptLogger_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	l := NewTranscriptLogger(dir)

	events := []protocol.Event{
		{Type: protocol.EventMove, Visibility: protocol.VisRoom, Room: "Hallway", Player: "mara", Timestamp: 1},
		{Type: protocol.EventChat, Visibility: protocol.VisRoom, Room: "Hallway", Player: "mara", Message: "anyone here?", Timestamp: 2},
		{Type: protocol.EventAmbient, Visibility: protocol.VisAmbient, Room: "Basement", Message: "A floorboard creaks in Basement.", Volume: 2, Timestamp: 3},
	}
	for _, ev := range events {
		if err := l.WriteEvent(ev); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "transcript", "events-*.jsonl.zst"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("transcript files = %v (err %v)", matches, err)
	}

	f, err := os.Open(matches[0])
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd: %v", err)
	}
	defer dec.Close()

	var got []protocol.Event
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var ev protocol.Event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		got = append(got, ev)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(got) != len(events) {
		t.Fatalf("got %d events, want %d", len(got), len(events))
	}
	for i := range events {
		if got[i].Type != events[i].Type || got[i].Message != events[i].Message {
			t.Fatalf("event %d = %+v, want %+v", i, got[i], events[i])
		}
	}
}
