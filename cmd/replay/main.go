package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"whisperhouse.game/internal/protocol"
)

// Reads the compressed transcript written by the server and prints it as a
// readable log, optionally filtered by room, player, or event type.
func main() {
	var (
		dir    = flag.String("transcript", "./data/transcript", "transcript dir containing events-*.jsonl.zst")
		room   = flag.String("room", "", "only events in this room")
		player = flag.String("player", "", "only events by this player")
		typ    = flag.String("type", "", "only events of this type (move, chat, ability_used, ambient)")
	)
	flag.Parse()

	files, err := listTranscriptFiles(*dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list transcript:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no transcript files found in", *dir)
		os.Exit(1)
	}

	var total, printed int
	for _, path := range files {
		n, p, err := dumpFile(path, *room, *player, *typ)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read:", err)
			os.Exit(1)
		}
		total += n
		printed += p
	}
	fmt.Printf("\n%d events, %d shown\n", total, printed)
}

func listTranscriptFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "events-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

func dumpFile(path, room, player, typ string) (total, printed int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return 0, 0, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	for sc.Scan() {
		var ev protocol.Event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			return total, printed, fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
		}
		total++
		if room != "" && ev.Room != room {
			continue
		}
		if player != "" && ev.Player != player {
			continue
		}
		if typ != "" && ev.Type != typ {
			continue
		}
		fmt.Println(render(ev))
		printed++
	}
	return total, printed, sc.Err()
}

func render(ev protocol.Event) string {
	stamp := time.Unix(int64(ev.Timestamp), 0).UTC().Format("2006-01-02 15:04:05")
	switch ev.Type {
	case protocol.EventMove:
		return fmt.Sprintf("%s [%s] %s enters", stamp, ev.Room, ev.Player)
	case protocol.EventChat:
		return fmt.Sprintf("%s [%s] %s: %s", stamp, ev.Room, ev.Player, ev.Message)
	case protocol.EventAbility:
		return fmt.Sprintf("%s [%s] %s uses %s", stamp, ev.Room, ev.Player, ev.Ability)
	case protocol.EventAmbient:
		return fmt.Sprintf("%s [%s] * %s", stamp, ev.Room, ev.Message)
	default:
		return fmt.Sprintf("%s [%s] %s %s %s", stamp, ev.Room, ev.Player, ev.Type, ev.Message)
	}
}
