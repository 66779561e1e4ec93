package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Game-master CLI. Drives the server's control endpoints:
//
//	admin mode -mode game -difficulty hard -ai 3
//	admin roles
//	admin start
//	admin ai -count 2
//	admin inject -room Kitchen -message "a pot boils over"
//	admin players
//	admin story-new -character Mara -genre horror
//	admin story-list
//	admin export -format text
//	admin health
func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "mode":
		modeCmd(os.Args[2:])
	case "roles":
		postCmd("roles", os.Args[2:], "/game/assign-roles")
	case "start":
		postCmd("start", os.Args[2:], "/game/start")
	case "ai":
		aiCmd(os.Args[2:])
	case "inject":
		injectCmd(os.Args[2:])
	case "players":
		getCmd("players", os.Args[2:], "/players")
	case "story-new":
		storyNewCmd(os.Args[2:])
	case "story-list":
		getCmd("story-list", os.Args[2:], "/story/list")
	case "export":
		exportCmd(os.Args[2:])
	case "health":
		getCmd("health", os.Args[2:], "/health")
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admin <mode|roles|start|ai|inject|players|story-new|story-list|export|health> [flags]")
}

func serverFlag(fs *flag.FlagSet) *string {
	return fs.String("server", "http://localhost:8080", "server base url")
}

func modeCmd(args []string) {
	fs := flag.NewFlagSet("mode", flag.ExitOnError)
	server := serverFlag(fs)
	mode := fs.String("mode", "game", "story or game")
	difficulty := fs.String("difficulty", "normal", "easy, normal, or hard")
	ai := fs.Int("ai", 0, "ai player slots")
	_ = fs.Parse(args)

	body, _ := json.Marshal(map[string]any{
		"mode":       *mode,
		"difficulty": *difficulty,
		"ai_players": *ai,
	})
	do(http.MethodPost, *server+"/game/mode", body)
}

func aiCmd(args []string) {
	fs := flag.NewFlagSet("ai", flag.ExitOnError)
	server := serverFlag(fs)
	count := fs.Int("count", 1, "how many ai players to add")
	_ = fs.Parse(args)

	body, _ := json.Marshal(map[string]int{"count": *count})
	do(http.MethodPost, *server+"/game/add-ai-players", body)
}

func injectCmd(args []string) {
	fs := flag.NewFlagSet("inject", flag.ExitOnError)
	server := serverFlag(fs)
	room := fs.String("room", "Hallway", "target room")
	message := fs.String("message", "", "event text (empty for a stock line)")
	_ = fs.Parse(args)

	body, _ := json.Marshal(map[string]string{"room": *room, "message": *message})
	do(http.MethodPost, *server+"/game/inject-event", body)
}

func storyNewCmd(args []string) {
	fs := flag.NewFlagSet("story-new", flag.ExitOnError)
	server := serverFlag(fs)
	world := fs.String("world", "default", "story world")
	character := fs.String("character", "Player", "protagonist name")
	genre := fs.String("genre", "mystery", "story genre")
	_ = fs.Parse(args)

	body, _ := json.Marshal(map[string]string{
		"world":     *world,
		"character": *character,
		"genre":     *genre,
	})
	do(http.MethodPost, *server+"/story/new", body)
}

func exportCmd(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	server := serverFlag(fs)
	format := fs.String("format", "json", "json or text")
	_ = fs.Parse(args)

	do(http.MethodGet, *server+"/export?format="+*format, nil)
}

func postCmd(name string, args []string, path string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	server := serverFlag(fs)
	_ = fs.Parse(args)
	do(http.MethodPost, *server+path, nil)
}

func getCmd(name string, args []string, path string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	server := serverFlag(fs)
	_ = fs.Parse(args)
	do(http.MethodGet, *server+path, nil)
}

func do(method, url string, body []byte) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "request:", err)
		os.Exit(1)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "request:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read response:", err)
		os.Exit(1)
	}

	// Pretty-print JSON responses; pass text exports through untouched.
	var pretty bytes.Buffer
	if json.Indent(&pretty, out, "", "  ") == nil {
		pretty.WriteByte('\n')
		_, _ = pretty.WriteTo(os.Stdout)
	} else {
		_, _ = os.Stdout.Write(out)
	}

	if resp.StatusCode >= 400 {
		fmt.Fprintln(os.Stderr, "status:", resp.Status)
		os.Exit(1)
	}
}
