package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"whisperhouse.game/internal/protocol"
)

// Adjacency of the fixed manor, for picking legal moves. Out-of-date maps
// only cost dropped moves; the server ignores illegal transitions.
var manor = map[string][]string{
	"Library":  {"Hallway"},
	"Hallway":  {"Library", "Kitchen", "Basement", "Attic"},
	"Kitchen":  {"Hallway"},
	"Basement": {"Hallway"},
	"Attic":    {"Hallway"},
}

var chatter = []string{
	"Did anyone else hear that?",
	"I am heading out.",
	"Stay close.",
	"Something feels off in here.",
	"Quiet now.",
}

func main() {
	var (
		url  = flag.String("url", "ws://localhost:8080/ws", "ws base url (player name is appended)")
		name = flag.String("name", "bot", "player name")
		wait = flag.Duration("wait", 8*time.Second, "delay between scripted actions")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url+"/"+*name, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	room := make(chan string, 1)
	go read(conn, logger, *name, room)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	here := ""
	ticker := time.NewTicker(*wait)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case r := <-room:
			here = r
		case <-ticker.C:
			if here == "" {
				continue
			}
			if rng.Intn(3) == 0 {
				act := protocol.ActMsg{Type: protocol.ActChat, Message: chatter[rng.Intn(len(chatter))]}
				if err := conn.WriteJSON(act); err != nil {
					logger.Fatalf("send chat: %v", err)
				}
				continue
			}
			next := manor[here]
			if len(next) == 0 {
				continue
			}
			act := protocol.ActMsg{Type: protocol.ActMove, Room: next[rng.Intn(len(next))]}
			if err := conn.WriteJSON(act); err != nil {
				logger.Fatalf("send move: %v", err)
			}
		}
	}
}

func read(conn *websocket.Conn, logger *log.Logger, name string, room chan<- string) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			logger.Printf("connection closed: %v", err)
			os.Exit(0)
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME session=%s room=%s mode=%s/%s players=%d",
				w.SessionID, w.Player.Room, w.Mode, w.Difficulty, w.TotalPlayers)
			room <- w.Player.Room

		case protocol.TypeEvents:
			var batch protocol.EventBatchMsg
			if err := json.Unmarshal(msg, &batch); err != nil {
				continue
			}
			for _, ev := range batch.Events {
				logger.Printf("%s", describe(ev))
				if ev.Type == protocol.EventMove && ev.Player == name {
					select {
					case room <- ev.Room:
					default:
					}
				}
			}

		case protocol.TypePlayerJoined:
			var j protocol.PlayerJoinedMsg
			if err := json.Unmarshal(msg, &j); err != nil {
				continue
			}
			logger.Printf("JOINED %s (%d total)", j.Player.Name, j.TotalPlayers)

		case protocol.TypePlayerLeft:
			var l protocol.PlayerLeftMsg
			if err := json.Unmarshal(msg, &l); err != nil {
				continue
			}
			logger.Printf("LEFT %s (%d total)", l.Player, l.TotalPlayers)

		case protocol.TypeError:
			var e protocol.ErrorMsg
			if err := json.Unmarshal(msg, &e); err != nil {
				continue
			}
			logger.Printf("ERROR %s: %s", e.Code, e.Message)
		}
	}
}

func describe(ev protocol.Event) string {
	switch ev.Type {
	case protocol.EventMove:
		return fmt.Sprintf("[%s] %s enters", ev.Room, ev.Player)
	case protocol.EventChat:
		return fmt.Sprintf("[%s] %s: %s", ev.Room, ev.Player, ev.Message)
	case protocol.EventWhisper:
		return fmt.Sprintf("[%s] %s whispers: %s", ev.Room, ev.Player, ev.Message)
	case protocol.EventAbility:
		return fmt.Sprintf("[%s] %s uses %s", ev.Room, ev.Player, ev.Ability)
	case protocol.EventAmbient:
		return fmt.Sprintf("[%s] * %s", ev.Room, ev.Message)
	default:
		return fmt.Sprintf("[%s] %s %s", ev.Room, ev.Player, ev.Type)
	}
}
