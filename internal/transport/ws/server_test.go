package ws

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"whisperhouse.game/internal/game/catalogs"
	"whisperhouse.game/internal/game/engine"
	"whisperhouse.game/internal/game/graph"
	"whisperhouse.game/internal/game/tuning"
	"whisperhouse.game/internal/protocol"
)

func startTestServer(t *testing.T) (*httptest.Server, *engine.Engine) {
	t.Helper()
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	e, err := engine.New(engine.Config{
		Graph:    graph.Manor(),
		Catalogs: cats,
		Tuning:   tuning.Defaults(),
		Seed:     1,
		Logger:   log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = e.Run(ctx) }()
	t.Cleanup(cancel)

	s := NewServer(e, 32, log.New(io.Discard, "", 0))
	r := chi.NewRouter()
	r.Get("/ws/{player_id}", s.Handler())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, e
}

func dial(t *testing.T, srv *httptest.Server, playerID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + playerID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", playerID, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMsg(t *testing.T, conn *websocket.Conn, wantType string) []byte {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, b, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read (waiting for %s): %v", wantType, err)
		}
		base, err := protocol.DecodeBase(b)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if base.Type == wantType {
			return b
		}
	}
	t.Fatalf("never received %s", wantType)
	return nil
}

func TestHandshake_WelcomeThenRoster(t *testing.T) {
	srv, _ := startTestServer(t)

	connA := dial(t, srv, "mara")
	var welcome protocol.WelcomeMsg
	if err := json.Unmarshal(readMsg(t, connA, protocol.TypeWelcome), &welcome); err != nil {
		t.Fatalf("welcome: %v", err)
	}
	if welcome.Player.Name != "mara" || welcome.Player.Room != "Library" {
		t.Fatalf("welcome player = %+v", welcome.Player)
	}

	dial(t, srv, "finn")
	var joined protocol.PlayerJoinedMsg
	if err := json.Unmarshal(readMsg(t, connA, protocol.TypePlayerJoined), &joined); err != nil {
		t.Fatalf("player_joined: %v", err)
	}
	if joined.Player.Name != "finn" || joined.TotalPlayers != 2 {
		t.Fatalf("joined = %+v", joined)
	}
}

func TestHandshake_RoomCodePassthrough(t *testing.T) {
	srv, _ := startTestServer(t)

	conn := dial(t, srv, "mara?room_code=XK42QP")
	var welcome protocol.WelcomeMsg
	if err := json.Unmarshal(readMsg(t, conn, protocol.TypeWelcome), &welcome); err != nil {
		t.Fatalf("welcome: %v", err)
	}
	if welcome.RoomCode != "XK42QP" {
		t.Fatalf("room_code = %q, want XK42QP", welcome.RoomCode)
	}

	plain := dial(t, srv, "finn")
	welcome = protocol.WelcomeMsg{}
	if err := json.Unmarshal(readMsg(t, plain, protocol.TypeWelcome), &welcome); err != nil {
		t.Fatalf("welcome: %v", err)
	}
	if welcome.RoomCode != "" {
		t.Fatalf("room_code = %q, want empty", welcome.RoomCode)
	}
}

func TestHandshake_DuplicateIdentityClosed(t *testing.T) {
	srv, _ := startTestServer(t)

	connA := dial(t, srv, "mara")
	readMsg(t, connA, protocol.TypeWelcome)

	connB := dial(t, srv, "mara")
	var errMsg protocol.ErrorMsg
	if err := json.Unmarshal(readMsg(t, connB, protocol.TypeError), &errMsg); err != nil {
		t.Fatalf("error msg: %v", err)
	}
	if errMsg.Code != protocol.ErrDuplicateIdentity {
		t.Fatalf("code = %s, want %s", errMsg.Code, protocol.ErrDuplicateIdentity)
	}
}

func TestActionRoundTrip(t *testing.T) {
	srv, e := startTestServer(t)

	conn := dial(t, srv, "mara")
	readMsg(t, conn, protocol.TypeWelcome)

	act, _ := json.Marshal(protocol.ActMsg{Type: protocol.ActMove, Room: "Hallway"})
	if err := conn.WriteMessage(websocket.TextMessage, act); err != nil {
		t.Fatalf("write: %v", err)
	}

	var batch protocol.EventBatchMsg
	if err := json.Unmarshal(readMsg(t, conn, protocol.TypeEvents), &batch); err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(batch.Events) == 0 || batch.Events[0].Type != protocol.EventMove {
		t.Fatalf("batch = %+v", batch)
	}

	// The engine converged on the new room.
	deadline := time.Now().Add(2 * time.Second)
	for {
		players, err := e.PlayersSnapshot(context.Background())
		if err != nil {
			t.Fatalf("snapshot: %v", err)
		}
		if len(players) == 1 && players[0].Room == "Hallway" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("players = %+v", players)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDisconnect_Unregisters(t *testing.T) {
	srv, e := startTestServer(t)

	conn := dial(t, srv, "mara")
	readMsg(t, conn, protocol.TypeWelcome)
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		players, err := e.PlayersSnapshot(context.Background())
		if err != nil {
			t.Fatalf("snapshot: %v", err)
		}
		if len(players) == 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("session not cleaned up: %+v", players)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
