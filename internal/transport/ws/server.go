package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"whisperhouse.game/internal/game/engine"
	"whisperhouse.game/internal/protocol"
)

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 10 * time.Minute
)

type Server struct {
	engine *engine.Engine
	log    *log.Logger
	queue  int // outbound buffer per connection

	upgrader websocket.Upgrader
}

func NewServer(e *engine.Engine, queue int, logger *log.Logger) *Server {
	if queue <= 0 {
		queue = 32
	}
	return &Server{
		engine: e,
		log:    logger,
		queue:  queue,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// Handler serves GET /ws/{player_id}: upgrade, register, then pump messages
// both ways until the peer goes away.
func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		playerID := strings.TrimSpace(chi.URLParam(r, "player_id"))
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		out := make(chan []byte, s.queue)
		welcome, ok := s.register(conn, playerID, out)
		if !ok {
			return
		}
		// Story clients reconnect with ?room_code=; echo it back unchanged.
		if code := r.URL.Query().Get("room_code"); code != "" {
			welcome.RoomCode = code
		} else if code := r.URL.Query().Get("room"); code != "" {
			welcome.RoomCode = code
		}
		if err := writeJSON(conn, welcome); err != nil {
			s.engine.Leave() <- playerID
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine drains the engine-facing sink.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, open := <-out:
					if !open {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil {
				continue
			}
			// The closed action set is enforced here, at the boundary.
			if !protocol.IsKnownAction(base.Type) {
				s.log.Printf("ws: %s sent %q (%s)", playerID, base.Type, protocol.ErrUnknownAction)
				continue
			}
			var act protocol.ActMsg
			if err := json.Unmarshal(msg, &act); err != nil {
				continue
			}
			s.engine.Inbox() <- engine.ActionEnvelope{PlayerID: playerID, Act: act}
		}

		// Cleanup.
		s.engine.Leave() <- playerID
	}
}

func (s *Server) register(conn *websocket.Conn, playerID string, out chan []byte) (protocol.WelcomeMsg, bool) {
	if playerID == "" {
		_ = writeJSON(conn, protocol.ErrorMsg{Type: protocol.TypeError, Code: protocol.ErrBadRequest, Message: "missing player id"})
		return protocol.WelcomeMsg{}, false
	}

	resp := make(chan engine.JoinResponse, 1)
	s.engine.Join() <- engine.JoinRequest{PlayerID: playerID, Out: out, Resp: resp}
	r := <-resp
	if r.ErrCode != "" {
		_ = writeJSON(conn, protocol.ErrorMsg{Type: protocol.TypeError, Code: r.ErrCode})
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, r.ErrCode),
			time.Now().Add(time.Second))
		return protocol.WelcomeMsg{}, false
	}
	return r.Welcome, true
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, b)
}
