// Package engine is the authoritative core of the game server: the session
// registry, the event log, the visibility filter, the action dispatcher, the
// fanout path and the ambient generator.
//
// All mutable state is owned by a single goroutine (the Run loop); transport
// handlers and the HTTP surface talk to it exclusively through channels.
package engine

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"whisperhouse.game/internal/game/catalogs"
	"whisperhouse.game/internal/game/graph"
	"whisperhouse.game/internal/game/tuning"
	"whisperhouse.game/internal/metrics"
	"whisperhouse.game/internal/protocol"
)

type Config struct {
	Graph    *graph.Graph
	Catalogs *catalogs.Catalogs
	Tuning   tuning.Tuning
	Seed     int64

	Logger *log.Logger

	// Optional sinks (may be nil).
	Transcript TranscriptLogger
	Roster     RosterListener

	// Test hook; defaults to time.Now.
	Now func() time.Time
}

// TranscriptLogger receives every event appended to the log.
// Implemented in internal/persistence/log.
type TranscriptLogger interface {
	WriteEvent(ev protocol.Event) error
}

// RosterListener is notified of registry changes, off the durable-storage
// path: the engine itself never writes storage. Implementations must not
// block.
type RosterListener interface {
	PlayerJoined(p protocol.PlayerView)
	PlayerLeft(name string)
}

type JoinRequest struct {
	PlayerID string
	Out      chan []byte
	Resp     chan JoinResponse
}

type JoinResponse struct {
	Welcome protocol.WelcomeMsg
	ErrCode string
}

type ActionEnvelope struct {
	PlayerID string
	Act      protocol.ActMsg
}

// Engine state is only touched from the Run goroutine.
type Engine struct {
	g    *graph.Graph
	cats *catalogs.Catalogs
	tune tuning.Tuning
	log  *log.Logger

	sessions map[string]*Session
	events   *eventLog

	mode       string
	difficulty string
	aiSlots    int
	maxPlayers int
	started    bool

	joinSeq int
	aiSeq   int

	ambientEmitted int // lifetime count, survives log eviction

	rng *rand.Rand
	now func() time.Time

	transcript TranscriptLogger
	roster     RosterListener

	join       chan JoinRequest
	leave      chan string
	inbox      chan ActionEnvelope
	playersReq chan chan []protocol.PlayerView
	eventsReq  chan chan []protocol.Event
	modeReq    chan modeReq
	rolesReq   chan chan []protocol.PlayerView
	startReq   chan chan StartView
	aiReq      chan aiReq
	injectReq  chan injectReq
	stop       chan struct{}
	done       chan struct{} // closed when Run returns, however it exits
}

type modeReq struct {
	Mode       string
	Difficulty string
	AISlots    int
	ReadOnly   bool
	Resp       chan ModeView
}

type ModeView struct {
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
	AISlots    int    `json:"ai_slots"`
	MaxPlayers int    `json:"max_players"`
}

type StartView struct {
	Status  string   `json:"status"`
	Players int      `json:"players"`
	Rooms   []string `json:"rooms"`
}

type aiReq struct {
	Count int
	Resp  chan int
}

type injectReq struct {
	Room    string
	Message string
	Resp    chan injectResp
}

type injectResp struct {
	Event protocol.Event
	Err   error
}

func New(cfg Config) (*Engine, error) {
	if cfg.Graph == nil {
		return nil, fmt.Errorf("engine: nil graph")
	}
	if cfg.Catalogs == nil {
		return nil, fmt.Errorf("engine: nil catalogs")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	e := &Engine{
		g:          cfg.Graph,
		cats:       cfg.Catalogs,
		tune:       cfg.Tuning,
		log:        cfg.Logger,
		sessions:   make(map[string]*Session),
		events:     newEventLog(cfg.Tuning.EventLogCapacity),
		mode:       "game",
		difficulty: "normal",
		maxPlayers: cfg.Tuning.MaxPlayersGame,
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		now:        cfg.Now,
		transcript: cfg.Transcript,
		roster:     cfg.Roster,

		join:       make(chan JoinRequest),
		leave:      make(chan string, 8),
		inbox:      make(chan ActionEnvelope, 64),
		playersReq: make(chan chan []protocol.PlayerView),
		eventsReq:  make(chan chan []protocol.Event),
		modeReq:    make(chan modeReq),
		rolesReq:   make(chan chan []protocol.PlayerView),
		startReq:   make(chan chan StartView),
		aiReq:      make(chan aiReq),
		injectReq:  make(chan injectReq),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	return e, nil
}

// Join, Leave and Inbox are the transport-facing channels.
func (e *Engine) Join() chan<- JoinRequest     { return e.join }
func (e *Engine) Leave() chan<- string         { return e.leave }
func (e *Engine) Inbox() chan<- ActionEnvelope { return e.inbox }

// Graph exposes the immutable room graph for read-only surfaces.
func (e *Engine) Graph() *graph.Graph { return e.g }

func (e *Engine) Stop() { close(e.stop) }

// appendEvent stamps the event, appends it and feeds the side sinks.
func (e *Engine) appendEvent(ev protocol.Event) protocol.Event {
	ev.Timestamp = float64(e.now().UnixNano()) / 1e9
	e.events.append(ev)
	if e.transcript != nil {
		if err := e.transcript.WriteEvent(ev); err != nil {
			e.log.Printf("transcript: %v", err)
		}
	}
	metrics.EventsTotal.WithLabelValues(ev.Type).Inc()
	return ev
}
