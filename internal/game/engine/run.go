package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"whisperhouse.game/internal/metrics"
	"whisperhouse.game/internal/protocol"
)

// Run owns all engine state until the context is cancelled or Stop is called.
// The ambient ticker lives inside the loop so it stops with the engine
// instead of running forever.
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.done)

	period := time.Duration(e.tune.AmbientPeriodS) * time.Second
	if period <= 0 {
		period = 5 * time.Second
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.stop:
			return nil
		case req := <-e.join:
			e.handleJoin(req)
		case name := <-e.leave:
			e.handleLeave(name)
		case env := <-e.inbox:
			e.handleAction(env)
		case resp := <-e.playersReq:
			resp <- e.playersSnapshot()
		case resp := <-e.eventsReq:
			resp <- e.events.all()
		case req := <-e.modeReq:
			req.Resp <- e.handleSetMode(req)
		case resp := <-e.rolesReq:
			e.handleAssignRoles()
			resp <- e.playersSnapshot()
		case resp := <-e.startReq:
			e.started = true
			resp <- StartView{Status: "Game started", Players: len(e.sessions), Rooms: e.g.Rooms()}
		case req := <-e.aiReq:
			req.Resp <- e.handleAddAI(req.Count)
		case req := <-e.injectReq:
			req.Resp <- e.handleInject(req)
		case <-ticker.C:
			e.ambientTick()
		}
	}
}

func (e *Engine) handleJoin(req JoinRequest) {
	respond := func(r JoinResponse) {
		select {
		case req.Resp <- r:
		default:
		}
	}

	if req.PlayerID == "" {
		respond(JoinResponse{ErrCode: protocol.ErrBadRequest})
		return
	}
	if _, exists := e.sessions[req.PlayerID]; exists {
		// Registration policy: reject. The existing session is untouched.
		e.log.Printf("join: duplicate identity %q rejected", req.PlayerID)
		respond(JoinResponse{ErrCode: protocol.ErrDuplicateIdentity})
		return
	}
	if len(e.sessions) >= e.maxPlayers {
		e.log.Printf("join: %q rejected, session full (%d/%d)", req.PlayerID, len(e.sessions), e.maxPlayers)
		respond(JoinResponse{ErrCode: protocol.ErrBadRequest})
		return
	}

	now := e.now()
	e.joinSeq++
	s := &Session{
		ID:          uuid.NewString(),
		Name:        req.PlayerID,
		Room:        e.g.Entry(),
		Awareness:   e.tune.DefaultAwareness,
		Focus:       FocusNormal,
		Out:         req.Out,
		ConnectedAt: now,
		LastAction:  now,
		seq:         e.joinSeq,
	}
	e.sessions[s.Name] = s
	metrics.SessionsConnected.Set(float64(len(e.sessions)))

	respond(JoinResponse{Welcome: protocol.WelcomeMsg{
		Type:         protocol.TypeWelcome,
		SessionID:    s.ID,
		Message:      fmt.Sprintf("Welcome %s!", s.Name),
		Mode:         e.mode,
		Difficulty:   e.difficulty,
		Player:       s.View(),
		TotalPlayers: len(e.sessions),
		PlayerIndex:  e.playerIndex(s),
	}})

	// Catch the newcomer up on what already happened in the entry room.
	if hist := e.events.forRoom(s.Room, e.tune.RoomWindow); len(hist) > 0 {
		e.sendJSON(s, protocol.EventBatchMsg{Type: protocol.TypeEvents, Events: hist})
	}

	e.broadcastAll(protocol.PlayerJoinedMsg{
		Type:         protocol.TypePlayerJoined,
		Player:       s.View(),
		TotalPlayers: len(e.sessions),
	}, s.Name)

	if e.roster != nil {
		e.roster.PlayerJoined(s.View())
	}
}

// handleLeave is idempotent; removing an absent participant is a no-op.
func (e *Engine) handleLeave(name string) {
	s, ok := e.sessions[name]
	if !ok {
		return
	}
	delete(e.sessions, name)
	metrics.SessionsConnected.Set(float64(len(e.sessions)))

	e.broadcastAll(protocol.PlayerLeftMsg{
		Type:         protocol.TypePlayerLeft,
		Player:       s.Name,
		TotalPlayers: len(e.sessions),
	}, "")

	if e.roster != nil {
		e.roster.PlayerLeft(s.Name)
	}
}

func (e *Engine) handleSetMode(req modeReq) ModeView {
	if req.ReadOnly {
		return ModeView{Mode: e.mode, Difficulty: e.difficulty, AISlots: e.aiSlots, MaxPlayers: e.maxPlayers}
	}
	mode := req.Mode
	if mode != "story" {
		mode = "game"
	}
	e.mode = mode
	if mode == "story" {
		e.maxPlayers = e.tune.MaxPlayersStory
	} else {
		e.maxPlayers = e.tune.MaxPlayersGame
	}

	// Unrecognized difficulties fall back to normal.
	if e.tune.IsKnownDifficulty(req.Difficulty) {
		e.difficulty = req.Difficulty
	} else {
		e.difficulty = "normal"
	}

	if req.AISlots >= 0 {
		e.aiSlots = req.AISlots
	}
	return ModeView{Mode: e.mode, Difficulty: e.difficulty, AISlots: e.aiSlots, MaxPlayers: e.maxPlayers}
}

// handleAssignRoles walks sessions in join order and hands out catalog roles
// round-robin. Story mode has no roles.
func (e *Engine) handleAssignRoles() {
	if e.mode != "game" {
		return
	}
	for i, s := range e.sessionsByJoinOrder() {
		role := e.cats.Role(i)
		s.Role = role.Name
		s.Objective = role.Objective
		s.Abilities = s.Abilities[:0]
		for _, a := range role.Abilities {
			s.Abilities = append(s.Abilities, protocol.AbilityRef{Name: a.Name, Cooldown: a.Cooldown})
		}
	}
}

func (e *Engine) handleAddAI(count int) int {
	added := 0
	for added < count && e.aiCount() < e.aiSlots && len(e.sessions) < e.maxPlayers {
		e.aiSeq++
		e.joinSeq++
		name := fmt.Sprintf("AI-%d", e.aiSeq)
		if _, exists := e.sessions[name]; exists {
			continue
		}
		now := e.now()
		e.sessions[name] = &Session{
			ID:          uuid.NewString(),
			Name:        name,
			Room:        e.g.Entry(),
			Awareness:   e.tune.DefaultAwareness,
			Focus:       FocusNormal,
			IsAI:        true,
			ConnectedAt: now,
			LastAction:  now,
			seq:         e.joinSeq,
		}
		added++
	}
	metrics.SessionsConnected.Set(float64(len(e.sessions)))
	return added
}

func (e *Engine) aiCount() int {
	n := 0
	for _, s := range e.sessions {
		if s.IsAI {
			n++
		}
	}
	return n
}

func (e *Engine) playerIndex(s *Session) int {
	idx := 1
	for _, other := range e.sessions {
		if other.seq < s.seq {
			idx++
		}
	}
	return idx
}

func (e *Engine) sessionsByJoinOrder() []*Session {
	out := make([]*Session, 0, len(e.sessions))
	for _, s := range e.sessions {
		out = append(out, s)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].seq > out[j].seq; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func (e *Engine) playersSnapshot() []protocol.PlayerView {
	out := make([]protocol.PlayerView, 0, len(e.sessions))
	for _, s := range e.sessionsByJoinOrder() {
		out = append(out, s.View())
	}
	return out
}
