package engine

import (
	"fmt"

	"whisperhouse.game/internal/metrics"
	"whisperhouse.game/internal/protocol"
)

// ambientTick is one cycle of the ambient generator. It no-ops with an empty
// registry, rolls the difficulty's frequency gate, then emits intensity
// events into random rooms through the normal log -> fanout path. A failure
// inside one emission never stops the ticker.
func (e *Engine) ambientTick() {
	if len(e.sessions) == 0 {
		metrics.AmbientTicks.WithLabelValues("idle").Inc()
		return
	}

	prof := e.tune.Profile(e.difficulty)
	if e.rng.Intn(11) > prof.Frequency {
		metrics.AmbientTicks.WithLabelValues("false").Inc()
		return
	}
	metrics.AmbientTicks.WithLabelValues("true").Inc()

	rooms := e.g.Rooms()
	pool := e.cats.Ambient.Pool(e.difficulty)
	for i := 0; i < prof.Intensity; i++ {
		room := rooms[e.rng.Intn(len(rooms))]
		text := fmt.Sprintf(pool[e.rng.Intn(len(pool))], room)

		ev := e.appendEvent(protocol.Event{
			Type:       protocol.EventAmbient,
			Visibility: protocol.VisAmbient,
			Room:       room,
			Message:    text,
			Volume:     prof.Intensity,
		})
		e.ambientEmitted++
		e.broadcastAmbient(ev)
	}
}
