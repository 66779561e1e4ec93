package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"whisperhouse.game/internal/api/middleware"
	"whisperhouse.game/internal/game/engine"
	"whisperhouse.game/internal/handlers"
	"whisperhouse.game/internal/store"
)

// NewRouter creates and configures the HTTP router. db may be nil when
// persistence is disabled; wsHandler serves GET /ws/{player_id}.
func NewRouter(logger zerolog.Logger, e *engine.Engine, db store.DataStore, wsHandler http.HandlerFunc) *chi.Mux {
	r := chi.NewRouter()

	// The websocket route stays outside the wrapping middleware: a wrapped
	// ResponseWriter loses http.Hijacker and the upgrade fails.
	r.Get("/ws/{player_id}", wsHandler)

	h := handlers.NewHandler(e, db)

	r.Group(func(r chi.Router) {
		// Metrics first to capture all requests.
		r.Use(middleware.Metrics)
		r.Use(chimw.RequestID)
		r.Use(chimw.RealIP)
		r.Use(middleware.Logger(logger))
		r.Use(chimw.Recoverer)

		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))

		r.Handle("/metrics", promhttp.Handler())

		r.Get("/", h.Root)
		r.Get("/health", h.Health)
		r.Get("/rooms", h.Rooms)
		r.Get("/players", h.ListPlayers)
		r.Get("/players/history", h.PlayerHistory)
		r.Get("/export", h.Export)

		r.Route("/game", func(r chi.Router) {
			r.Get("/mode", h.GetMode)
			r.Post("/mode", h.SetMode)
			r.Post("/assign-roles", h.AssignRoles)
			r.Post("/start", h.Start)
			r.Post("/add-ai-players", h.AddAIPlayers)
			r.Post("/inject-event", h.InjectEvent)
		})

		r.Route("/story", func(r chi.Router) {
			r.Post("/new", h.NewStory)
			r.Get("/list", h.ListStories)
		})
	})

	return r
}
