package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"

	"github.com/courtside/padel-system/handlers"
	"github.com/courtside/padel-system/middleware"
)

type Handlers struct {
	Bracket   *handlers.BracketHandler
	Match     *handlers.MatchHandler
	Schedule  *handlers.ScheduleHandler
	Draw      *handlers.DrawHandler
	WebSocket *handlers.WebSocketHandler
}

func SetupRoutes(h Handlers, jwtSecret []byte) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Public read surface.
	router.Get("/modalities/{modalityID}/draw", h.Draw.GetDrawHandler)
	router.Get("/tournaments/{tournamentID}/schedule", h.Schedule.DailyScheduleHandler)
	router.Get("/ws/draw/{modalityID}", h.WebSocket.ServeDrawFeed)

	// Mutating routes require an operator token.
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))
		r.Use(middleware.RequireRole("organizer", "admin"))

		r.Route("/modalities/{modalityID}", func(r chi.Router) {
			r.Post("/bracket", h.Bracket.GenerateBracketHandler)
			r.Delete("/bracket", h.Bracket.ClearBracketHandler)
			r.Post("/groups", h.Bracket.GenerateGroupsHandler)
			r.Post("/playoff", h.Bracket.GeneratePlayoffHandler)
			r.Post("/consolation", h.Bracket.GenerateConsolationHandler)
		})

		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Post("/result", h.Match.RecordResultHandler)
			r.Post("/slot", h.Schedule.AssignMatchToSlotHandler)
			r.Put("/slot", h.Schedule.RescheduleMatchHandler)
		})

		r.Post("/tournaments/{tournamentID}/slots", h.Schedule.GenerateSlotsHandler)
	})

	return router
}
