package routes

import (
	"github.com/Dosada05/matchday-engine/handlers"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	leagueHandler *handlers.LeagueHandler,
	knockoutHandler *handlers.KnockoutHandler,
	matchHandler *handlers.MatchHandler,
	rosterHandler *handlers.RosterHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/roster", func(r chi.Router) {
		r.Post("/teams", rosterHandler.CreateTeam)
		r.Get("/teams", rosterHandler.ListTeams)
		r.Get("/teams/{id}", rosterHandler.GetTeam)
		r.Post("/players", rosterHandler.CreatePlayer)
		r.Get("/players/{id}", rosterHandler.GetPlayer)
	})

	router.Route("/leagues", func(r chi.Router) {
		r.Post("/", leagueHandler.Create)
		r.Get("/", leagueHandler.List)
		r.Get("/{id}", leagueHandler.Get)
		r.Post("/{id}/start", leagueHandler.Start)
		r.Post("/{id}/cancel", leagueHandler.Cancel)
		r.Post("/{id}/fixtures/{fixtureID}/result", leagueHandler.SubmitResult)
		r.Get("/{id}/tables/{tableID}", leagueHandler.GetTable)
		r.Get("/{id}/fixtures/upcoming", leagueHandler.GetUpcomingFixtures)
		r.Get("/{id}/fixtures/completed", leagueHandler.GetCompletedFixtures)
		r.Get("/{id}/advancing", leagueHandler.GetAdvancingTeams)
	})

	router.Route("/knockouts", func(r chi.Router) {
		r.Post("/", knockoutHandler.Create)
		r.Get("/", knockoutHandler.List)
		r.Get("/{id}", knockoutHandler.Get)
		r.Post("/{id}/cancel", knockoutHandler.Cancel)
		r.Post("/{id}/bracket", knockoutHandler.GenerateBracket)
		r.Get("/{id}/bracket", knockoutHandler.GetBracket)
		r.Post("/{id}/fixtures/{fixtureID}/result", knockoutHandler.SubmitResult)
	})

	router.Route("/matches", func(r chi.Router) {
		r.Post("/", matchHandler.Initialize)
		r.Route("/current", func(r chi.Router) {
			r.Get("/", matchHandler.GetCurrent)
			r.Get("/time", matchHandler.GetTime)
			r.Get("/roster/{teamID}", matchHandler.GetActiveRoster)
			r.Put("/roster", matchHandler.UpdateRoster)
			r.Post("/start", matchHandler.Start)
			r.Post("/pause", matchHandler.Pause)
			r.Post("/resume", matchHandler.Resume)
			r.Post("/events", matchHandler.AddEvent)
			r.Put("/events/{eventID}", matchHandler.UpdateEvent)
			r.Delete("/events/{eventID}", matchHandler.RemoveEvent)
			r.Post("/end", matchHandler.End)
			r.Post("/abandon", matchHandler.Abandon)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
