package handlers

import (
	"coindrafts-engine/middleware"
	"coindrafts-engine/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeagueRoutes(app *fiber.App, leagues *services.LeagueService) {
	// 🔓 Public read-only queries
	app.Get("/tournaments", leagues.ListTournaments)
	app.Get("/tournaments/:id", leagues.GetTournamentByID)

	// 🔐 Operations
	secured := app.Group("/s", middleware.AccountContextMiddleware())
	secured.Post("/tournaments", leagues.CreateTournament)
	secured.Post("/tournaments/:id/register", leagues.RegisterForTournament)
	secured.Post("/tournaments/:id/portfolio", leagues.SubmitTournamentPortfolio)

	admin := secured.Group("/admin")
	admin.Post("/tournaments/:id/start", leagues.StartTournament)
	admin.Post("/tournaments/:id/advance", leagues.AdvanceRound)
	admin.Post("/tournaments/:id/complete", leagues.CompleteTournament)
	admin.Post("/tournaments/:id/end", leagues.EndTournament)
	admin.Post("/tournaments/:id/cancel", leagues.CancelTournament)
	admin.Post("/tournaments/check-expired", leagues.CheckExpiredTournaments)
}
