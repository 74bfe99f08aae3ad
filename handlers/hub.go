package handlers

import (
	"coindrafts-engine/middleware"
	"coindrafts-engine/services"

	"github.com/gofiber/fiber/v2"
)

func SetupHubRoutes(app *fiber.App, hub *services.HubService) {
	// 🔓 Public read-only queries
	app.Get("/games", hub.ListGames)
	app.Get("/games/:id", hub.GetGameByID)
	app.Get("/players/:account", hub.GetPlayerProfile)
	app.Get("/players/:account/history", hub.GetPlayerHistory)
	app.Get("/leaderboard", hub.GetLeaderboard)
	app.Get("/achievements", hub.ListAchievementCatalog)

	// 🔐 Operations (require gateway account context)
	secured := app.Group("/s", middleware.AccountContextMiddleware())
	secured.Post("/games", hub.CreateGame)
	secured.Post("/games/:id/register", hub.RegisterPlayer)
	secured.Post("/games/:id/portfolio", hub.SubmitPortfolio)

	// Admin/gateway operations acting on behalf of accounts
	admin := secured.Group("/admin")
	admin.Post("/games/:id/register", hub.RegisterPlayerWithAccount)
	admin.Post("/games/:id/portfolio", hub.SubmitPortfolioForAccount)
	admin.Post("/games/:id/start", hub.StartGame)
	admin.Post("/games/:id/end", hub.EndGame)
	admin.Post("/games/:id/cancel", hub.CancelGame)
}
