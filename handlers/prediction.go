package handlers

import (
	"coindrafts-engine/middleware"
	"coindrafts-engine/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPredictionRoutes(app *fiber.App, prediction *services.PredictionService) {
	// 🔓 Public read-only queries
	app.Get("/markets", prediction.ListMarkets)
	app.Get("/markets/:id", prediction.GetMarketByID)

	// 🔐 Operations
	secured := app.Group("/s", middleware.AccountContextMiddleware())
	secured.Post("/markets", prediction.CreateMarket)
	secured.Post("/markets/:id/predictions", prediction.SubmitPrediction)

	admin := secured.Group("/admin")
	admin.Post("/markets/:id/settle", prediction.SettleMarket)
}
