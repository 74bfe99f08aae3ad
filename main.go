package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"coindrafts-engine/bus"
	"coindrafts-engine/handlers"
	"coindrafts-engine/middleware"
	"coindrafts-engine/models"
	"coindrafts-engine/services"
	"coindrafts-engine/utils"
	"coindrafts-engine/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024, // 1MB — JSON operations only
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-Account-ID, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	// Settlement report archival is best effort, so a broken R2 config only
	// warns.
	if err := utils.InitR2(); err != nil {
		log.Printf("⚠️  R2 unavailable, settlement reports will not be archived: %v", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Game{},
		&models.GamePlayer{},
		&models.GameResult{},
		&models.PlayerProfile{},
		&models.Portfolio{},
		&models.Achievement{},
		&models.Tournament{},
		&models.TournamentPortfolio{},
		&models.TournamentResult{},
		&models.PredictionMarket{},
		&models.Prediction{},
		&models.IDCounter{},
		&models.ProcessedMessage{},
		&models.PriceQuote{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := bus.NewRouter()
	hubService := services.NewHubService(db, router)
	leagueService := services.NewLeagueService(db, router)
	predictionService := services.NewPredictionService(db, router)
	router.Register(hubService)
	router.Register(leagueService)
	router.Register(predictionService)
	router.Start(ctx)

	priceFeed := workers.NewPriceFeedClient(db)
	if priceFeed != nil {
		go workers.PollPrices(ctx, priceFeed, 30*time.Second)
		log.Println("✅ Price feed polling running (every 30s)")
	} else {
		log.Println("⚠️  PRICE_FEED_URL not set, seeding static price quotes")
		if err := workers.SeedStaticQuotes(db); err != nil {
			log.Fatal("failed to seed static price quotes:", err)
		}
	}

	scheduler, err := services.StartSettlementScheduler(hubService, leagueService)
	if err != nil {
		log.Fatal("failed to start settlement scheduler:", err)
	}
	defer func() { _ = scheduler.Shutdown() }()

	// ✅ Setup routes — enforced Gateway auth + consistent /s/ prefix
	handlers.SetupHubRoutes(app, hubService)
	handlers.SetupLeagueRoutes(app, leagueService)
	handlers.SetupPredictionRoutes(app, predictionService)

	go func() {
		if err := app.Listen(":5200"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5200")
	log.Println("✅ Hub, leagues and prediction instances registered on message router")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	router.Wait()
}
