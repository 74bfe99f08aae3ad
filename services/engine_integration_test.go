package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"coindrafts-engine/bus"
	"coindrafts-engine/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// End-to-end exercises against a real postgres. Skipped unless DATABASE_URL
// is set (CI provides one; locally: docker run postgres + export).

type testEngine struct {
	db      *gorm.DB
	app     *fiber.App
	hub     *HubService
	leagues *LeagueService
	markets *PredictionService
}

func setupTestEngine(t *testing.T) *testEngine {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	entities := []interface{}{
		&models.Game{}, &models.GamePlayer{}, &models.GameResult{},
		&models.PlayerProfile{}, &models.Portfolio{}, &models.Achievement{},
		&models.Tournament{}, &models.TournamentPortfolio{}, &models.TournamentResult{},
		&models.PredictionMarket{}, &models.Prediction{},
		&models.IDCounter{}, &models.ProcessedMessage{}, &models.PriceQuote{},
	}
	require.NoError(t, db.AutoMigrate(entities...))
	for _, entity := range entities {
		require.NoError(t, db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(entity).Error)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := bus.NewRouter()
	hub := NewHubService(db, router)
	leagues := NewLeagueService(db, router)
	markets := NewPredictionService(db, router)
	router.Register(hub)
	router.Register(leagues)
	router.Register(markets)
	router.Start(ctx)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("account_id", c.Get("X-Account-ID"))
		return c.Next()
	})
	app.Post("/games", hub.CreateGame)
	app.Post("/games/:id/register", hub.RegisterPlayerWithAccount)
	app.Post("/games/:id/portfolio", hub.SubmitPortfolioForAccount)
	app.Post("/games/:id/start", hub.StartGame)
	app.Post("/games/:id/end", hub.EndGame)
	app.Post("/tournaments/:id/register", leagues.RegisterForTournament)
	app.Post("/tournaments/:id/portfolio", leagues.SubmitTournamentPortfolio)
	app.Post("/tournaments/:id/start", leagues.StartTournament)
	app.Post("/tournaments/:id/end", leagues.EndTournament)
	app.Post("/markets", markets.CreateMarket)
	app.Post("/markets/:id/predictions", markets.SubmitPrediction)
	app.Post("/markets/:id/settle", markets.SettleMarket)

	return &testEngine{db: db, app: app, hub: hub, leagues: leagues, markets: markets}
}

func (e *testEngine) post(t *testing.T, path, account string, body interface{}) map[string]interface{} {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if account != "" {
		req.Header.Set("X-Account-ID", account)
	}
	resp, err := e.app.Test(req, 10_000)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	out["_status"] = float64(resp.StatusCode)
	return out
}

func TestHubGameLifecycle(t *testing.T) {
	e := setupTestEngine(t)

	created := e.post(t, "/games", "creator-1", fiber.Map{
		"name":        "Friday Night Draft",
		"mode":        models.ModeQuickMatch,
		"entry_fee":   1_000_000,
		"max_players": 2,
	})
	require.Equal(t, float64(http.StatusCreated), created["_status"])
	gameID := created["id"].(string)

	// Two registrations fill the game.
	resp := e.post(t, fmt.Sprintf("/games/%s/register", gameID), "", fiber.Map{"account": "alice", "display_name": "Alice"})
	assert.Equal(t, true, resp["registered"])
	resp = e.post(t, fmt.Sprintf("/games/%s/register", gameID), "", fiber.Map{"account": "bob", "display_name": "Bob"})
	assert.Equal(t, true, resp["registered"])

	// Re-registering alice is an accepted idempotent overwrite that leaves
	// player_count at 2.
	resp = e.post(t, fmt.Sprintf("/games/%s/register", gameID), "", fiber.Map{"account": "alice", "display_name": "Alice II"})
	assert.Equal(t, true, resp["registered"])
	assert.Equal(t, true, resp["already_registered"])

	var game models.Game
	require.NoError(t, e.db.First(&game, "id = ?", gameID).Error)
	assert.Equal(t, 2, game.PlayerCount)

	// A third account bounces softly off the full game.
	resp = e.post(t, fmt.Sprintf("/games/%s/register", gameID), "", fiber.Map{"account": "carol"})
	assert.Equal(t, false, resp["registered"])
	assert.Equal(t, "game is full", resp["reason"])

	e.post(t, fmt.Sprintf("/games/%s/portfolio?account=alice", gameID), "", fiber.Map{
		"holdings": []models.CryptoHolding{{Symbol: "BTC", AllocationPercent: 50}, {Symbol: "ETH", AllocationPercent: 50}},
	})
	e.post(t, fmt.Sprintf("/games/%s/portfolio?account=bob", gameID), "", fiber.Map{
		"holdings": []models.CryptoHolding{{Symbol: "SOL", AllocationPercent: 100}},
	})

	// Settling a never-started game is a warned no-op with zero results.
	resp = e.post(t, fmt.Sprintf("/games/%s/end", gameID), "", fiber.Map{
		"end_prices": models.PriceTable{"BTC": 1, "ETH": 1, "SOL": 1},
	})
	assert.Equal(t, false, resp["settled"])
	require.NoError(t, e.db.First(&game, "id = ?", gameID).Error)
	assert.Equal(t, models.StatusOpen, game.Status)
	var resultCount int64
	e.db.Model(&models.GameResult{}).Where("game_id = ?", gameID).Count(&resultCount)
	assert.Zero(t, resultCount)

	resp = e.post(t, fmt.Sprintf("/games/%s/start", gameID), "", fiber.Map{
		"start_prices": models.PriceTable{"BTC": 45_000_000_000, "ETH": 3_200_000_000, "SOL": 95_000_000},
	})
	assert.Equal(t, true, resp["started"])

	// BTC +4%, ETH +5%, SOL -10%: alice scores 450 bp, bob -1000 bp.
	resp = e.post(t, fmt.Sprintf("/games/%s/end", gameID), "", fiber.Map{
		"end_prices": models.PriceTable{"BTC": 46_800_000_000, "ETH": 3_360_000_000, "SOL": 85_500_000},
	})
	assert.Equal(t, true, resp["settled"])

	var results []models.GameResult
	require.NoError(t, e.db.Where("game_id = ?", gameID).Order("rank asc").Find(&results).Error)
	require.Len(t, results, 2)
	assert.Equal(t, "alice", results[0].Account)
	assert.Equal(t, int64(450), results[0].ReturnBps)
	assert.Equal(t, uint64(1_000_000), results[0].Prize) // 50% of 2_000_000
	assert.Equal(t, "bob", results[1].Account)
	assert.Equal(t, int64(-1000), results[1].ReturnBps)
	assert.Equal(t, uint64(600_000), results[1].Prize) // 30% of 2_000_000

	// Settlement happens exactly once.
	resp = e.post(t, fmt.Sprintf("/games/%s/end", gameID), "", fiber.Map{
		"end_prices": models.PriceTable{"BTC": 1, "ETH": 1, "SOL": 1},
	})
	assert.Equal(t, false, resp["settled"])

	var alice models.PlayerProfile
	require.NoError(t, e.db.First(&alice, "account = ?", "alice").Error)
	assert.Equal(t, uint64(1), alice.GamesPlayed)
	assert.Equal(t, uint64(1), alice.GamesWon)
	assert.Equal(t, uint64(1_000_000), alice.TotalEarnings)

	var firstWin int64
	e.db.Model(&models.Achievement{}).Where("account = ? AND kind = ?", "alice", models.AchievementFirstWin).Count(&firstWin)
	assert.Equal(t, int64(1), firstWin)
}

func TestDelegatedTournamentRoundTrip(t *testing.T) {
	e := setupTestEngine(t)

	created := e.post(t, "/games", "creator-1", fiber.Map{
		"name": "Delegated League",
		"mode": models.ModeTraditionalLeague,
	})
	require.Equal(t, float64(http.StatusCreated), created["_status"])
	gameID := created["id"].(string)

	// create_tournament flows to the leagues instance, which replies with
	// tournament_created; the hub then records the delegation.
	var game models.Game
	require.Eventually(t, func() bool {
		if err := e.db.First(&game, "id = ?", gameID).Error; err != nil {
			return false
		}
		return game.DelegationConfirmed && game.TournamentID != ""
	}, 5*time.Second, 50*time.Millisecond)

	var tournament models.Tournament
	require.NoError(t, e.db.First(&tournament, "id = ?", game.TournamentID).Error)
	assert.Equal(t, gameID, tournament.GameID)
	assert.Equal(t, models.TournamentRegistration, tournament.Status)
}

func TestTournamentSettlementPaysTopThree(t *testing.T) {
	e := setupTestEngine(t)

	var tournament models.Tournament
	require.NoError(t, e.db.Transaction(func(tx *gorm.DB) error {
		var err error
		tournament, err = e.leagues.createTournament(tx, "", "Standalone Cup", models.TournamentLeague, 1_000_000, 10, 10)
		return err
	}))

	accounts := []string{"p1", "p2", "p3", "p4"}
	for _, account := range accounts {
		resp := e.post(t, fmt.Sprintf("/tournaments/%s/register", tournament.ID), "", fiber.Map{"account": account})
		require.Equal(t, true, resp["registered"])
	}

	resp := e.post(t, fmt.Sprintf("/tournaments/%s/start", tournament.ID), "", fiber.Map{
		"start_prices": models.PriceTable{"BTC": 1_000_000, "ETH": 1_000_000, "SOL": 1_000_000, "ADA": 1_000_000},
	})
	require.Equal(t, true, resp["started"])

	// Distinct first picks produce a strict ranking: ADA +20%, BTC +10%,
	// ETH flat, SOL -10%.
	picks := map[string]string{"p1": "SOL", "p2": "ADA", "p3": "BTC", "p4": "ETH"}
	for account, pick := range picks {
		resp = e.post(t, fmt.Sprintf("/tournaments/%s/portfolio", tournament.ID), "", fiber.Map{
			"account": account,
			"picks":   []string{pick},
		})
		require.Equal(t, true, resp["submitted"])
	}

	resp = e.post(t, fmt.Sprintf("/tournaments/%s/end", tournament.ID), "", fiber.Map{
		"end_prices": models.PriceTable{"BTC": 1_100_000, "ETH": 1_000_000, "SOL": 900_000, "ADA": 1_200_000},
	})
	require.Equal(t, true, resp["settled"])

	var results []models.TournamentResult
	require.NoError(t, e.db.Where("tournament_id = ?", tournament.ID).Order("rank asc").Find(&results).Error)
	require.Len(t, results, 4)

	// Pool is 4_000_000; 60/30/10 pays the podium, rank 4 nothing.
	assert.Equal(t, "p2", results[0].Account)
	assert.Equal(t, uint64(2_400_000), results[0].Prize)
	assert.Equal(t, "p3", results[1].Account)
	assert.Equal(t, uint64(1_200_000), results[1].Prize)
	assert.Equal(t, "p4", results[2].Account)
	assert.Equal(t, uint64(400_000), results[2].Prize)
	assert.Equal(t, "p1", results[3].Account)
	assert.Zero(t, results[3].Prize)

	// Force-ending again is a no-op.
	resp = e.post(t, fmt.Sprintf("/tournaments/%s/end", tournament.ID), "", fiber.Map{})
	assert.Equal(t, false, resp["settled"])
}

func TestPredictionMarketSettlement(t *testing.T) {
	e := setupTestEngine(t)

	created := e.post(t, "/markets", "creator-1", fiber.Map{
		"asset":     "BTC",
		"entry_fee": 1_000_000,
	})
	require.Equal(t, float64(http.StatusCreated), created["_status"])
	marketID := created["id"].(string)

	resp := e.post(t, fmt.Sprintf("/markets/%s/predictions", marketID), "", fiber.Map{
		"account":     "alice",
		"lower_bound": 45_000_000,
		"upper_bound": 46_000_000,
		"confidence":  100,
	})
	require.Equal(t, true, resp["submitted"])
	resp = e.post(t, fmt.Sprintf("/markets/%s/predictions", marketID), "", fiber.Map{
		"account":     "bob",
		"lower_bound": 50_000_000,
		"upper_bound": 60_000_000,
		"confidence":  80,
	})
	require.Equal(t, true, resp["submitted"])

	resp = e.post(t, fmt.Sprintf("/markets/%s/settle", marketID), "", fiber.Map{"final_price": 45_500_000})
	require.Equal(t, true, resp["settled"])

	var alicePrediction models.Prediction
	require.NoError(t, e.db.First(&alicePrediction, "market_id = ? AND account = ?", marketID, "alice").Error)
	assert.True(t, alicePrediction.Hit)
	assert.Equal(t, uint64(20_000_000), alicePrediction.Reward)

	var bobPrediction models.Prediction
	require.NoError(t, e.db.First(&bobPrediction, "market_id = ? AND account = ?", marketID, "bob").Error)
	assert.False(t, bobPrediction.Hit)
	assert.Zero(t, bobPrediction.Reward)

	// Exactly once.
	resp = e.post(t, fmt.Sprintf("/markets/%s/settle", marketID), "", fiber.Map{"final_price": 55_000_000})
	assert.Equal(t, false, resp["settled"])
}
