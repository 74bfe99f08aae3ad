package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"coindrafts-engine/bus"
	"coindrafts-engine/models"
	"coindrafts-engine/scoring"
	"coindrafts-engine/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HubService is the hub instance: contest lifecycle, registration,
// portfolio intake, settlement, achievements. The mutex serializes
// operations and inbound messages, so every handler runs to completion
// against a quiescent store.
type HubService struct {
	DB  *gorm.DB
	Bus *bus.Router
	mu  sync.Mutex
}

func NewHubService(db *gorm.DB, router *bus.Router) *HubService {
	return &HubService{DB: db, Bus: router}
}

func (s *HubService) InstanceID() string { return bus.InstanceHub }

// CreateGame creates a contest in the open state. Traditional-league and
// quick-match games are delegated to the leagues engine by message; the
// contest does not wait for the reply.
func (s *HubService) CreateGame(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	type Req struct {
		Name          string  `json:"name"`
		Mode          string  `json:"mode"`
		EntryFee      *uint64 `json:"entry_fee"`
		DurationHours *uint64 `json:"duration_hours"`
		MaxPlayers    *int    `json:"max_players"`
		PortfolioSize *int    `json:"portfolio_size"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	creator := accountFromCtx(c)
	if creator == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing account context"})
	}

	preset, ok := models.ModePresets[req.Mode]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("unknown game mode: %s", req.Mode)})
	}
	entryFee := preset.EntryFeeMicros
	if req.EntryFee != nil {
		entryFee = *req.EntryFee
	}
	duration := preset.DurationHours
	if req.DurationHours != nil {
		duration = *req.DurationHours
	}
	maxPlayers := preset.MaxPlayers
	if req.MaxPlayers != nil {
		maxPlayers = *req.MaxPlayers
	}
	portfolioSize := preset.PortfolioSize
	if req.PortfolioSize != nil {
		portfolioSize = *req.PortfolioSize
	}

	if len(req.Name) < models.MinGameNameLen || len(req.Name) > models.MaxGameNameLen {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("game name must be %d-%d characters", models.MinGameNameLen, models.MaxGameNameLen),
		})
	}
	if entryFee < models.MinEntryFeeMicros || entryFee > models.MaxEntryFeeMicros {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "entry fee out of range"})
	}
	if duration < models.MinGameDurationHours || duration > models.MaxGameDurationHours {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "duration out of range"})
	}
	if portfolioSize < models.MinPortfolioSize || portfolioSize > models.MaxPortfolioSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "portfolio size out of range"})
	}
	if maxPlayers < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "max players must be at least 2"})
	}

	var game models.Game
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		seq, err := nextCounterValue(tx, "game")
		if err != nil {
			return err
		}
		game = models.Game{
			ID:            fmt.Sprintf("game_%d", seq),
			Name:          req.Name,
			Slug:          slug.Make(req.Name),
			Mode:          req.Mode,
			Creator:       creator,
			EntryFee:      entryFee,
			DurationHours: duration,
			MaxPlayers:    maxPlayers,
			PortfolioSize: portfolioSize,
			Status:        models.StatusOpen,
		}
		return tx.Create(&game).Error
	})
	if err != nil {
		log.Printf("❌ [HUB] failed to create game: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create game"})
	}

	if game.Mode == models.ModeTraditionalLeague || game.Mode == models.ModeQuickMatch {
		sendMessage(s.Bus, bus.InstanceHub, bus.InstanceLeagues, bus.KindCreateTournament, bus.CreateTournamentPayload{
			GameID:          game.ID,
			Name:            game.Name,
			TournamentType:  models.TournamentLeague,
			EntryFee:        game.EntryFee,
			MaxParticipants: game.MaxPlayers,
			DurationMinutes: int(game.DurationHours * 60),
		})
	}

	log.Printf("✅ [HUB] created %s (%s, mode=%s)", game.ID, game.Name, game.Mode)
	return c.Status(fiber.StatusCreated).JSON(game)
}

// RegisterPlayer registers the authenticated account.
func (s *HubService) RegisterPlayer(c *fiber.Ctx) error {
	account := accountFromCtx(c)
	if account == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing account context"})
	}
	type Req struct {
		DisplayName string `json:"display_name"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	return s.register(c, c.Params("id"), account, req.DisplayName)
}

// RegisterPlayerWithAccount registers an explicit account (gateway/admin
// path used when the hub registers on a player's behalf).
func (s *HubService) RegisterPlayerWithAccount(c *fiber.Ctx) error {
	type Req struct {
		Account     string `json:"account"`
		DisplayName string `json:"display_name"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil || req.Account == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "account is required"})
	}
	return s.register(c, c.Params("id"), req.Account, req.DisplayName)
}

func (s *HubService) register(c *fiber.Ctx, gameID, account, displayName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	displayName = utils.NormalizeDisplayName(displayName)
	if displayName == "" {
		displayName = account
	}

	var game models.Game
	if err := s.DB.First(&game, "id = ?", gameID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load game"})
	}

	var existing models.GamePlayer
	found := s.DB.Where("game_id = ? AND account = ?", gameID, account).
		First(&existing).Error == nil

	if found {
		// Idempotent re-registration: refresh the display name only,
		// the player count stays where it is.
		existing.DisplayName = displayName
		if err := s.DB.Save(&existing).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update registration"})
		}
		return c.JSON(fiber.Map{"registered": true, "game_id": gameID, "account": account, "already_registered": true})
	}

	if !game.AcceptsRegistrations() {
		reason := "registration closed"
		if game.Status == models.StatusOpen {
			reason = "game is full"
		}
		log.Printf("⚠️ [HUB] registration for %s on %s rejected: %s", account, gameID, reason)
		return c.JSON(fiber.Map{"registered": false, "game_id": gameID, "reason": reason})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		player := models.GamePlayer{
			ID:          uuid.NewString(),
			GameID:      gameID,
			Account:     account,
			DisplayName: displayName,
		}
		if err := tx.Create(&player).Error; err != nil {
			return err
		}
		// Profile stats are never reset by registration.
		var profile models.PlayerProfile
		if err := tx.Where("account = ?", account).First(&profile).Error; err == gorm.ErrRecordNotFound {
			profile = models.PlayerProfile{Account: account, DisplayName: displayName, Tier: models.TierRookie}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		return tx.Model(&models.Game{}).Where("id = ?", gameID).
			UpdateColumn("player_count", gorm.Expr("player_count + 1")).Error
	})
	if err != nil {
		log.Printf("❌ [HUB] failed to register %s on %s: %v", account, gameID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to register player"})
	}

	if game.TournamentID != "" {
		sendMessage(s.Bus, bus.InstanceHub, bus.InstanceLeagues, bus.KindRegisterPlayerForTournament, bus.RegisterPlayerForTournamentPayload{
			TournamentID: game.TournamentID,
			Account:      account,
			DisplayName:  displayName,
		})
		sendMessage(s.Bus, bus.InstanceHub, bus.InstanceLeagues, bus.KindVerifyPlayer, bus.VerifyPlayerPayload{
			TournamentID: game.TournamentID,
			Account:      account,
		})
	}

	log.Printf("✅ [HUB] %s registered on %s", account, gameID)
	return c.JSON(fiber.Map{"registered": true, "game_id": gameID, "account": account})
}

// SubmitPortfolio submits the authenticated account's draft.
func (s *HubService) SubmitPortfolio(c *fiber.Ctx) error {
	account := accountFromCtx(c)
	if account == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing account context"})
	}
	return s.submitPortfolio(c, c.Params("id"), account)
}

// SubmitPortfolioForAccount submits a draft for an explicit account.
func (s *HubService) SubmitPortfolioForAccount(c *fiber.Ctx) error {
	account := c.Query("account")
	if account == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "account query parameter is required"})
	}
	return s.submitPortfolio(c, c.Params("id"), account)
}

func (s *HubService) submitPortfolio(c *fiber.Ctx, gameID, account string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	type Req struct {
		Holdings []models.CryptoHolding `json:"holdings"`
		Symbols  []string               `json:"symbols"` // equal-split shorthand
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	var game models.Game
	if err := s.DB.First(&game, "id = ?", gameID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load game"})
	}
	if game.Status != models.StatusOpen {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "portfolio submissions are closed"})
	}

	var registered int64
	s.DB.Model(&models.GamePlayer{}).Where("game_id = ? AND account = ?", gameID, account).Count(&registered)
	if registered == 0 {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "account is not registered for this game"})
	}

	holdings := req.Holdings
	if len(holdings) == 0 {
		holdings = models.EqualSplitHoldings(req.Symbols)
	}
	if err := models.ValidateHoldings(holdings, game.PortfolioSize); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	portfolio := models.Portfolio{
		ID:       uuid.NewString(),
		GameID:   gameID,
		Account:  account,
		Holdings: holdings,
	}
	// Resubmitting while open overwrites the previous draft.
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}, {Name: "account"}},
		DoUpdates: clause.AssignmentColumns([]string{"holdings", "updated_at"}),
	}).Create(&portfolio).Error; err != nil {
		log.Printf("❌ [HUB] failed to store portfolio for %s on %s: %v", account, gameID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store portfolio"})
	}

	if game.TournamentID != "" {
		picks := make([]string, 0, len(holdings))
		for _, h := range holdings {
			picks = append(picks, h.Symbol)
		}
		sendMessage(s.Bus, bus.InstanceHub, bus.InstanceLeagues, bus.KindSyncPortfolio, bus.SyncPortfolioPayload{
			TournamentID: game.TournamentID,
			Account:      account,
			Picks:        picks,
		})
	}

	return c.JSON(fiber.Map{"submitted": true, "game_id": gameID, "account": account, "holdings": holdings})
}

// StartGame moves an open game to active and pins the start snapshot.
// Re-invocation on an already active game is a warned no-op.
func (s *HubService) StartGame(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	type Req struct {
		StartPrices models.PriceTable `json:"start_prices"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	gameID := c.Params("id")
	var game models.Game
	if err := s.DB.First(&game, "id = ?", gameID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load game"})
	}
	if game.Status != models.StatusOpen {
		log.Printf("⚠️ [HUB] cannot start %s - status is %s", gameID, game.Status)
		return c.JSON(fiber.Map{"started": false, "game_id": gameID, "status": game.Status})
	}

	prices := req.StartPrices
	if len(prices) == 0 {
		prices = s.snapshotFromQuotes()
	}
	if len(prices) == 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "no start prices available"})
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":       models.StatusActive,
		"start_prices": prices,
		"started_at":   &now,
	}
	if err := s.DB.Model(&game).Updates(updates).Error; err != nil {
		log.Printf("❌ [HUB] failed to start %s: %v", gameID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to start game"})
	}

	log.Printf("✅ [HUB] %s started with %d price(s)", gameID, len(prices))
	return c.JSON(fiber.Map{"started": true, "game_id": gameID, "start_prices": prices})
}

// EndGame settles an active game. Guard failures (wrong status, missing
// snapshot, no portfolios, already settled) log a warning and return a
// no-op acknowledgment rather than an error.
func (s *HubService) EndGame(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	type Req struct {
		EndPrices models.PriceTable `json:"end_prices"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	gameID := c.Params("id")
	var game models.Game
	if err := s.DB.First(&game, "id = ?", gameID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load game"})
	}

	endPrices := req.EndPrices
	if len(endPrices) == 0 {
		endPrices = s.snapshotFromQuotes()
	}

	report, reason, err := s.settleGame(&game, endPrices)
	if err != nil {
		log.Printf("❌ [HUB] settlement of %s failed: %v", gameID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "settlement failed"})
	}
	if report == nil {
		log.Printf("⚠️ [HUB] cannot end %s - %s", gameID, reason)
		return c.JSON(fiber.Map{"settled": false, "game_id": gameID, "reason": reason})
	}
	return c.JSON(fiber.Map{
		"settled":    true,
		"game_id":    gameID,
		"winners":    report.Winners,
		"prize_pool": report.PrizePool,
		"results":    report.Results,
	})
}

// CancelGame cancels an open or active game. No prizes are paid.
func (s *HubService) CancelGame(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	gameID := c.Params("id")
	var game models.Game
	if err := s.DB.First(&game, "id = ?", gameID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load game"})
	}
	if game.Status != models.StatusOpen && game.Status != models.StatusActive {
		log.Printf("⚠️ [HUB] cannot cancel %s - status is %s", gameID, game.Status)
		return c.JSON(fiber.Map{"cancelled": false, "game_id": gameID, "status": game.Status})
	}
	if err := s.DB.Model(&game).Update("status", models.StatusCancelled).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to cancel game"})
	}
	log.Printf("✅ [HUB] %s cancelled", gameID)
	return c.JSON(fiber.Map{"cancelled": true, "game_id": gameID})
}

// SettleDueGames is the explicit tick invoked by the scheduler: any active
// game past its duration is settled against the current quote snapshot.
func (s *HubService) SettleDueGames() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var games []models.Game
	if err := s.DB.Where("status = ?", models.StatusActive).Find(&games).Error; err != nil {
		log.Printf("❌ [HUB] expiry tick failed to list active games: %v", err)
		return 0
	}

	now := time.Now().UTC()
	settled := 0
	for i := range games {
		game := &games[i]
		if game.StartedAt == nil {
			continue
		}
		deadline := game.StartedAt.Add(time.Duration(game.DurationHours) * time.Hour)
		if now.Before(deadline) {
			continue
		}
		report, reason, err := s.settleGame(game, s.snapshotFromQuotes())
		if err != nil {
			log.Printf("❌ [HUB] expiry settlement of %s failed: %v", game.ID, err)
			continue
		}
		if report == nil {
			log.Printf("⚠️ [HUB] expiry tick skipped %s - %s", game.ID, reason)
			continue
		}
		settled++
	}
	if settled > 0 {
		log.Printf("✅ [HUB] expiry tick settled %d game(s)", settled)
	}
	return settled
}

// settleGame runs the full settlement pipeline. It returns a nil report
// with a reason when a precondition fails; the caller decides how loudly to
// complain. The settled flag flips inside the transaction, so concurrent or
// repeated calls settle at most once.
func (s *HubService) settleGame(game *models.Game, endPrices models.PriceTable) (*models.SettlementReport, string, error) {
	if game.Status != models.StatusActive {
		return nil, fmt.Sprintf("status is %s, not active", game.Status), nil
	}
	if game.SettledAt != nil {
		return nil, "already settled", nil
	}
	if len(game.StartPrices) == 0 {
		return nil, "no start price snapshot", nil
	}
	if len(endPrices) == 0 {
		return nil, "no end prices available", nil
	}

	var portfolios []models.Portfolio
	if err := s.DB.Where("game_id = ?", game.ID).
		Order("submitted_at asc").Find(&portfolios).Error; err != nil {
		return nil, "", err
	}
	if len(portfolios) == 0 {
		return nil, "no portfolios submitted", nil
	}

	entries := make([]scoring.Entry, 0, len(portfolios))
	for _, p := range portfolios {
		entries = append(entries, scoring.Entry{
			Account:  p.Account,
			ScoreBps: scoring.PortfolioReturnBps(p.Holdings, game.StartPrices, endPrices),
		})
	}
	ranked := scoring.Rank(entries)
	pool := scoring.PrizePool(game.EntryFee, game.PlayerCount)

	now := time.Now().UTC()
	winners := make([]string, 0, 3)
	results := make([]models.GameResult, 0, len(ranked))
	for i, entry := range ranked {
		rank := i + 1
		if rank <= 3 {
			winners = append(winners, entry.Account)
		}
		results = append(results, models.GameResult{
			ID:        uuid.NewString(),
			GameID:    game.ID,
			Account:   entry.Account,
			Rank:      rank,
			ReturnBps: entry.ScoreBps,
			Prize:     scoring.PrizeForRank(pool, scoring.HubPrizeSplit, rank),
			SettledAt: now,
		})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Exactly-once: only the call that flips the flag settles.
		claim := tx.Model(&models.Game{}).
			Where("id = ? AND status = ? AND settled_at IS NULL", game.ID, models.StatusActive).
			Updates(map[string]interface{}{"status": models.StatusSettling, "settled_at": &now})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Create(&results).Error; err != nil {
			return err
		}
		for _, r := range results {
			if err := s.applyResultToProfile(tx, game.ID, r); err != nil {
				return err
			}
		}
		return tx.Model(&models.Game{}).Where("id = ?", game.ID).Updates(map[string]interface{}{
			"status":           models.StatusCompleted,
			"end_prices":       endPrices,
			"winners":          winners,
			"total_prize_pool": pool,
			"ended_at":         &now,
		}).Error
	})
	if err == gorm.ErrRecordNotFound {
		return nil, "already settled", nil
	}
	if err != nil {
		return nil, "", err
	}

	game.Status = models.StatusCompleted
	game.SettledAt = &now

	report := &models.SettlementReport{
		GameID:    game.ID,
		Mode:      game.Mode,
		PrizePool: pool,
		Winners:   winners,
		Results:   results,
		SettledAt: now,
	}
	// Archival is best effort: a storage outage must never block settlement.
	go func() {
		key := fmt.Sprintf("settlements/%s.json", report.GameID)
		if _, err := utils.UploadJSONToR2(key, report); err != nil {
			log.Printf("⚠️ [HUB] failed to archive settlement report for %s: %v", report.GameID, err)
		}
	}()

	log.Printf("✅ [HUB] %s settled: pool=%d winners=%v", game.ID, pool, winners)
	return report, "", nil
}

// applyResultToProfile folds one settled row into the player's stats, tier
// and achievements.
func (s *HubService) applyResultToProfile(tx *gorm.DB, gameID string, r models.GameResult) error {
	var profile models.PlayerProfile
	if err := tx.Where("account = ?", r.Account).First(&profile).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		profile = models.PlayerProfile{Account: r.Account, DisplayName: r.Account, Tier: models.TierRookie}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
	}

	previousTier := profile.Tier
	// Running average over the games played so far.
	profile.AvgPerformanceBps = (profile.AvgPerformanceBps*int64(profile.GamesPlayed) + r.ReturnBps) / int64(profile.GamesPlayed+1)
	profile.GamesPlayed++
	if r.Rank == 1 {
		profile.GamesWon++
		profile.CurrentStreak++
		if profile.CurrentStreak > profile.LongestStreak {
			profile.LongestStreak = profile.CurrentStreak
		}
	} else {
		profile.CurrentStreak = 0
	}
	if r.Rank <= 10 {
		profile.Top10Finishes++
	}
	if r.ReturnBps > profile.BestPerformanceBps || profile.GamesPlayed == 1 {
		profile.BestPerformanceBps = r.ReturnBps
	}
	profile.TotalEarnings += r.Prize
	profile.Tier = scoring.TierFor(profile.GamesPlayed, profile.WinRateBps())

	if err := tx.Save(&profile).Error; err != nil {
		return err
	}

	outcome := scoring.SettlementOutcome{
		Rank:         r.Rank,
		ReturnBps:    r.ReturnBps,
		PreviousTier: previousTier,
		NewTier:      profile.Tier,
	}
	for _, kind := range scoring.NewlyUnlocked(profile, outcome) {
		var count int64
		if err := tx.Model(&models.Achievement{}).
			Where("account = ? AND kind = ?", r.Account, kind).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		achievement := models.Achievement{
			ID:      uuid.NewString(),
			Account: r.Account,
			Kind:    kind,
			GameID:  gameID,
		}
		if err := tx.Create(&achievement).Error; err != nil {
			return err
		}
		log.Printf("🏆 [HUB] %s unlocked %s", r.Account, kind)
	}
	return nil
}

// snapshotFromQuotes builds a price table from the worker-maintained cache.
func (s *HubService) snapshotFromQuotes() models.PriceTable {
	var quotes []models.PriceQuote
	if err := s.DB.Find(&quotes).Error; err != nil {
		log.Printf("❌ [HUB] failed to load price quotes: %v", err)
		return nil
	}
	table := make(models.PriceTable, len(quotes))
	for _, q := range quotes {
		table[q.Symbol] = q.PriceMicro
	}
	return table
}

// accountFromCtx reads the account set by the gateway context middleware.
func accountFromCtx(c *fiber.Ctx) string {
	if v, ok := c.Locals("account_id").(string); ok {
		return v
	}
	return ""
}
