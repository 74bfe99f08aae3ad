package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"coindrafts-engine/bus"
	"coindrafts-engine/models"
	"coindrafts-engine/scoring"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LeagueService is the traditional-leagues instance: round-based tournaments
// with position-weighted scoring and a 60/30/10 payout. Like the hub, a
// single mutex serializes operations and inbound messages.
type LeagueService struct {
	DB  *gorm.DB
	Bus *bus.Router
	mu  sync.Mutex
}

func NewLeagueService(db *gorm.DB, router *bus.Router) *LeagueService {
	return &LeagueService{DB: db, Bus: router}
}

func (s *LeagueService) InstanceID() string { return bus.InstanceLeagues }

// CreateTournament creates a locally owned tournament (no hub game behind
// it, so no completion notification will be sent).
func (s *LeagueService) CreateTournament(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	type Req struct {
		Name            string  `json:"name"`
		Type            string  `json:"type"`
		EntryFee        *uint64 `json:"entry_fee"`
		MaxParticipants *int    `json:"max_participants"`
		DurationMinutes *int    `json:"duration_minutes"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(req.Name) < models.MinGameNameLen || len(req.Name) > models.MaxGameNameLen {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("tournament name must be %d-%d characters", models.MinGameNameLen, models.MaxGameNameLen),
		})
	}
	tournamentType := req.Type
	if tournamentType == "" {
		tournamentType = models.TournamentLeague
	}
	switch tournamentType {
	case models.TournamentSingleElimination, models.TournamentRoundRobin, models.TournamentSwiss, models.TournamentLeague:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("unknown tournament type: %s", tournamentType)})
	}

	entryFee := uint64(models.MicrosPerUSDC)
	if req.EntryFee != nil {
		entryFee = *req.EntryFee
	}
	if entryFee < models.MinEntryFeeMicros || entryFee > models.MaxEntryFeeMicros {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "entry fee out of range"})
	}
	maxParticipants := 100
	if req.MaxParticipants != nil {
		maxParticipants = *req.MaxParticipants
	}
	if maxParticipants < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "max participants must be at least 2"})
	}
	duration := 10
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}

	var tournament models.Tournament
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		tournament, txErr = s.createTournament(tx, "", req.Name, tournamentType, entryFee, maxParticipants, duration)
		return txErr
	})
	if err != nil {
		log.Printf("❌ [LEAGUES] failed to create tournament: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create tournament"})
	}
	log.Printf("✅ [LEAGUES] created %s (%s, type=%s)", tournament.ID, tournament.Name, tournament.Type)
	return c.Status(fiber.StatusCreated).JSON(tournament)
}

func (s *LeagueService) createTournament(tx *gorm.DB, gameID, name, tournamentType string, entryFee uint64, maxParticipants, durationMinutes int) (models.Tournament, error) {
	seq, err := nextCounterValue(tx, "tournament")
	if err != nil {
		return models.Tournament{}, err
	}
	tournament := models.Tournament{
		ID:              fmt.Sprintf("trad-league-%d", seq),
		GameID:          gameID,
		Name:            name,
		Slug:            slug.Make(name),
		Type:            tournamentType,
		Status:          models.TournamentRegistration,
		EntryFee:        entryFee,
		MaxParticipants: maxParticipants,
		DurationMinutes: durationMinutes,
		MaxRounds:       models.MaxRoundsFor(tournamentType, maxParticipants),
		Participants:    []string{},
	}
	if err := tx.Create(&tournament).Error; err != nil {
		return models.Tournament{}, err
	}
	return tournament, nil
}

// RegisterForTournament adds a participant during the registration phase.
// Re-registration is an idempotent no-op.
func (s *LeagueService) RegisterForTournament(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	type Req struct {
		Account     string `json:"account"`
		DisplayName string `json:"display_name"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil || req.Account == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "account is required"})
	}

	tournamentID := c.Params("id")
	registered, reason, err := s.addParticipant(s.DB, tournamentID, req.Account)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tournament not found"})
		}
		log.Printf("❌ [LEAGUES] failed to register %s on %s: %v", req.Account, tournamentID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to register"})
	}
	if !registered && reason != "already registered" {
		log.Printf("⚠️ [LEAGUES] registration for %s on %s rejected: %s", req.Account, tournamentID, reason)
		return c.JSON(fiber.Map{"registered": false, "tournament_id": tournamentID, "reason": reason})
	}
	return c.JSON(fiber.Map{"registered": true, "tournament_id": tournamentID, "account": req.Account})
}

// addParticipant enforces phase and capacity. Returns registered=false with
// a reason on a soft rejection.
func (s *LeagueService) addParticipant(db *gorm.DB, tournamentID, account string) (bool, string, error) {
	var tournament models.Tournament
	if err := db.First(&tournament, "id = ?", tournamentID).Error; err != nil {
		return false, "", err
	}
	if tournament.HasParticipant(account) {
		return false, "already registered", nil
	}
	if tournament.Status != models.TournamentRegistration {
		return false, fmt.Sprintf("status is %s, not registration", tournament.Status), nil
	}
	if tournament.IsFull() {
		return false, "tournament is full", nil
	}
	tournament.Participants = append(tournament.Participants, account)
	if err := db.Model(&tournament).Update("participants", tournament.Participants).Error; err != nil {
		return false, "", err
	}
	return true, "", nil
}

// SubmitTournamentPortfolio stores an account's ranked picks for the
// current round. Resubmission overwrites.
func (s *LeagueService) SubmitTournamentPortfolio(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	type Req struct {
		Account       string   `json:"account"`
		Picks         []string `json:"picks"`
		StrategyNotes string   `json:"strategy_notes"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil || req.Account == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "account is required"})
	}

	tournamentID := c.Params("id")
	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", tournamentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load tournament"})
	}
	if tournament.Status != models.TournamentRegistration && tournament.Status != models.TournamentInProgress {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "portfolio submissions are closed"})
	}
	if !tournament.HasParticipant(req.Account) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "account is not a participant"})
	}
	if err := validatePicks(req.Picks); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.upsertPortfolio(s.DB, &tournament, req.Account, req.Picks, req.StrategyNotes); err != nil {
		log.Printf("❌ [LEAGUES] failed to store picks for %s on %s: %v", req.Account, tournamentID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store portfolio"})
	}
	return c.JSON(fiber.Map{
		"submitted":     true,
		"tournament_id": tournamentID,
		"account":       req.Account,
		"round":         currentRound(&tournament),
	})
}

func validatePicks(picks []string) error {
	if len(picks) == 0 {
		return fmt.Errorf("at least one pick is required")
	}
	if len(picks) > len(scoring.PositionWeights) {
		return fmt.Errorf("at most %d picks are allowed", len(scoring.PositionWeights))
	}
	seen := make(map[string]bool, len(picks))
	for _, p := range picks {
		if !models.IsSupportedCrypto(p) {
			return fmt.Errorf("unsupported cryptocurrency: %s", p)
		}
		if seen[p] {
			return fmt.Errorf("duplicate pick: %s", p)
		}
		seen[p] = true
	}
	return nil
}

// currentRound maps the pre-start phase to round 1 so early submissions
// land where the first round will score them.
func currentRound(t *models.Tournament) int {
	if t.CurrentRound < 1 {
		return 1
	}
	return t.CurrentRound
}

func (s *LeagueService) upsertPortfolio(db *gorm.DB, t *models.Tournament, account string, picks []string, notes string) error {
	portfolio := models.TournamentPortfolio{
		ID:            uuid.NewString(),
		TournamentID:  t.ID,
		Round:         currentRound(t),
		Account:       account,
		Picks:         picks,
		StrategyNotes: notes,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tournament_id"}, {Name: "round"}, {Name: "account"}},
		DoUpdates: clause.AssignmentColumns([]string{"picks", "strategy_notes", "updated_at"}),
	}).Create(&portfolio).Error
}

// StartTournament closes registration, pins the start snapshot and opens
// round 1. Needs at least 2 participants.
func (s *LeagueService) StartTournament(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	type Req struct {
		StartPrices models.PriceTable `json:"start_prices"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	tournamentID := c.Params("id")
	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", tournamentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load tournament"})
	}
	if tournament.Status != models.TournamentRegistration {
		log.Printf("⚠️ [LEAGUES] cannot start %s - status is %s", tournamentID, tournament.Status)
		return c.JSON(fiber.Map{"started": false, "tournament_id": tournamentID, "status": tournament.Status})
	}
	if len(tournament.Participants) < 2 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "at least 2 participants are required"})
	}

	prices := req.StartPrices
	if len(prices) == 0 {
		prices = s.snapshotFromQuotes()
	}
	if len(prices) == 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "no start prices available"})
	}

	now := time.Now().UTC()
	if err := s.DB.Model(&tournament).Updates(map[string]interface{}{
		"status":        models.TournamentInProgress,
		"current_round": 1,
		"start_prices":  prices,
		"started_at":    &now,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to start tournament"})
	}
	tournament.Status = models.TournamentInProgress
	tournament.CurrentRound = 1
	s.notifyStatus(&tournament)

	log.Printf("✅ [LEAGUES] %s started with %d participant(s)", tournamentID, len(tournament.Participants))
	return c.JSON(fiber.Map{"started": true, "tournament_id": tournamentID, "round": 1})
}

// AdvanceRound moves an in-progress tournament to the next round, capped at
// max_rounds.
func (s *LeagueService) AdvanceRound(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tournamentID := c.Params("id")
	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", tournamentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load tournament"})
	}
	if tournament.Status != models.TournamentInProgress {
		log.Printf("⚠️ [LEAGUES] cannot advance %s - status is %s", tournamentID, tournament.Status)
		return c.JSON(fiber.Map{"advanced": false, "tournament_id": tournamentID, "status": tournament.Status})
	}
	if tournament.CurrentRound >= tournament.MaxRounds {
		log.Printf("⚠️ [LEAGUES] cannot advance %s - already at final round %d", tournamentID, tournament.CurrentRound)
		return c.JSON(fiber.Map{"advanced": false, "tournament_id": tournamentID, "round": tournament.CurrentRound})
	}

	tournament.CurrentRound++
	if err := s.DB.Model(&tournament).Update("current_round", tournament.CurrentRound).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to advance round"})
	}
	s.notifyStatus(&tournament)
	log.Printf("✅ [LEAGUES] %s advanced to round %d/%d", tournamentID, tournament.CurrentRound, tournament.MaxRounds)
	return c.JSON(fiber.Map{"advanced": true, "tournament_id": tournamentID, "round": tournament.CurrentRound})
}

// CompleteTournament settles once the configured duration has elapsed.
func (s *LeagueService) CompleteTournament(c *fiber.Ctx) error {
	return s.finish(c, false)
}

// EndTournament is the admin force-settle: same pipeline, no duration gate.
func (s *LeagueService) EndTournament(c *fiber.Ctx) error {
	return s.finish(c, true)
}

func (s *LeagueService) finish(c *fiber.Ctx, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	type Req struct {
		EndPrices models.PriceTable `json:"end_prices"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	tournamentID := c.Params("id")
	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", tournamentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load tournament"})
	}

	endPrices := req.EndPrices
	if len(endPrices) == 0 {
		endPrices = s.snapshotFromQuotes()
	}

	summary, reason, err := s.settleTournament(&tournament, endPrices, force)
	if err != nil {
		log.Printf("❌ [LEAGUES] settlement of %s failed: %v", tournamentID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "settlement failed"})
	}
	if summary == nil {
		log.Printf("⚠️ [LEAGUES] cannot complete %s - %s", tournamentID, reason)
		return c.JSON(fiber.Map{"settled": false, "tournament_id": tournamentID, "reason": reason})
	}
	return c.JSON(summary)
}

// CancelTournament cancels before completion. No prizes are paid.
func (s *LeagueService) CancelTournament(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tournamentID := c.Params("id")
	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", tournamentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load tournament"})
	}
	if tournament.Status != models.TournamentRegistration && tournament.Status != models.TournamentInProgress {
		log.Printf("⚠️ [LEAGUES] cannot cancel %s - status is %s", tournamentID, tournament.Status)
		return c.JSON(fiber.Map{"cancelled": false, "tournament_id": tournamentID, "status": tournament.Status})
	}
	if err := s.DB.Model(&tournament).Update("status", models.TournamentCancelled).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to cancel tournament"})
	}
	tournament.Status = models.TournamentCancelled
	s.notifyStatus(&tournament)
	log.Printf("✅ [LEAGUES] %s cancelled", tournamentID)
	return c.JSON(fiber.Map{"cancelled": true, "tournament_id": tournamentID})
}

// CheckExpiredTournaments is the explicit expiry tick: every in-progress
// tournament past its duration is settled. Invoked by the scheduler and
// exposed as an admin operation.
func (s *LeagueService) CheckExpiredTournaments(c *fiber.Ctx) error {
	settled := s.SettleExpired()
	return c.JSON(fiber.Map{"settled": settled})
}

// SettleExpired walks in-progress tournaments and settles the expired ones.
func (s *LeagueService) SettleExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tournaments []models.Tournament
	if err := s.DB.Where("status = ?", models.TournamentInProgress).Find(&tournaments).Error; err != nil {
		log.Printf("❌ [LEAGUES] expiry tick failed to list tournaments: %v", err)
		return 0
	}

	settled := 0
	for i := range tournaments {
		summary, reason, err := s.settleTournament(&tournaments[i], s.snapshotFromQuotes(), false)
		if err != nil {
			log.Printf("❌ [LEAGUES] expiry settlement of %s failed: %v", tournaments[i].ID, err)
			continue
		}
		if summary == nil {
			if reason != "duration not yet elapsed" {
				log.Printf("⚠️ [LEAGUES] expiry tick skipped %s - %s", tournaments[i].ID, reason)
			}
			continue
		}
		settled++
	}
	if settled > 0 {
		log.Printf("✅ [LEAGUES] expiry tick settled %d tournament(s)", settled)
	}
	return settled
}

// settleTournament is the settlement pipeline. Returns nil with a reason on
// a failed precondition. The settled flag flips inside the transaction.
func (s *LeagueService) settleTournament(tournament *models.Tournament, endPrices models.PriceTable, force bool) (fiber.Map, string, error) {
	if tournament.Status != models.TournamentInProgress {
		return nil, fmt.Sprintf("status is %s, not in_progress", tournament.Status), nil
	}
	if tournament.SettledAt != nil {
		return nil, "already settled", nil
	}
	if !force {
		if tournament.StartedAt == nil {
			return nil, "tournament was never started", nil
		}
		deadline := tournament.StartedAt.Add(time.Duration(tournament.DurationMinutes) * time.Minute)
		if time.Now().UTC().Before(deadline) {
			return nil, "duration not yet elapsed", nil
		}
	}
	if len(tournament.StartPrices) == 0 {
		return nil, "no start price snapshot", nil
	}
	if len(endPrices) == 0 {
		return nil, "no end prices available", nil
	}

	var portfolios []models.TournamentPortfolio
	if err := s.DB.Where("tournament_id = ? AND round = ?", tournament.ID, currentRound(tournament)).
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
			ScoreBps: scoring.RankedReturnBps(p.Picks, tournament.StartPrices, endPrices),
		})
	}
	ranked := scoring.Rank(entries)
	pool := scoring.PrizePool(tournament.EntryFee, len(tournament.Participants))

	now := time.Now().UTC()
	winners := make([]string, 0, 3)
	results := make([]models.TournamentResult, 0, len(ranked))
	for i, entry := range ranked {
		rank := i + 1
		if rank <= 3 {
			winners = append(winners, entry.Account)
		}
		results = append(results, models.TournamentResult{
			ID:           uuid.NewString(),
			TournamentID: tournament.ID,
			Account:      entry.Account,
			Rank:         rank,
			ScoreBps:     entry.ScoreBps,
			Prize:        scoring.PrizeForRank(pool, scoring.TournamentPrizeSplit, rank),
			SettledAt:    now,
		})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		claim := tx.Model(&models.Tournament{}).
			Where("id = ? AND status = ? AND settled_at IS NULL", tournament.ID, models.TournamentInProgress).
			Updates(map[string]interface{}{"settled_at": &now})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Create(&results).Error; err != nil {
			return err
		}
		return tx.Model(&models.Tournament{}).Where("id = ?", tournament.ID).Updates(map[string]interface{}{
			"status":           models.TournamentCompleted,
			"end_prices":       endPrices,
			"winners":          winners,
			"total_prize_pool": pool,
		}).Error
	})
	if err == gorm.ErrRecordNotFound {
		return nil, "already settled", nil
	}
	if err != nil {
		return nil, "", err
	}

	tournament.Status = models.TournamentCompleted
	tournament.SettledAt = &now
	tournament.Winners = winners
	tournament.TotalPrizePool = pool

	if tournament.GameID != "" {
		sendMessage(s.Bus, bus.InstanceLeagues, bus.InstanceHub, bus.KindTournamentCompleted, bus.TournamentCompletedPayload{
			GameID:         tournament.GameID,
			TournamentID:   tournament.ID,
			Winners:        winners,
			TotalPrizePool: pool,
		})
	}
	s.notifyStatus(tournament)

	log.Printf("✅ [LEAGUES] %s settled: pool=%d winners=%v", tournament.ID, pool, winners)
	return fiber.Map{
		"settled":       true,
		"tournament_id": tournament.ID,
		"winners":       winners,
		"prize_pool":    pool,
		"results":       results,
	}, "", nil
}

// notifyStatus pushes a status update to the hub for delegated tournaments.
func (s *LeagueService) notifyStatus(t *models.Tournament) {
	if t.GameID == "" {
		return
	}
	sendMessage(s.Bus, bus.InstanceLeagues, bus.InstanceHub, bus.KindTournamentStatusUpdate, bus.TournamentStatusUpdatePayload{
		GameID:           t.GameID,
		TournamentID:     t.ID,
		Status:           t.Status,
		CurrentRound:     t.CurrentRound,
		ParticipantCount: len(t.Participants),
	})
}

func (s *LeagueService) snapshotFromQuotes() models.PriceTable {
	var quotes []models.PriceQuote
	if err := s.DB.Find(&quotes).Error; err != nil {
		log.Printf("❌ [LEAGUES] failed to load price quotes: %v", err)
		return nil
	}
	table := make(models.PriceTable, len(quotes))
	for _, q := range quotes {
		table[q.Symbol] = q.PriceMicro
	}
	return table
}

// ListTournaments returns tournaments, optionally filtered by status.
func (s *LeagueService) ListTournaments(c *fiber.Ctx) error {
	query := s.DB.Model(&models.Tournament{}).Order("created_at desc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	var tournaments []models.Tournament
	if err := query.Find(&tournaments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list tournaments"})
	}
	return c.JSON(fiber.Map{"tournaments": tournaments, "count": len(tournaments)})
}

// GetTournamentByID returns one tournament with portfolios and standings.
func (s *LeagueService) GetTournamentByID(c *fiber.Ctx) error {
	tournamentID := c.Params("id")
	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", tournamentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load tournament"})
	}
	var portfolios []models.TournamentPortfolio
	s.DB.Where("tournament_id = ?", tournamentID).Order("round asc, submitted_at asc").Find(&portfolios)
	var results []models.TournamentResult
	s.DB.Where("tournament_id = ?", tournamentID).Order("rank asc").Find(&results)

	return c.JSON(fiber.Map{
		"tournament": tournament,
		"portfolios": portfolios,
		"results":    results,
	})
}
