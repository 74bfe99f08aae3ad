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
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PredictionService is the price-prediction instance: range-bet markets
// settled with a step-function multiplier. It currently exchanges no
// messages with the other instances but registers on the router so future
// kinds have somewhere to land.
type PredictionService struct {
	DB  *gorm.DB
	Bus *bus.Router
	mu  sync.Mutex
}

func NewPredictionService(db *gorm.DB, router *bus.Router) *PredictionService {
	return &PredictionService{DB: db, Bus: router}
}

func (s *PredictionService) InstanceID() string { return bus.InstancePrediction }

func (s *PredictionService) HandleMessage(env bus.Envelope) error {
	return fmt.Errorf("unexpected message kind: %s", env.Kind)
}

// CreateMarket opens a prediction market on one asset.
func (s *PredictionService) CreateMarket(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	type Req struct {
		Asset       string  `json:"asset"`
		Description string  `json:"description"`
		EntryFee    *uint64 `json:"entry_fee"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	creator := accountFromCtx(c)
	if creator == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing account context"})
	}
	if !models.IsSupportedCrypto(req.Asset) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("unsupported asset: %s", req.Asset)})
	}
	entryFee := models.ModePresets[models.ModePricePrediction].EntryFeeMicros
	if req.EntryFee != nil {
		entryFee = *req.EntryFee
	}
	if entryFee < models.MinEntryFeeMicros || entryFee > models.MaxEntryFeeMicros {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "entry fee out of range"})
	}

	var market models.PredictionMarket
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		seq, err := nextCounterValue(tx, "market")
		if err != nil {
			return err
		}
		market = models.PredictionMarket{
			ID:          fmt.Sprintf("market_%d", seq),
			Creator:     creator,
			Asset:       req.Asset,
			Description: req.Description,
			EntryFee:    entryFee,
			Status:      models.StatusActive,
		}
		return tx.Create(&market).Error
	})
	if err != nil {
		log.Printf("❌ [PREDICTION] failed to create market: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create market"})
	}
	log.Printf("✅ [PREDICTION] created %s on %s", market.ID, market.Asset)
	return c.Status(fiber.StatusCreated).JSON(market)
}

// SubmitPrediction places or replaces an account's range bet.
func (s *PredictionService) SubmitPrediction(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	type Req struct {
		Account    string `json:"account"`
		LowerBound uint64 `json:"lower_bound"`
		UpperBound uint64 `json:"upper_bound"`
		Confidence int64  `json:"confidence"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Account == "" {
		req.Account = accountFromCtx(c)
	}
	if req.Account == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing account context"})
	}
	if req.UpperBound < req.LowerBound {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "upper bound must not be below lower bound"})
	}
	if req.Confidence < 1 || req.Confidence > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "confidence must be between 1 and 100"})
	}

	marketID := c.Params("id")
	var market models.PredictionMarket
	if err := s.DB.First(&market, "id = ?", marketID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "market not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load market"})
	}
	if market.Status != models.StatusActive {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "market is not accepting predictions"})
	}

	prediction := models.Prediction{
		ID:         uuid.NewString(),
		MarketID:   marketID,
		Account:    req.Account,
		LowerBound: req.LowerBound,
		UpperBound: req.UpperBound,
		Confidence: req.Confidence,
	}
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "market_id"}, {Name: "account"}},
		DoUpdates: clause.AssignmentColumns([]string{"lower_bound", "upper_bound", "confidence", "updated_at"}),
	}).Create(&prediction).Error; err != nil {
		log.Printf("❌ [PREDICTION] failed to store prediction for %s on %s: %v", req.Account, marketID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store prediction"})
	}
	return c.JSON(fiber.Map{"submitted": true, "market_id": marketID, "account": req.Account})
}

// SettleMarket resolves every bet against the final price. Wrong status or
// an already settled market is a warned no-op; the settled flag flips in
// the same transaction as the payouts.
func (s *PredictionService) SettleMarket(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	type Req struct {
		FinalPrice uint64 `json:"final_price"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.FinalPrice == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "final price is required"})
	}

	marketID := c.Params("id")
	var market models.PredictionMarket
	if err := s.DB.First(&market, "id = ?", marketID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "market not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load market"})
	}
	if market.Status != models.StatusActive || market.SettledAt != nil {
		log.Printf("⚠️ [PREDICTION] cannot settle %s - status is %s", marketID, market.Status)
		return c.JSON(fiber.Map{"settled": false, "market_id": marketID, "status": market.Status})
	}

	var predictions []models.Prediction
	if err := s.DB.Where("market_id = ?", marketID).Order("submitted_at asc").Find(&predictions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load predictions"})
	}
	if len(predictions) == 0 {
		log.Printf("⚠️ [PREDICTION] cannot settle %s - no predictions", marketID)
		return c.JSON(fiber.Map{"settled": false, "market_id": marketID, "reason": "no predictions submitted"})
	}

	now := time.Now().UTC()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		claim := tx.Model(&models.PredictionMarket{}).
			Where("id = ? AND status = ? AND settled_at IS NULL", marketID, models.StatusActive).
			Updates(map[string]interface{}{"status": models.StatusSettling, "settled_at": &now})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		for i := range predictions {
			p := &predictions[i]
			hit, multiplierBps, reward := scoring.SettlePrediction(
				p.LowerBound, p.UpperBound, p.Confidence, req.FinalPrice, market.EntryFee)
			if err := tx.Model(&models.Prediction{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
				"hit":            hit,
				"multiplier_bps": multiplierBps,
				"reward":         reward,
			}).Error; err != nil {
				return err
			}
			p.Hit, p.MultiplierBps, p.Reward = hit, multiplierBps, reward
		}

		return tx.Model(&models.PredictionMarket{}).Where("id = ?", marketID).Updates(map[string]interface{}{
			"status":      models.StatusCompleted,
			"final_price": req.FinalPrice,
		}).Error
	})
	if err == gorm.ErrRecordNotFound {
		log.Printf("⚠️ [PREDICTION] %s already settled", marketID)
		return c.JSON(fiber.Map{"settled": false, "market_id": marketID, "reason": "already settled"})
	}
	if err != nil {
		log.Printf("❌ [PREDICTION] settlement of %s failed: %v", marketID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "settlement failed"})
	}

	hits := 0
	for _, p := range predictions {
		if p.Hit {
			hits++
		}
	}
	log.Printf("✅ [PREDICTION] %s settled at %d: %d/%d hit(s)", marketID, req.FinalPrice, hits, len(predictions))
	return c.JSON(fiber.Map{
		"settled":     true,
		"market_id":   marketID,
		"final_price": req.FinalPrice,
		"predictions": predictions,
	})
}

// ListMarkets returns markets, optionally filtered by status or asset.
func (s *PredictionService) ListMarkets(c *fiber.Ctx) error {
	query := s.DB.Model(&models.PredictionMarket{}).Order("created_at desc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if asset := c.Query("asset"); asset != "" {
		query = query.Where("asset = ?", asset)
	}
	var markets []models.PredictionMarket
	if err := query.Find(&markets).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list markets"})
	}
	return c.JSON(fiber.Map{"markets": markets, "count": len(markets)})
}

// GetMarketByID returns one market with its predictions.
func (s *PredictionService) GetMarketByID(c *fiber.Ctx) error {
	marketID := c.Params("id")
	var market models.PredictionMarket
	if err := s.DB.First(&market, "id = ?", marketID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "market not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load market"})
	}
	var predictions []models.Prediction
	s.DB.Where("market_id = ?", marketID).Order("submitted_at asc").Find(&predictions)
	return c.JSON(fiber.Map{"market": market, "predictions": predictions})
}
