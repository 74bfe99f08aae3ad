package services

import (
	"fmt"
	"log"

	"coindrafts-engine/bus"
	"coindrafts-engine/models"
	"coindrafts-engine/scoring"

	"gorm.io/gorm"
)

// HandleMessage applies one inbound envelope from the leagues engine.
// Application is idempotent: replayed envelope IDs are dropped inside the
// same transaction that records their effects.
func (s *HubService) HandleMessage(env bus.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		done, err := alreadyProcessed(tx, bus.InstanceHub, env)
		if err != nil {
			return err
		}
		if done {
			log.Printf("⚠️ [HUB] duplicate envelope %s (%s) dropped", env.ID, env.Kind)
			return nil
		}

		switch env.Kind {
		case bus.KindTournamentCreated:
			return s.handleTournamentCreated(tx, env)
		case bus.KindTournamentCompleted:
			return s.handleTournamentCompleted(tx, env)
		case bus.KindPlayerVerified:
			return s.handlePlayerVerified(tx, env)
		case bus.KindTournamentStatusUpdate:
			return s.handleTournamentStatusUpdate(tx, env)
		default:
			return fmt.Errorf("unexpected message kind: %s", env.Kind)
		}
	})
}

// handleTournamentCreated records the delegated tournament's identity. The
// contest status itself is untouched: registration stays open until the
// game is explicitly started.
func (s *HubService) handleTournamentCreated(tx *gorm.DB, env bus.Envelope) error {
	var payload bus.TournamentCreatedPayload
	if err := env.Decode(&payload); err != nil {
		return err
	}
	result := tx.Model(&models.Game{}).Where("id = ?", payload.GameID).Updates(map[string]interface{}{
		"tournament_id":        payload.TournamentID,
		"delegation_confirmed": true,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		log.Printf("⚠️ [HUB] tournament_created for unknown game %s", payload.GameID)
		return nil
	}
	log.Printf("✅ [HUB] %s confirmed as tournament %s", payload.GameID, payload.TournamentID)
	return nil
}

// handleTournamentCompleted relays the tournament prize pool: the pool is
// split evenly across the reported winners and credited to their earnings.
// A game the hub already settled locally is left alone.
func (s *HubService) handleTournamentCompleted(tx *gorm.DB, env bus.Envelope) error {
	var payload bus.TournamentCompletedPayload
	if err := env.Decode(&payload); err != nil {
		return err
	}

	var game models.Game
	if err := tx.First(&game, "id = ?", payload.GameID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			log.Printf("⚠️ [HUB] tournament_completed for unknown game %s", payload.GameID)
			return nil
		}
		return err
	}
	if game.SettledAt != nil {
		log.Printf("⚠️ [HUB] %s already settled locally, ignoring tournament_completed", game.ID)
		return nil
	}

	share := scoring.SplitEvenly(payload.TotalPrizePool, len(payload.Winners))
	for _, account := range payload.Winners {
		if err := tx.Model(&models.PlayerProfile{}).Where("account = ?", account).
			UpdateColumn("total_earnings", gorm.Expr("total_earnings + ?", share)).Error; err != nil {
			return err
		}
	}

	if game.Status == models.StatusOpen || game.Status == models.StatusActive {
		if err := tx.Model(&game).Updates(map[string]interface{}{
			"status":           models.StatusCompleted,
			"winners":          payload.Winners,
			"total_prize_pool": payload.TotalPrizePool,
		}).Error; err != nil {
			return err
		}
	}
	log.Printf("✅ [HUB] %s completed by tournament %s: %d winner(s), %d each",
		payload.GameID, payload.TournamentID, len(payload.Winners), share)
	return nil
}

func (s *HubService) handlePlayerVerified(tx *gorm.DB, env bus.Envelope) error {
	var payload bus.PlayerVerifiedPayload
	if err := env.Decode(&payload); err != nil {
		return err
	}
	if !payload.Verified {
		log.Printf("⚠️ [HUB] verification declined for %s on %s", payload.Account, payload.TournamentID)
		return nil
	}
	return tx.Model(&models.PlayerProfile{}).Where("account = ?", payload.Account).
		Update("verified", true).Error
}

func (s *HubService) handleTournamentStatusUpdate(tx *gorm.DB, env bus.Envelope) error {
	var payload bus.TournamentStatusUpdatePayload
	if err := env.Decode(&payload); err != nil {
		return err
	}
	log.Printf("📣 [HUB] tournament %s (game %s): status=%s round=%d participants=%d",
		payload.TournamentID, payload.GameID, payload.Status, payload.CurrentRound, payload.ParticipantCount)
	return nil
}
