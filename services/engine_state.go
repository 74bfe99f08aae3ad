package services

import (
	"errors"
	"fmt"
	"log"

	"coindrafts-engine/bus"
	"coindrafts-engine/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// nextCounterValue bumps a named ID counter inside tx and returns the new
// value. Counters are per-instance, so IDs are deterministic under replay.
func nextCounterValue(tx *gorm.DB, name string) (uint64, error) {
	var counter models.IDCounter
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", name).First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		counter = models.IDCounter{Name: name, Value: 1}
		if err := tx.Create(&counter).Error; err != nil {
			return 0, fmt.Errorf("failed to create counter %s: %w", name, err)
		}
		return counter.Value, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load counter %s: %w", name, err)
	}
	counter.Value++
	if err := tx.Save(&counter).Error; err != nil {
		return 0, fmt.Errorf("failed to bump counter %s: %w", name, err)
	}
	return counter.Value, nil
}

// alreadyProcessed implements at-least-once dedup: the first call for an
// envelope records it and returns false; replays return true.
func alreadyProcessed(tx *gorm.DB, instance string, env bus.Envelope) (bool, error) {
	var count int64
	if err := tx.Model(&models.ProcessedMessage{}).
		Where("envelope_id = ?", env.ID).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	record := models.ProcessedMessage{EnvelopeID: env.ID, Instance: instance, Kind: env.Kind}
	if err := tx.Create(&record).Error; err != nil {
		return false, err
	}
	return false, nil
}

// sendMessage builds and enqueues an envelope, logging instead of failing:
// outbound messages are fire-and-forget once local state has committed.
func sendMessage(router *bus.Router, source, destination, kind string, payload any) {
	env, err := bus.NewEnvelope(source, destination, kind, payload)
	if err != nil {
		log.Printf("❌ [%s] failed to build %s message: %v", source, kind, err)
		return
	}
	router.Send(env)
}
