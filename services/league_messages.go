package services

import (
	"fmt"
	"log"

	"coindrafts-engine/bus"
	"coindrafts-engine/models"
	"coindrafts-engine/scoring"

	"gorm.io/gorm"
)

// HandleMessage applies one inbound envelope from the hub. Replayed
// envelopes are dropped; best-effort kinds log failures instead of
// returning them, since the hub has already committed.
func (s *LeagueService) HandleMessage(env bus.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		done, err := alreadyProcessed(tx, bus.InstanceLeagues, env)
		if err != nil {
			return err
		}
		if done {
			log.Printf("⚠️ [LEAGUES] duplicate envelope %s (%s) dropped", env.ID, env.Kind)
			return nil
		}

		switch env.Kind {
		case bus.KindCreateTournament:
			return s.handleCreateTournament(tx, env)
		case bus.KindRegisterPlayerForTournament:
			return s.handleRegisterPlayer(tx, env)
		case bus.KindSyncPortfolio:
			return s.handleSyncPortfolio(tx, env)
		case bus.KindGetTournamentStatus:
			return s.handleGetTournamentStatus(tx, env)
		case bus.KindVerifyPlayer:
			return s.handleVerifyPlayer(tx, env)
		default:
			return fmt.Errorf("unexpected message kind: %s", env.Kind)
		}
	})
}

// handleCreateTournament provisions the delegated tournament and replies
// with its identity.
func (s *LeagueService) handleCreateTournament(tx *gorm.DB, env bus.Envelope) error {
	var payload bus.CreateTournamentPayload
	if err := env.Decode(&payload); err != nil {
		return err
	}
	tournamentType := payload.TournamentType
	if tournamentType == "" {
		tournamentType = models.TournamentLeague
	}
	duration := payload.DurationMinutes
	if duration <= 0 {
		duration = 10
	}
	tournament, err := s.createTournament(tx, payload.GameID, payload.Name, tournamentType,
		payload.EntryFee, payload.MaxParticipants, duration)
	if err != nil {
		return err
	}
	sendMessage(s.Bus, bus.InstanceLeagues, bus.InstanceHub, bus.KindTournamentCreated, bus.TournamentCreatedPayload{
		GameID:       payload.GameID,
		TournamentID: tournament.ID,
	})
	log.Printf("✅ [LEAGUES] created %s for game %s", tournament.ID, payload.GameID)
	return nil
}

// handleRegisterPlayer is best effort: a full or already started tournament
// logs and moves on.
func (s *LeagueService) handleRegisterPlayer(tx *gorm.DB, env bus.Envelope) error {
	var payload bus.RegisterPlayerForTournamentPayload
	if err := env.Decode(&payload); err != nil {
		return err
	}
	registered, reason, err := s.addParticipant(tx, payload.TournamentID, payload.Account)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			log.Printf("⚠️ [LEAGUES] register_player for unknown tournament %s", payload.TournamentID)
			return nil
		}
		return err
	}
	if !registered && reason != "already registered" {
		log.Printf("⚠️ [LEAGUES] relayed registration of %s on %s rejected: %s", payload.Account, payload.TournamentID, reason)
	}
	return nil
}

// handleSyncPortfolio mirrors a hub draft as ranked picks for the current
// round. Unknown tournaments or non-participants log and move on.
func (s *LeagueService) handleSyncPortfolio(tx *gorm.DB, env bus.Envelope) error {
	var payload bus.SyncPortfolioPayload
	if err := env.Decode(&payload); err != nil {
		return err
	}
	var tournament models.Tournament
	if err := tx.First(&tournament, "id = ?", payload.TournamentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			log.Printf("⚠️ [LEAGUES] sync_portfolio for unknown tournament %s", payload.TournamentID)
			return nil
		}
		return err
	}
	if !tournament.HasParticipant(payload.Account) {
		log.Printf("⚠️ [LEAGUES] sync_portfolio from non-participant %s on %s", payload.Account, payload.TournamentID)
		return nil
	}
	picks := payload.Picks
	if len(picks) > len(scoring.PositionWeights) {
		picks = picks[:len(scoring.PositionWeights)]
	}
	return s.upsertPortfolio(tx, &tournament, payload.Account, picks, "")
}

func (s *LeagueService) handleGetTournamentStatus(tx *gorm.DB, env bus.Envelope) error {
	var payload bus.GetTournamentStatusPayload
	if err := env.Decode(&payload); err != nil {
		return err
	}
	var tournament models.Tournament
	if err := tx.First(&tournament, "id = ?", payload.TournamentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			log.Printf("⚠️ [LEAGUES] status request for unknown tournament %s", payload.TournamentID)
			return nil
		}
		return err
	}
	sendMessage(s.Bus, bus.InstanceLeagues, bus.InstanceHub, bus.KindTournamentStatusUpdate, bus.TournamentStatusUpdatePayload{
		GameID:           payload.GameID,
		TournamentID:     tournament.ID,
		Status:           tournament.Status,
		CurrentRound:     tournament.CurrentRound,
		ParticipantCount: len(tournament.Participants),
	})
	return nil
}

// handleVerifyPlayer answers with whether the account is a participant of
// the named tournament.
func (s *LeagueService) handleVerifyPlayer(tx *gorm.DB, env bus.Envelope) error {
	var payload bus.VerifyPlayerPayload
	if err := env.Decode(&payload); err != nil {
		return err
	}
	verified := false
	var tournament models.Tournament
	if err := tx.First(&tournament, "id = ?", payload.TournamentID).Error; err == nil {
		verified = tournament.HasParticipant(payload.Account)
	} else if err != gorm.ErrRecordNotFound {
		return err
	}
	sendMessage(s.Bus, bus.InstanceLeagues, bus.InstanceHub, bus.KindPlayerVerified, bus.PlayerVerifiedPayload{
		TournamentID: payload.TournamentID,
		Account:      payload.Account,
		Verified:     verified,
	})
	return nil
}
