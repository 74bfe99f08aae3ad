package bus

// Instance IDs.
const (
	InstanceHub        = "hub"
	InstanceLeagues    = "leagues"
	InstancePrediction = "prediction"
)

// Message kinds, hub -> leagues.
const (
	KindCreateTournament            = "create_tournament"
	KindRegisterPlayerForTournament = "register_player_for_tournament"
	KindSyncPortfolio               = "sync_portfolio"
	KindGetTournamentStatus         = "get_tournament_status"
	KindVerifyPlayer                = "verify_player"
)

// Message kinds, leagues -> hub.
const (
	KindTournamentCreated      = "tournament_created"
	KindTournamentCompleted    = "tournament_completed"
	KindTournamentStatusUpdate = "tournament_status_update"
	KindPlayerVerified         = "player_verified"
)

type CreateTournamentPayload struct {
	GameID          string `json:"game_id"`
	Name            string `json:"name"`
	TournamentType  string `json:"tournament_type"`
	EntryFee        uint64 `json:"entry_fee"`
	MaxParticipants int    `json:"max_participants"`
	DurationMinutes int    `json:"duration_minutes"`
}

type RegisterPlayerForTournamentPayload struct {
	TournamentID string `json:"tournament_id"`
	Account      string `json:"account"`
	DisplayName  string `json:"display_name"`
}

type SyncPortfolioPayload struct {
	TournamentID string   `json:"tournament_id"`
	Account      string   `json:"account"`
	Picks        []string `json:"picks"`
}

type GetTournamentStatusPayload struct {
	TournamentID string `json:"tournament_id"`
	GameID       string `json:"game_id"`
}

type VerifyPlayerPayload struct {
	TournamentID string `json:"tournament_id"`
	Account      string `json:"account"`
}

type TournamentCreatedPayload struct {
	GameID       string `json:"game_id"`
	TournamentID string `json:"tournament_id"`
}

type TournamentCompletedPayload struct {
	GameID         string   `json:"game_id"`
	TournamentID   string   `json:"tournament_id"`
	Winners        []string `json:"winners"`
	TotalPrizePool uint64   `json:"total_prize_pool"`
}

type TournamentStatusUpdatePayload struct {
	GameID           string `json:"game_id"`
	TournamentID     string `json:"tournament_id"`
	Status           string `json:"status"`
	CurrentRound     int    `json:"current_round"`
	ParticipantCount int    `json:"participant_count"`
}

type PlayerVerifiedPayload struct {
	TournamentID string `json:"tournament_id"`
	Account      string `json:"account"`
	Verified     bool   `json:"verified"`
}
