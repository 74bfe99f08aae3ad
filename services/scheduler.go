package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartSettlementScheduler runs the engine's only clock: a once-a-minute
// tick that asks each instance to settle whatever has expired. Instances
// themselves never read timers; expiry is always this explicit invocation.
func StartSettlementScheduler(hub *HubService, leagues *LeagueService) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			settledGames := hub.SettleDueGames()
			settledTournaments := leagues.SettleExpired()
			if settledGames > 0 || settledTournaments > 0 {
				log.Printf("⏰ [SCHEDULER] tick settled %d game(s), %d tournament(s)", settledGames, settledTournaments)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	scheduler.Start()
	log.Println("✅ Settlement scheduler started (1m tick)")
	return scheduler, nil
}
