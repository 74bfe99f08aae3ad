package services

import (
	"sort"
	"strconv"

	"coindrafts-engine/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Read-only query surface for the hub. Nothing here mutates state.

// ListGames returns games, optionally filtered by status and mode.
func (s *HubService) ListGames(c *fiber.Ctx) error {
	query := s.DB.Model(&models.Game{}).Order("created_at desc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if mode := c.Query("mode"); mode != "" {
		query = query.Where("mode = ?", mode)
	}
	var games []models.Game
	if err := query.Find(&games).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list games"})
	}
	for i := range games {
		games[i].AvailableSlots = games[i].MaxPlayers - games[i].PlayerCount
		if games[i].AvailableSlots < 0 {
			games[i].AvailableSlots = 0
		}
	}
	return c.JSON(fiber.Map{"games": games, "count": len(games)})
}

// GetGameByID returns one game with its registrations, portfolios and (when
// settled) results.
func (s *HubService) GetGameByID(c *fiber.Ctx) error {
	gameID := c.Params("id")
	var game models.Game
	if err := s.DB.First(&game, "id = ?", gameID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load game"})
	}
	game.AvailableSlots = game.MaxPlayers - game.PlayerCount
	if game.AvailableSlots < 0 {
		game.AvailableSlots = 0
	}

	var players []models.GamePlayer
	s.DB.Where("game_id = ?", gameID).Order("registered_at asc").Find(&players)
	var portfolios []models.Portfolio
	s.DB.Where("game_id = ?", gameID).Order("submitted_at asc").Find(&portfolios)
	var results []models.GameResult
	s.DB.Where("game_id = ?", gameID).Order("rank asc").Find(&results)

	return c.JSON(fiber.Map{
		"game":       game,
		"players":    players,
		"portfolios": portfolios,
		"results":    results,
	})
}

// GetPlayerProfile returns a profile with its achievements.
func (s *HubService) GetPlayerProfile(c *fiber.Ctx) error {
	account := c.Params("account")
	var profile models.PlayerProfile
	if err := s.DB.First(&profile, "account = ?", account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load player"})
	}
	var achievements []models.Achievement
	s.DB.Where("account = ?", account).Order("unlocked_at asc").Find(&achievements)

	return c.JSON(fiber.Map{
		"profile":      profile,
		"win_rate_bps": profile.WinRateBps(),
		"achievements": achievements,
	})
}

// GetLeaderboard ranks players by total earnings, then win rate. An optional
// tier filter narrows the board.
func (s *HubService) GetLeaderboard(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := s.DB.Model(&models.PlayerProfile{})
	if tier := c.Query("tier"); tier != "" {
		query = query.Where("tier = ?", tier)
	}
	var profiles []models.PlayerProfile
	if err := query.Find(&profiles).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load leaderboard"})
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		if profiles[i].TotalEarnings != profiles[j].TotalEarnings {
			return profiles[i].TotalEarnings > profiles[j].TotalEarnings
		}
		return profiles[i].WinRateBps() > profiles[j].WinRateBps()
	})
	if len(profiles) > limit {
		profiles = profiles[:limit]
	}

	entries := make([]fiber.Map, 0, len(profiles))
	for i, p := range profiles {
		entries = append(entries, fiber.Map{
			"rank":           i + 1,
			"account":        p.Account,
			"display_name":   p.DisplayName,
			"tier":           p.Tier,
			"total_earnings": p.TotalEarnings,
			"games_played":   p.GamesPlayed,
			"games_won":      p.GamesWon,
			"win_rate_bps":   p.WinRateBps(),
		})
	}
	return c.JSON(fiber.Map{"leaderboard": entries, "count": len(entries)})
}

// GetPlayerHistory returns a player's settlement results, newest first,
// paginated.
func (s *HubService) GetPlayerHistory(c *fiber.Ctx) error {
	account := c.Params("account")
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var total int64
	s.DB.Model(&models.GameResult{}).Where("account = ?", account).Count(&total)

	var results []models.GameResult
	if err := s.DB.Where("account = ?", account).
		Order("settled_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&results).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load history"})
	}

	return c.JSON(fiber.Map{
		"account": account,
		"results": results,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// ListAchievementCatalog exposes the static achievement metadata.
func (s *HubService) ListAchievementCatalog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"achievements": models.AchievementCatalog})
}
