package models

// Monetary amounts are micro-USDC (1_000_000 = 1 USDC). Prices are
// micro-units too. Percentage-like values downstream are basis points.
const (
	MicrosPerUSDC = 1_000_000

	MinEntryFeeMicros = 100_000     // 0.1 USDC
	MaxEntryFeeMicros = 100_000_000 // 100 USDC

	MinGameDurationHours = 1
	MaxGameDurationHours = 168 // one week

	MinPortfolioSize = 1
	MaxPortfolioSize = 10

	MinGameNameLen = 3
	MaxGameNameLen = 50
)

// Game modes
const (
	ModeTraditionalLeague = "traditional_league"
	ModeQuickMatch        = "quick_match"
	ModePricePrediction   = "price_prediction"
)

// Lifecycle statuses shared by games, tournaments and markets.
const (
	StatusOpen      = "open"
	StatusActive    = "active"
	StatusSettling  = "settling"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ModePreset carries the default knobs for a game mode.
type ModePreset struct {
	EntryFeeMicros uint64
	DurationHours  uint64
	MaxPlayers     int
	PortfolioSize  int
}

var ModePresets = map[string]ModePreset{
	ModeTraditionalLeague: {EntryFeeMicros: 1_000_000, DurationHours: 168, MaxPlayers: 100, PortfolioSize: 5},
	ModeQuickMatch:        {EntryFeeMicros: 500_000, DurationHours: 24, MaxPlayers: 50, PortfolioSize: 3},
	ModePricePrediction:   {EntryFeeMicros: 1_000_000, DurationHours: 168, MaxPlayers: 200, PortfolioSize: 5},
}

var SupportedCryptocurrencies = []string{
	"BTC", "ETH", "SOL", "AVAX", "MATIC",
	"ADA", "DOT", "LINK", "UNI", "ATOM",
	"XRP", "DOGE", "LTC", "NEAR", "APT",
}

func IsSupportedCrypto(symbol string) bool {
	for _, s := range SupportedCryptocurrencies {
		if s == symbol {
			return true
		}
	}
	return false
}
