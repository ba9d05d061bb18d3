package config

const (
	envOddsAPIKey      = "ODDS_API_KEY"
	envOddsBaseURL     = "ODDS_API_BASE_URL"
	envOddsSport       = "ODDS_SPORT"
	envOddsRegions     = "ODDS_REGIONS"
	envOddsMarkets     = "ODDS_MARKETS"
	envOddsBookmakers  = "ODDS_BOOKMAKERS"
	envWindowStartHour = "DAY_WINDOW_START_HOUR"

	defaultOddsBaseURL = "https://api.the-odds-api.com/v4"
	defaultSport       = "baseball_mlb"
	defaultRegions     = "us"
	// h2h is moneyline; set ODDS_MARKETS=h2h,spreads to also request spreads.
	defaultMarkets    = "h2h"
	defaultBookmakers = "fanduel"
	// Starting the window at 10:00 local skips stale lines for late-night
	// games postponed from the previous slate.
	defaultWindowStartHour = 10
)

// OddsAPIConfig controls how we talk to The Odds API.
type OddsAPIConfig struct {
	BaseURL         string
	APIKey          string
	Sport           string
	Regions         string
	Markets         string
	Bookmakers      string
	WindowStartHour int
}

func loadOddsAPI() OddsAPIConfig {
	return OddsAPIConfig{
		BaseURL:         envOrDefault(envOddsBaseURL, defaultOddsBaseURL),
		APIKey:          envOrDefault(envOddsAPIKey, ""),
		Sport:           envOrDefault(envOddsSport, defaultSport),
		Regions:         envOrDefault(envOddsRegions, defaultRegions),
		Markets:         envOrDefault(envOddsMarkets, defaultMarkets),
		Bookmakers:      envOrDefault(envOddsBookmakers, defaultBookmakers),
		WindowStartHour: intEnvOrDefault(envWindowStartHour, defaultWindowStartHour),
	}
}
