package theoddsapi

import "time"

const (
	// Name identifies this provider in logs and metrics.
	Name = "theoddsapi"

	defaultBaseURL         = "https://api.the-odds-api.com/v4"
	defaultSport           = "baseball_mlb"
	defaultRegions         = "us"
	defaultMarkets         = "h2h"
	defaultBookmakers      = "fanduel"
	defaultTimezone        = "America/New_York"
	defaultWindowStartHour = 10
	defaultHTTPTimeout     = 15 * time.Second

	oddsFormatAmerican = "american"
)
