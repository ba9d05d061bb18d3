package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the bot.
type Config struct {
	PollInterval Duration
	Timezone     string
	OddsAPI      OddsAPIConfig
	Gmail        GmailConfig
	Metrics      MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		PollInterval: durationEnvOrDefault(envPollInterval, defaultPollInterval),
		Timezone:     envOrDefault(envTimezone, defaultTimezone),
		OddsAPI:      loadOddsAPI(),
		Gmail:        loadGmail(),
		Metrics:      loadMetrics(),
	}
}

// Validate enforces required settings. Missing required variables are a fatal
// startup error; the bot must not run with silent defaults for any of them.
func (c Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{envOddsAPIKey, c.OddsAPI.APIKey},
		{envSenderEmail, c.Gmail.Sender},
		{envRecipientEmail, c.Gmail.Recipient},
		{envGoogleClientID, c.Gmail.ClientID},
		{envGoogleClientSecret, c.Gmail.ClientSecret},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("config: %s is required", r.key)
		}
	}

	if c.OddsAPI.WindowStartHour < 0 || c.OddsAPI.WindowStartHour > 23 {
		return fmt.Errorf("config: %s must be between 0 and 23, got %d", envWindowStartHour, c.OddsAPI.WindowStartHour)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: invalid %s %q: %w", envTimezone, c.Timezone, err)
	}
	return nil
}
