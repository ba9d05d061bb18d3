package providers

import (
	"context"
	"time"

	"mlb-odds-mailer/internal/domain"
)

// OddsProvider defines how a day's betting outcomes are fetched and normalized.
// The day parameter names the calendar date, in the provider's configured
// timezone, whose game window should be queried. Implementations return the
// combined outcome sequence across all of that day's games in provider order.
type OddsProvider interface {
	FetchOutcomes(ctx context.Context, day time.Time) ([]domain.Outcome, error)
}
