package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mlb-odds-mailer/internal/domain"
	"mlb-odds-mailer/internal/googleauth"
	"mlb-odds-mailer/internal/logging"
	"mlb-odds-mailer/internal/mail"
	"mlb-odds-mailer/internal/providers"
	"mlb-odds-mailer/internal/timeutil"
)

// Cycle step names, used in CycleError and log fields.
const (
	StepFetch  = "fetch"
	StepSelect = "select"
	StepNotify = "notify"
)

// CycleError wraps a failure from one step of the daily cycle.
type CycleError struct {
	Step string
	Err  error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle step %s: %v", e.Step, e.Err)
}

func (e *CycleError) Unwrap() error { return e.Err }

// Outcome kinds for a finished cycle.
const (
	kindOK       = "ok"
	kindNoData   = "no_data"
	kindProvider = "provider"
	kindAuth     = "auth"
	kindNotify   = "notify"
	kindOther    = "other"
)

// classify maps a cycle result to its kind and whether the day is consumed.
// Provider failures leave the day unmarked so the next tick retries; every
// other outcome consumes the day.
func classify(err error) (kind string, markProcessed bool) {
	if err == nil {
		return kindOK, true
	}
	if errors.Is(err, domain.ErrNoOutcomes) {
		return kindNoData, true
	}

	var authErr *googleauth.AuthError
	if errors.As(err, &authErr) {
		return kindAuth, true
	}
	if _, ok := mail.AsSendError(err); ok {
		return kindNotify, true
	}

	var cycleErr *CycleError
	if errors.As(err, &cycleErr) {
		switch cycleErr.Step {
		case StepFetch:
			return kindProvider, false
		case StepNotify:
			return kindNotify, true
		}
	}
	return kindOther, false
}

// runCycle performs one fetch-select-notify pass for the given day.
func (s *Scheduler) runCycle(ctx context.Context, day time.Time) error {
	fetchStart := time.Now()
	outcomes, err := s.provider.FetchOutcomes(ctx, day)
	if s.metrics != nil {
		s.metrics.RecordFetch(s.providerName, time.Since(fetchStart), err)
		if rl, ok := providers.AsRateLimitError(err); ok {
			s.metrics.RecordRateLimit(s.providerName, rl.RetryAfter)
		}
	}
	if err != nil {
		return &CycleError{Step: StepFetch, Err: err}
	}
	logging.Info(s.logger, "fetched odds",
		logging.FieldProvider, s.providerName,
		logging.FieldDate, timeutil.FormatDate(day),
		logging.FieldCount, len(outcomes),
	)

	pick, err := domain.BestOutcome(outcomes)
	if err != nil {
		return &CycleError{Step: StepSelect, Err: err}
	}
	logging.Info(s.logger, "selected best bet",
		logging.FieldTeam, pick.Name,
		slog.String(logging.FieldPrice, domain.FormatPrice(pick.Price)),
	)

	subject, body := mail.PickMessage(timeutil.FormatDate(day), pick)
	notifyStart := time.Now()
	err = s.notifier.Notify(ctx, subject, body)
	if s.metrics != nil {
		s.metrics.RecordNotify(time.Since(notifyStart), err)
	}
	if err != nil {
		return &CycleError{Step: StepNotify, Err: err}
	}
	return nil
}
