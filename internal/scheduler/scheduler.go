package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"mlb-odds-mailer/internal/logging"
	"mlb-odds-mailer/internal/mail"
	"mlb-odds-mailer/internal/metrics"
	"mlb-odds-mailer/internal/providers"
	"mlb-odds-mailer/internal/timeutil"
)

const defaultInterval = time.Minute

// Config controls scheduler construction.
type Config struct {
	Interval     time.Duration
	Location     *time.Location
	ProviderName string
}

// Scheduler wakes on a fixed interval, checks whether the calendar day in the
// configured timezone has changed, and runs one fetch-select-notify cycle per
// day. The day marker holds the last processed date; restarts reset it, so the
// first tick after a restart always fires.
type Scheduler struct {
	provider     providers.OddsProvider
	notifier     mail.Notifier
	logger       *slog.Logger
	metrics      *metrics.Recorder
	interval     time.Duration
	loc          *time.Location
	providerName string
	now          func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	// lastProcessed is the marker date; zero until the first cycle resolves.
	lastProcessed time.Time

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the scheduler loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	LastProcessedDate   string
}

// IsReady reports whether the loop has had a recent success and is not failing
// repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Scheduler with sane defaults.
func New(provider providers.OddsProvider, notifier mail.Notifier, logger *slog.Logger, recorder *metrics.Recorder, cfg Config) *Scheduler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		provider:     provider,
		notifier:     notifier,
		logger:       logger,
		metrics:      recorder,
		interval:     interval,
		loc:          loc,
		providerName: cfg.ProviderName,
		now:          time.Now,
		done:         make(chan struct{}),
	}
}

// Start begins the daily loop until the context is cancelled or Stop is
// called. The first cycle runs immediately.
func (s *Scheduler) Start(ctx context.Context) {
	s.startMu.Lock()
	if s.started {
		s.startMu.Unlock()
		return
	}
	s.started = true
	s.startMu.Unlock()

	s.ticker = time.NewTicker(s.interval)

	go func() {
		logging.Info(s.logger, "scheduler started",
			"interval_ms", s.interval.Milliseconds(),
			"timezone", s.loc.String(),
		)
		s.runDue(ctx)

		for {
			select {
			case <-ctx.Done():
				s.stopTicker()
				logging.Info(s.logger, "scheduler stopped")
				return
			case <-s.done:
				s.stopTicker()
				logging.Info(s.logger, "scheduler stopped")
				return
			case <-s.ticker.C:
				s.runDue(ctx)
			}
		}
	}()
}

// Stop halts the loop.
func (s *Scheduler) Stop(ctx context.Context) error {
	_ = ctx
	s.stopOnce.Do(func() {
		close(s.done)
		s.stopTicker()
	})
	return nil
}

// runDue runs the daily cycle when today's date has not been processed yet.
func (s *Scheduler) runDue(ctx context.Context) {
	today := s.now().In(s.loc)
	if !s.lastProcessed.IsZero() && timeutil.SameDate(s.lastProcessed, today, s.loc) {
		return
	}

	start := time.Now()
	s.recordAttempt(start)

	err := s.runCycle(ctx, today)
	if s.metrics != nil {
		s.metrics.RecordCycle(time.Since(start), err)
	}

	kind, markProcessed := classify(err)
	if markProcessed {
		s.markDay(today)
	}

	switch kind {
	case kindOK:
		s.recordSuccess(start)
		logging.Info(s.logger, "daily cycle complete",
			logging.FieldDate, timeutil.FormatDate(today),
			logging.FieldDurationMS, time.Since(start).Milliseconds(),
		)
	case kindNoData:
		s.recordSuccess(start)
		logging.Info(s.logger, "no odds data for today, skipping notification",
			logging.FieldDate, timeutil.FormatDate(today),
		)
	case kindAuth:
		// Distinct from transient failures: nothing will succeed until the
		// credential is fixed, and the interactive flow must not be
		// re-triggered every tick.
		s.recordFailure(err, start)
		logging.Error(s.logger, "credential acquisition failed, dropping today's notification", err,
			logging.FieldKind, kind,
			logging.FieldDate, timeutil.FormatDate(today),
		)
	case kindNotify:
		s.recordFailure(err, start)
		logging.Error(s.logger, "notification send failed, dropping today's notification", err,
			logging.FieldKind, kind,
			logging.FieldDate, timeutil.FormatDate(today),
		)
	default:
		// Provider and unclassified failures retry on the next tick; the day
		// stays unmarked.
		s.recordFailure(err, start)
		logging.Error(s.logger, "daily cycle failed, will retry next tick", err,
			logging.FieldKind, kind,
			logging.FieldDate, timeutil.FormatDate(today),
		)
	}
}

func (s *Scheduler) markDay(day time.Time) {
	s.lastProcessed = day
	s.statusMu.Lock()
	s.status.LastProcessedDate = timeutil.FormatDate(day.In(s.loc))
	s.statusMu.Unlock()
}

func (s *Scheduler) stopTicker() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
}

func (s *Scheduler) recordAttempt(at time.Time) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.LastAttempt = at
}

func (s *Scheduler) recordSuccess(at time.Time) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.ConsecutiveFailures = 0
	s.status.LastError = ""
	s.status.LastSuccess = at
}

func (s *Scheduler) recordFailure(err error, at time.Time) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.ConsecutiveFailures++
	if err != nil {
		s.status.LastError = err.Error()
	}
	s.status.LastAttempt = at
}

// Status returns a snapshot of the scheduler's recent health.
func (s *Scheduler) Status() Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}
