package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mlb-odds-mailer/internal/domain"
	"mlb-odds-mailer/internal/googleauth"
	"mlb-odds-mailer/internal/mail"
	"mlb-odds-mailer/internal/providers"
	"mlb-odds-mailer/internal/teststubs"
	"mlb-odds-mailer/internal/testutil"
)

var eastern = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
	return loc
}()

func sampleOutcomes() []domain.Outcome {
	return []domain.Outcome{
		{Name: "New York Yankees", Price: -150},
		{Name: "Boston Red Sox", Price: 130},
		{Name: "Los Angeles Dodgers", Price: -200},
	}
}

func newTestScheduler(provider *teststubs.StubProvider, notifier *teststubs.StubNotifier) *Scheduler {
	s := New(provider, notifier, testutil.DiscardLogger(), nil, Config{
		Interval:     24 * time.Hour, // ticks driven manually via runDue
		Location:     eastern,
		ProviderName: "theoddsapi",
	})
	return s
}

func TestSchedulerSendsOncePerDay(t *testing.T) {
	provider := &teststubs.StubProvider{Outcomes: sampleOutcomes()}
	notifier := &teststubs.StubNotifier{}
	s := newTestScheduler(provider, notifier)
	s.now = testutil.NowAt(testutil.MustParseRFC3339(t, "2026-05-01T10:05:00-04:00"))

	ctx := context.Background()
	s.runDue(ctx)
	s.runDue(ctx)
	s.runDue(ctx)

	if got := provider.Calls.Load(); got != 1 {
		t.Fatalf("expected one fetch for the day, got %d", got)
	}
	sent := notifier.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(sent))
	}
	if !strings.Contains(sent[0].Subject, "2026-05-01") {
		t.Fatalf("subject missing date: %q", sent[0].Subject)
	}
	if !strings.Contains(sent[0].Body, "Los Angeles Dodgers") {
		t.Fatalf("body missing best pick: %q", sent[0].Body)
	}
}

func TestSchedulerFiresAgainOnDateChange(t *testing.T) {
	provider := &teststubs.StubProvider{Outcomes: sampleOutcomes()}
	notifier := &teststubs.StubNotifier{}
	s := newTestScheduler(provider, notifier)

	ctx := context.Background()
	s.now = testutil.NowAt(testutil.MustParseRFC3339(t, "2026-05-01T10:05:00-04:00"))
	s.runDue(ctx)

	// Late-evening tick on the same Eastern date stays quiet.
	s.now = testutil.NowAt(testutil.MustParseRFC3339(t, "2026-05-01T23:55:00-04:00"))
	s.runDue(ctx)
	if got := provider.Calls.Load(); got != 1 {
		t.Fatalf("same-date tick should not refetch, got %d calls", got)
	}

	// First tick past Eastern midnight fires.
	s.now = testutil.NowAt(testutil.MustParseRFC3339(t, "2026-05-02T00:01:00-04:00"))
	s.runDue(ctx)
	if got := provider.Calls.Load(); got != 2 {
		t.Fatalf("expected a fetch for the new date, got %d calls", got)
	}
	if got := len(notifier.Sent()); got != 2 {
		t.Fatalf("expected two notifications across two dates, got %d", got)
	}
}

func TestSchedulerRetriesAfterProviderFailure(t *testing.T) {
	provider := &teststubs.StubProvider{
		Err: &providers.StatusError{Provider: "theoddsapi", StatusCode: 500, Body: "upstream broke"},
	}
	notifier := &teststubs.StubNotifier{}
	s := newTestScheduler(provider, notifier)
	s.now = testutil.NowAt(testutil.MustParseRFC3339(t, "2026-05-01T10:05:00-04:00"))

	ctx := context.Background()
	s.runDue(ctx)

	if got := len(notifier.Sent()); got != 0 {
		t.Fatalf("expected no notification after fetch failure, got %d", got)
	}
	st := s.Status()
	if st.ConsecutiveFailures != 1 {
		t.Fatalf("expected one recorded failure, got %d", st.ConsecutiveFailures)
	}
	if st.LastProcessedDate != "" {
		t.Fatalf("fetch failure must not consume the day, got marker %q", st.LastProcessedDate)
	}

	// Provider recovers; the next tick on the same date completes the day.
	provider.Err = nil
	provider.Outcomes = sampleOutcomes()
	s.runDue(ctx)

	if got := len(notifier.Sent()); got != 1 {
		t.Fatalf("expected one notification after recovery, got %d", got)
	}
	if st := s.Status(); st.LastProcessedDate != "2026-05-01" {
		t.Fatalf("expected day marked after recovery, got %q", st.LastProcessedDate)
	}
}

func TestSchedulerEmptySlateSkipsNotificationAndMarksDay(t *testing.T) {
	provider := &teststubs.StubProvider{Outcomes: nil}
	notifier := &teststubs.StubNotifier{}
	s := newTestScheduler(provider, notifier)
	s.now = testutil.NowAt(testutil.MustParseRFC3339(t, "2026-05-01T10:05:00-04:00"))

	ctx := context.Background()
	s.runDue(ctx)
	s.runDue(ctx)

	if got := len(notifier.Sent()); got != 0 {
		t.Fatalf("empty slate must not notify, got %d", got)
	}
	if got := provider.Calls.Load(); got != 1 {
		t.Fatalf("empty slate consumes the day, expected one fetch, got %d", got)
	}
	st := s.Status()
	if st.LastProcessedDate != "2026-05-01" {
		t.Fatalf("expected day marked, got %q", st.LastProcessedDate)
	}
	if !st.IsReady() {
		t.Fatalf("empty slate counts as a successful cycle")
	}
}

func TestSchedulerNotifyFailureConsumesDay(t *testing.T) {
	provider := &teststubs.StubProvider{Outcomes: sampleOutcomes()}
	notifier := &teststubs.StubNotifier{
		Err: &mail.SendError{StatusCode: 400, Err: errors.New("invalid recipient")},
	}
	s := newTestScheduler(provider, notifier)
	s.now = testutil.NowAt(testutil.MustParseRFC3339(t, "2026-05-01T10:05:00-04:00"))

	ctx := context.Background()
	s.runDue(ctx)
	s.runDue(ctx)

	if got := provider.Calls.Load(); got != 1 {
		t.Fatalf("notify failure consumes the day, expected one fetch, got %d", got)
	}
	st := s.Status()
	if st.LastProcessedDate != "2026-05-01" {
		t.Fatalf("expected day marked despite notify failure, got %q", st.LastProcessedDate)
	}
	if st.ConsecutiveFailures != 1 {
		t.Fatalf("expected one recorded failure, got %d", st.ConsecutiveFailures)
	}
}

func TestSchedulerAuthFailureConsumesDay(t *testing.T) {
	provider := &teststubs.StubProvider{Outcomes: sampleOutcomes()}
	notifier := &teststubs.StubNotifier{
		Err: &googleauth.AuthError{Op: "refresh", Err: errors.New("invalid_grant")},
	}
	s := newTestScheduler(provider, notifier)
	s.now = testutil.NowAt(testutil.MustParseRFC3339(t, "2026-05-01T10:05:00-04:00"))

	ctx := context.Background()
	s.runDue(ctx)
	s.runDue(ctx)

	if got := provider.Calls.Load(); got != 1 {
		t.Fatalf("auth failure consumes the day, expected one fetch, got %d", got)
	}
	if st := s.Status(); st.LastProcessedDate != "2026-05-01" {
		t.Fatalf("expected day marked despite auth failure, got %q", st.LastProcessedDate)
	}
}

func TestSchedulerStartRunsImmediatelyAndStops(t *testing.T) {
	provider := &teststubs.StubProvider{
		Outcomes: sampleOutcomes(),
		Fetched:  make(chan struct{}, 1),
	}
	notifier := &teststubs.StubNotifier{}
	s := New(provider, notifier, testutil.DiscardLogger(), nil, Config{
		Interval:     5 * time.Millisecond,
		Location:     eastern,
		ProviderName: "theoddsapi",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx)
	s.Start(ctx) // second call is a no-op

	select {
	case <-provider.Fetched:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial fetch")
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind string
		mark bool
	}{
		{"nil", nil, kindOK, true},
		{"no outcomes", &CycleError{Step: StepSelect, Err: domain.ErrNoOutcomes}, kindNoData, true},
		{"fetch status", &CycleError{Step: StepFetch, Err: &providers.StatusError{Provider: "theoddsapi", StatusCode: 502}}, kindProvider, false},
		{"fetch rate limit", &CycleError{Step: StepFetch, Err: &providers.RateLimitError{Provider: "theoddsapi", StatusCode: 429}}, kindProvider, false},
		{"auth", &CycleError{Step: StepNotify, Err: &googleauth.AuthError{Op: "exchange", Err: errors.New("denied")}}, kindAuth, true},
		{"notify", &CycleError{Step: StepNotify, Err: &mail.SendError{StatusCode: 500, Err: errors.New("backend")}}, kindNotify, true},
		{"unwrapped", errors.New("mystery"), kindOther, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kind, mark := classify(tc.err)
			if kind != tc.kind {
				t.Fatalf("kind = %q, want %q", kind, tc.kind)
			}
			if mark != tc.mark {
				t.Fatalf("markProcessed = %v, want %v", mark, tc.mark)
			}
		})
	}
}

func TestStatusIsReady(t *testing.T) {
	if (Status{}).IsReady() {
		t.Fatal("zero status must not be ready")
	}
	ready := Status{LastSuccess: time.Now()}
	if !ready.IsReady() {
		t.Fatal("recent success should be ready")
	}
	failing := Status{LastSuccess: time.Now(), ConsecutiveFailures: 3}
	if failing.IsReady() {
		t.Fatal("three consecutive failures should not be ready")
	}
}
