package metrics

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRecorderCountsFetches(t *testing.T) {
	r := NewRecorder()
	r.RecordFetch("theoddsapi", 10*time.Millisecond, nil)
	r.RecordFetch("theoddsapi", 20*time.Millisecond, errors.New("boom"))

	snap := r.Snapshot()
	if snap.Fetches != 2 {
		t.Fatalf("expected 2 fetches, got %d", snap.Fetches)
	}
	if snap.FetchErrors != 1 {
		t.Fatalf("expected 1 fetch error, got %d", snap.FetchErrors)
	}
}

func TestRecorderCountsNotifiesAndCycles(t *testing.T) {
	r := NewRecorder()
	r.RecordNotify(5*time.Millisecond, nil)
	r.RecordNotify(5*time.Millisecond, errors.New("send failed"))
	r.RecordCycle(50*time.Millisecond, nil)

	snap := r.Snapshot()
	if snap.Notifies != 2 || snap.NotifyErrors != 1 {
		t.Fatalf("unexpected notify counts: %+v", snap)
	}
	if snap.Cycles != 1 || snap.CycleErrors != 0 {
		t.Fatalf("unexpected cycle counts: %+v", snap)
	}
}

func TestRecorderTracksRateLimits(t *testing.T) {
	r := NewRecorder()
	r.RecordRateLimit("theoddsapi", 30*time.Second)

	snap := r.Snapshot()
	if snap.RateLimitHits != 1 {
		t.Fatalf("expected 1 rate limit hit, got %d", snap.RateLimitHits)
	}
	if snap.LastRetryAfter != 30*time.Second {
		t.Fatalf("expected retry-after recorded, got %v", snap.LastRetryAfter)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.RecordFetch("theoddsapi", time.Millisecond, nil)
	r.RecordNotify(time.Millisecond, nil)
	r.RecordCycle(time.Millisecond, nil)
	if snap := r.Snapshot(); snap.Fetches != 0 {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}

func TestSetupDisabledReturnsRecorderWithoutHandler(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: false})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec == nil {
		t.Fatal("expected recorder")
	}
	if handler != nil {
		t.Fatal("expected no handler when disabled")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown should be a no-op, got %v", err)
	}
}

func TestSetupEnabledBuildsPrometheusHandler(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: true, ServiceName: "test"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer shutdown(context.Background())

	if rec == nil || handler == nil {
		t.Fatal("expected recorder and handler")
	}
	rec.RecordCycle(time.Millisecond, nil)
}
