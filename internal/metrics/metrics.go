package metrics

import (
	"sync"
	"time"
)

type counters struct {
	fetches        int
	fetchErrors    int
	rateLimitHits  int
	lastRetryAfter time.Duration
	notifies       int
	notifyErrors   int
	cycles         int
	cycleErrors    int
}

// Recorder captures lightweight, in-memory metrics about fetch, notify, and
// cycle activity, mirroring everything to OpenTelemetry instruments when
// telemetry is enabled.
type Recorder struct {
	mu   sync.Mutex
	c    counters
	otel *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{otel: otel}
}

// RecordFetch counts one odds fetch attempt and its latency.
func (r *Recorder) RecordFetch(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.c.fetches++
	if err != nil {
		r.c.fetchErrors++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordFetch(provider, duration, err)
	}
}

// RecordRateLimit tracks that a provider response hit a rate limit and stores
// the last Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.c.rateLimitHits++
	if retryAfter > 0 {
		r.c.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordRateLimit(provider, retryAfter)
	}
}

// RecordNotify counts one notification attempt and its latency.
func (r *Recorder) RecordNotify(duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.c.notifies++
	if err != nil {
		r.c.notifyErrors++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordNotify(duration, err)
	}
}

// RecordCycle counts one full scheduler cycle and its latency.
func (r *Recorder) RecordCycle(duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.c.cycles++
	if err != nil {
		r.c.cycleErrors++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordCycle(duration, err)
	}
}

// Snapshot is a copy of the current in-memory counters.
type Snapshot struct {
	Fetches        int
	FetchErrors    int
	RateLimitHits  int
	LastRetryAfter time.Duration
	Notifies       int
	NotifyErrors   int
	Cycles         int
	CycleErrors    int
}

func (r *Recorder) Snapshot() Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		Fetches:        r.c.fetches,
		FetchErrors:    r.c.fetchErrors,
		RateLimitHits:  r.c.rateLimitHits,
		LastRetryAfter: r.c.lastRetryAfter,
		Notifies:       r.c.notifies,
		NotifyErrors:   r.c.notifyErrors,
		Cycles:         r.c.cycles,
		CycleErrors:    r.c.cycleErrors,
	}
}
