// Package teststubs provides shared fakes for scheduler and app tests.
package teststubs

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"mlb-odds-mailer/internal/domain"
)

// StubProvider returns canned outcomes or a canned error.
type StubProvider struct {
	Outcomes []domain.Outcome
	Err      error
	Calls    atomic.Int32

	// Fetched receives one signal per FetchOutcomes call when non-nil.
	Fetched chan struct{}
}

func (p *StubProvider) FetchOutcomes(ctx context.Context, day time.Time) ([]domain.Outcome, error) {
	p.Calls.Add(1)
	if p.Fetched != nil {
		select {
		case p.Fetched <- struct{}{}:
		default:
		}
	}
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Outcomes, nil
}

// SentMessage is one captured notification.
type SentMessage struct {
	Subject string
	Body    string
}

// StubNotifier records every notification it receives.
type StubNotifier struct {
	Err error

	mu   sync.Mutex
	sent []SentMessage
}

func (n *StubNotifier) Notify(ctx context.Context, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.sent = append(n.sent, SentMessage{Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of the captured notifications.
func (n *StubNotifier) Sent() []SentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]SentMessage, len(n.sent))
	copy(out, n.sent)
	return out
}
