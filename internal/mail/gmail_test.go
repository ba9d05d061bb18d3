package mail

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"mlb-odds-mailer/internal/googleauth"
)

type staticTokens struct{}

func (staticTokens) TokenSource(ctx context.Context) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test"})
}

func TestNotifySubmitsEncodedMessage(t *testing.T) {
	n := NewGmailNotifier("bot@example.com", "me@example.com", staticTokens{}, nil)

	var sentRaw string
	n.send = func(ctx context.Context, raw string) error {
		sentRaw = raw
		return nil
	}

	if err := n.Notify(context.Background(), "subject line", "body text"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	decoded, err := base64.URLEncoding.DecodeString(sentRaw)
	if err != nil {
		t.Fatalf("raw field not URL-safe base64: %v", err)
	}
	msg := string(decoded)
	if !strings.Contains(msg, "To: me@example.com") || !strings.Contains(msg, "From: bot@example.com") {
		t.Fatalf("addresses missing from message: %q", msg)
	}
	if !strings.Contains(msg, "body text") {
		t.Fatalf("body missing from message: %q", msg)
	}
}

func TestNotifyPropagatesSendError(t *testing.T) {
	n := NewGmailNotifier("bot@example.com", "me@example.com", staticTokens{}, nil)
	n.send = func(ctx context.Context, raw string) error {
		return &SendError{StatusCode: 503, Err: errors.New("unavailable")}
	}

	err := n.Notify(context.Background(), "s", "b")
	sendErr, ok := AsSendError(err)
	if !ok {
		t.Fatalf("expected SendError, got %v", err)
	}
	if sendErr.StatusCode != 503 {
		t.Fatalf("expected 503, got %d", sendErr.StatusCode)
	}
}

func TestClassifySendErrWrapsAPIError(t *testing.T) {
	err := classifySendErr(&googleapi.Error{Code: 400, Message: "invalid raw"})
	sendErr, ok := AsSendError(err)
	if !ok {
		t.Fatalf("expected SendError, got %v", err)
	}
	if sendErr.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", sendErr.StatusCode)
	}
}

func TestClassifySendErrPassesAuthErrorsThrough(t *testing.T) {
	authErr := &googleauth.AuthError{Op: "interactive authorization", Err: errors.New("denied")}
	err := classifySendErr(authErr)

	var got *googleauth.AuthError
	if !errors.As(err, &got) {
		t.Fatalf("expected AuthError preserved, got %v", err)
	}
	if _, ok := AsSendError(err); ok {
		t.Fatal("auth failures must not be classified as transport failures")
	}
}
