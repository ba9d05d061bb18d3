package mail

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/oauth2"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"mlb-odds-mailer/internal/googleauth"
	"mlb-odds-mailer/internal/logging"
)

// TokenProvider supplies a valid send-scoped credential, refreshing or
// re-acquiring it as needed before each send.
type TokenProvider interface {
	TokenSource(ctx context.Context) oauth2.TokenSource
}

// GmailNotifier sends the pick through the Gmail API as the configured sender.
type GmailNotifier struct {
	sender    string
	recipient string
	tokens    TokenProvider
	logger    *slog.Logger

	// send is swappable in tests; the default builds a Gmail service and
	// submits the raw message as the authenticated user.
	send func(ctx context.Context, raw string) error
}

// NewGmailNotifier constructs a notifier for the given sender and recipient.
func NewGmailNotifier(sender, recipient string, tokens TokenProvider, logger *slog.Logger) *GmailNotifier {
	n := &GmailNotifier{
		sender:    sender,
		recipient: recipient,
		tokens:    tokens,
		logger:    logger,
	}
	n.send = n.sendViaGmail
	return n
}

// Notify builds the MIME message and submits it. Credential acquisition runs
// as a prerequisite of the send inside the Gmail transport.
func (n *GmailNotifier) Notify(ctx context.Context, subject, body string) error {
	raw := BuildRaw(n.sender, n.recipient, subject, body)
	if err := n.send(ctx, raw); err != nil {
		return err
	}
	logging.Info(n.logger, "notification sent", logging.FieldRecipient, n.recipient)
	return nil
}

func (n *GmailNotifier) sendViaGmail(ctx context.Context, raw string) error {
	svc, err := gmail.NewService(ctx, option.WithTokenSource(n.tokens.TokenSource(ctx)))
	if err != nil {
		return classifySendErr(err)
	}

	msg := &gmail.Message{Raw: raw}
	if _, err := svc.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return classifySendErr(err)
	}
	return nil
}

func classifySendErr(err error) error {
	// Credential failures bubble through the token source untouched so the
	// scheduler can tell them apart from transport failures.
	var authErr *googleauth.AuthError
	if errors.As(err, &authErr) {
		return err
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &SendError{StatusCode: apiErr.Code, Err: err}
	}
	return &SendError{Err: err}
}
