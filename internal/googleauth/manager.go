package googleauth

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"

	"mlb-odds-mailer/internal/logging"
)

// AuthError marks a credential acquisition failure. The scheduler logs these
// distinctly from transient provider errors: until the credential is fixed,
// no later cycle can succeed either.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("googleauth: %s: %v", e.Op, e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

// Config controls the OAuth2 client and token persistence.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenFile    string
	Scopes       []string
}

// Manager owns the mail-sending credential through its lifecycle: load the
// stored token at first use, silently refresh an expired one when a refresh
// token is present, fall back to the interactive browser flow otherwise, and
// re-persist after any change.
type Manager struct {
	conf   *oauth2.Config
	store  *Store
	flow   authFlow
	logger *slog.Logger

	tok *oauth2.Token
}

// NewManager constructs a Manager. An empty scope list defaults to send-only
// Gmail access; this process never needs to read anyone's mailbox.
func NewManager(cfg Config, logger *slog.Logger) *Manager {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{gmail.GmailSendScope}
	}
	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       scopes,
	}
	return &Manager{
		conf:   conf,
		store:  NewStore(cfg.TokenFile),
		flow:   &localServerFlow{logger: logger},
		logger: logger,
	}
}

// Token returns a valid token, walking the credential state machine as needed.
func (m *Manager) Token(ctx context.Context) (*oauth2.Token, error) {
	if m.tok == nil {
		if stored, err := m.store.Load(); err == nil {
			m.tok = stored
		} else {
			logging.Info(m.logger, "no stored credential", "path", m.store.path)
		}
	}

	if m.tok.Valid() {
		return m.tok, nil
	}

	if m.tok != nil && m.tok.RefreshToken != "" {
		fresh, err := m.conf.TokenSource(ctx, m.tok).Token()
		if err == nil {
			return m.adopt(fresh, "refreshed credential")
		}
		logging.Warn(m.logger, "credential refresh failed, falling back to interactive flow", "error", err)
	}

	fresh, err := m.flow.Authorize(ctx, m.conf)
	if err != nil {
		return nil, &AuthError{Op: "interactive authorization", Err: err}
	}
	return m.adopt(fresh, "obtained fresh credential")
}

// TokenSource adapts the manager to the oauth2.TokenSource the Gmail client
// expects. Every call re-runs the validity check; a valid cached token is a
// no-op.
func (m *Manager) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &managerTokenSource{ctx: ctx, m: m}
}

func (m *Manager) adopt(tok *oauth2.Token, msg string) (*oauth2.Token, error) {
	// Google rotates access tokens but may omit the refresh token on renewal.
	if tok.RefreshToken == "" && m.tok != nil {
		tok.RefreshToken = m.tok.RefreshToken
	}
	m.tok = tok
	if err := m.store.Save(tok); err != nil {
		return nil, &AuthError{Op: "persist credential", Err: err}
	}
	logging.Info(m.logger, msg, "expiry", tok.Expiry)
	return tok, nil
}

type managerTokenSource struct {
	ctx context.Context
	m   *Manager
}

func (s *managerTokenSource) Token() (*oauth2.Token, error) {
	return s.m.Token(s.ctx)
}
