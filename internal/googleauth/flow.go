package googleauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"mlb-odds-mailer/internal/logging"
)

// authFlow runs the interactive authorization step. It is an interface so
// tests can stub the browser round-trip out.
type authFlow interface {
	Authorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error)
}

// localServerFlow opens a loopback callback listener on a random port, prints
// the consent URL for the user to approve in a browser, and exchanges the
// returned code for a token.
type localServerFlow struct {
	logger *slog.Logger
}

func (f *localServerFlow) Authorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	defer ln.Close()

	redirect := fmt.Sprintf("http://%s/", ln.Addr().String())
	local := *conf
	local.RedirectURL = redirect

	state, err := randomState()
	if err != nil {
		return nil, err
	}

	type callback struct {
		code string
		err  error
	}
	results := make(chan callback, 1)

	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			results <- callback{err: errors.New("authorization state mismatch")}
			return
		}
		if e := r.URL.Query().Get("error"); e != "" {
			http.Error(w, "authorization denied", http.StatusBadRequest)
			results <- callback{err: fmt.Errorf("authorization denied: %s", e)}
			return
		}
		fmt.Fprintln(w, "Authorization complete. You may close this window.")
		results <- callback{code: r.URL.Query().Get("code")}
	})}
	go srv.Serve(ln)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	// Offline access is required to receive a refresh token; prompt=consent
	// forces Google to issue one even for a previously approved client.
	authURL := local.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	logging.Info(f.logger, "open this URL in a browser to authorize mail sending", "url", authURL)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-results:
		if res.err != nil {
			return nil, res.err
		}
		return local.Exchange(ctx, res.code)
	}
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
