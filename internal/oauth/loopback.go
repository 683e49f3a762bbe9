// Package oauth completes the Google sign-in flow for a terminal client. The
// implicit grant returns the access token in the redirect URL fragment, which
// never reaches a server, so the loopback callback serves a small page that
// relays the fragment back over a second request. The resulting Google access
// token is then exchanged at the backend for a bearer token by the caller.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

const (
	authEndpoint = "https://accounts.google.com/o/oauth2/v2/auth"
	scopes       = "openid email profile"

	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 3 * time.Second
)

// ErrDenied is returned when the provider reports the user refused consent.
var ErrDenied = errors.New("authorization denied")

// Flow runs one interactive sign-in.
type Flow struct {
	// ClientID is the Google OAuth client ID.
	ClientID string
	// OpenURL presents the authorization URL to the user, e.g. by launching
	// a browser or printing it. Required.
	OpenURL func(url string) error
	// Timeout bounds the wait for the callback. Zero means 3 minutes.
	Timeout time.Duration
}

type callbackResult struct {
	token string
	err   error
}

// Authorize obtains a Google access token: it starts a loopback listener,
// hands the authorization URL to OpenURL and waits for the redirect to come
// back. It blocks until the callback arrives, the timeout elapses or ctx is
// cancelled.
func (f *Flow) Authorize(ctx context.Context) (string, error) {
	timeout := f.Timeout
	if timeout == 0 {
		timeout = 3 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	state, err := randomState()
	if err != nil {
		return "", err
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", errors.Wrap(err, "listen on loopback")
	}

	results := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler:           callbackHandler(state, results),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			results <- callbackResult{err: errors.Wrap(err, "serve callback")}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zctx.From(ctx).Warn("Shutdown callback server", zap.Error(err))
		}
	}()

	redirectURI := "http://" + ln.Addr().String() + "/callback"
	authURL := authEndpoint + "?" + url.Values{
		"client_id":     {f.ClientID},
		"redirect_uri":  {redirectURI},
		"response_type": {"token"},
		"scope":         {scopes},
		"state":         {state},
	}.Encode()

	if err := f.OpenURL(authURL); err != nil {
		return "", errors.Wrap(err, "open authorization URL")
	}

	select {
	case <-ctx.Done():
		return "", errors.Wrap(ctx.Err(), "wait for callback")
	case res := <-results:
		return res.token, res.err
	}
}

// callbackHandler serves the two-step relay: /callback returns the fragment
// relay page, /capture receives the relayed token.
func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(relayPage))
	})
	mux.HandleFunc("/capture", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		res := captureResult(q, state)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if res.err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(failurePage))
		} else {
			_, _ = w.Write([]byte(successPage))
		}

		select {
		case results <- res:
		default:
		}
	})
	return mux
}

func captureResult(q url.Values, state string) callbackResult {
	if e := q.Get("error"); e != "" {
		if e == "access_denied" {
			return callbackResult{err: ErrDenied}
		}
		return callbackResult{err: errors.Errorf("authorization failed: %s", e)}
	}
	if q.Get("state") != state {
		return callbackResult{err: errors.New("state mismatch")}
	}
	token := q.Get("access_token")
	if token == "" {
		return callbackResult{err: errors.New("callback has no access token")}
	}
	return callbackResult{token: token}
}

func randomState() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", errors.Wrap(err, "generate state")
	}
	return hex.EncodeToString(buf[:]), nil
}

// relayPage forwards the URL fragment to /capture as a query string.
const relayPage = `<!DOCTYPE html>
<html><body>Signing in...
<script>
window.location.replace("/capture?" + window.location.hash.substring(1));
</script>
</body></html>`

const successPage = `<!DOCTYPE html>
<html><body>Signed in. You can close this window and return to the terminal.</body></html>`

const failurePage = `<!DOCTYPE html>
<html><body>Sign-in failed. You can close this window.</body></html>`
