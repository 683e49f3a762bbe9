// Package session owns the authenticated-user state: an opaque bearer token
// persisted to a small file. Token presence is the sole signal of "logged
// in". The store replaces the browser's ambient localStorage with an
// explicit object: views read through it, auth flows write through it, and
// everyone else subscribes to change notifications instead of watching
// shared storage.
package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// Store holds the session token and notifies subscribers on every change.
type Store struct {
	path string

	mu    sync.RWMutex
	token string
	subs  []chan struct{}
}

// Open loads any previously persisted token from path. A missing file means
// no session; any other read error is reported.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, errors.Wrap(err, "read token file")
	}
	s.token = strings.TrimSpace(string(data))
	return s, nil
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// LoggedIn reports whether a token is present.
func (s *Store) LoggedIn() bool {
	return s.Token() != ""
}

// SetToken persists tok and notifies subscribers. The file is written with
// owner-only permissions since it is a credential.
func (s *Store) SetToken(tok string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "create token dir")
	}
	if err := os.WriteFile(s.path, []byte(tok+"\n"), 0o600); err != nil {
		return errors.Wrap(err, "write token file")
	}
	s.setInMemory(tok)
	return nil
}

// Clear discards the session: the token file is removed and subscribers are
// notified. Clearing an already-empty session is a no-op.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "remove token file")
	}
	s.setInMemory("")
	return nil
}

// Subscribe returns a channel that receives a signal after every token
// change. The channel has a one-slot buffer; coalesced signals are fine
// because subscribers re-read state rather than consuming deltas.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// Watch polls the token file at the given interval and picks up changes made
// by other processes, the moral equivalent of the browser "storage" event
// firing for edits from another tab. It blocks until ctx is cancelled.
func (s *Store) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.reload(ctx)
		}
	}
}

func (s *Store) reload(ctx context.Context) {
	data, err := os.ReadFile(s.path)
	tok := ""
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		zctx.From(ctx).Warn("Reload token file", zap.Error(err))
		return
	default:
		tok = strings.TrimSpace(string(data))
	}

	s.mu.RLock()
	unchanged := tok == s.token
	s.mu.RUnlock()
	if unchanged {
		return
	}
	s.setInMemory(tok)
}

func (s *Store) setInMemory(tok string) {
	s.mu.Lock()
	s.token = tok
	subs := make([]chan struct{}, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
