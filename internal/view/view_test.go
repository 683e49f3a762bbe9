package view

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nadasobeh22/RestoManage/internal/cart"
	"github.com/nadasobeh22/RestoManage/internal/restoapi"
	"github.com/nadasobeh22/RestoManage/internal/session"
	"github.com/nadasobeh22/RestoManage/pkg/notify"
)

type fixture struct {
	deps    Deps
	out     *bytes.Buffer
	center  *notify.Center
	visited []string
	server  *httptest.Server
}

// newFixture wires a view dependency set against the given fake API handler.
func newFixture(t *testing.T, loggedIn bool, handler http.Handler) *fixture {
	t.Helper()

	if handler == nil {
		handler = http.NotFoundHandler()
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sess, err := session.Open(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, err)
	if loggedIn {
		require.NoError(t, sess.SetToken("T"))
	}

	f := &fixture{
		out:    &bytes.Buffer{},
		center: notify.New(8),
		server: srv,
	}
	api := restoapi.New(srv.URL, srv.Client())
	navigate := func(path string) { f.visited = append(f.visited, path) }
	f.deps = Deps{
		API:      api,
		Session:  sess,
		Cart:     cart.New(api, sess, f.center, navigate),
		Notifier: f.center,
		Navigate: navigate,
		Out:      f.out,
	}
	return f
}

func (f *fixture) lastNotification() notify.Message {
	recent := f.center.Recent()
	if len(recent) == 0 {
		return notify.Message{}
	}
	return recent[len(recent)-1]
}
