package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func TestWrapOrder(t *testing.T) {
	var order []string
	record := func(name string) Transport {
		return func(next http.RoundTripper) http.RoundTripper {
			return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(req)
			})
		}
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	client := &http.Client{Transport: Wrap(nil, record("outer"), record("inner"))}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestRequestID(t *testing.T) {
	t.Run("generates when absent", func(t *testing.T) {
		var got string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("X-Request-ID")
		}))
		defer srv.Close()

		client := &http.Client{Transport: Wrap(nil, RequestID())}
		resp, err := client.Get(srv.URL)
		require.NoError(t, err)
		resp.Body.Close()

		_, err = uuid.Parse(got)
		assert.NoError(t, err, "expected a UUID, got %q", got)
	})

	t.Run("keeps valid caller-set ID", func(t *testing.T) {
		var got string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("X-Request-ID")
		}))
		defer srv.Close()

		req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
		require.NoError(t, err)
		req.Header.Set("X-Request-ID", "caller-id-1")

		client := &http.Client{Transport: Wrap(nil, RequestID())}
		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "caller-id-1", got)
	})

	t.Run("replaces invalid ID", func(t *testing.T) {
		var got string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("X-Request-ID")
		}))
		defer srv.Close()

		req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
		require.NoError(t, err)
		req.Header.Set("X-Request-ID", "bad\x01id")

		client := &http.Client{Transport: Wrap(nil, RequestID())}
		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.NotEqual(t, "bad\x01id", got)
		_, err = uuid.Parse(got)
		assert.NoError(t, err)
	})
}

func TestBearer(t *testing.T) {
	t.Run("attaches token", func(t *testing.T) {
		var got string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
		}))
		defer srv.Close()

		client := &http.Client{Transport: Wrap(nil, Bearer(staticTokens("T")))}
		resp, err := client.Get(srv.URL)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "Bearer T", got)
	})

	t.Run("no token leaves request untouched", func(t *testing.T) {
		var got string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
		}))
		defer srv.Close()

		client := &http.Client{Transport: Wrap(nil, Bearer(staticTokens("")))}
		resp, err := client.Get(srv.URL)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Empty(t, got)
	})
}
