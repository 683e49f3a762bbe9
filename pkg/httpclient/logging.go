package httpclient

import (
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// InjectLogger returns a transport that places lg into each request context
// so downstream transports can use zctx.From.
func InjectLogger(lg *zap.Logger) Transport {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			ctx := zctx.Base(req.Context(), lg)
			return next.RoundTrip(req.WithContext(ctx))
		})
	}
}

// LogRequests returns a transport that logs each outgoing request with
// method, path, status, duration and the request ID. Transport errors are
// logged at error level; responses at debug.
func LogRequests() Transport {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)

			lg := zctx.From(req.Context()).With(
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("request_id", req.Header.Get("X-Request-ID")),
				zap.Duration("duration", time.Since(start)),
			)
			if err != nil {
				lg.Error("API request failed", zap.Error(err))
				return nil, err
			}
			lg.Debug("API request", zap.Int("status", resp.StatusCode))
			return resp, nil
		})
	}
}
