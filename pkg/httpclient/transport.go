// Package httpclient provides composable http.RoundTripper middleware for
// outgoing API calls: request IDs, bearer authorization, logging, and
// OpenTelemetry instrumentation. It is the client-side mirror of the usual
// server middleware chain.
package httpclient

import (
	"net/http"

	"github.com/go-faster/sdk/app"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Transport wraps an http.RoundTripper with additional behaviour.
type Transport func(http.RoundTripper) http.RoundTripper

// Wrap applies the given transports to base in reverse order, so the first
// transport listed is the outermost (first to see the request).
func Wrap(base http.RoundTripper, transports ...Transport) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(transports) - 1; i >= 0; i-- {
		base = transports[i](base)
	}
	return base
}

// roundTripperFunc adapts a function to http.RoundTripper.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Instrument wraps the base transport with otelhttp tracing and metrics using
// the providers from the application telemetry.
func Instrument(m *app.Telemetry) Transport {
	return func(next http.RoundTripper) http.RoundTripper {
		return otelhttp.NewTransport(next,
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		)
	}
}
