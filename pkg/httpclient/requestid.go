package httpclient

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID returns a transport that stamps every outgoing request with a
// unique X-Request-ID header so client and server logs can be correlated.
// An ID already set by the caller is kept if it is valid: non-empty, at most
// 128 bytes, printable ASCII only.
func RequestID() Transport {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			id := req.Header.Get("X-Request-ID")
			if !isValidRequestID(id) {
				id = uuid.New().String()
			}
			out := req.Clone(req.Context())
			out.Header.Set("X-Request-ID", id)
			return next.RoundTrip(out)
		})
	}
}

// isValidRequestID checks that id is non-empty, at most 128 bytes, and
// contains only printable ASCII (0x20-0x7E).
func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > 128 {
		return false
	}
	for i := range len(id) {
		if id[i] < 0x20 || id[i] > 0x7E {
			return false
		}
	}
	return true
}
