package httpclient

import "net/http"

// TokenSource yields the current bearer token, or "" when no session exists.
type TokenSource interface {
	Token() string
}

// Bearer returns a transport that attaches "Authorization: Bearer <token>"
// to every outgoing request while a token is present. Requests sent without
// a token are passed through untouched, letting the server decide which
// endpoints require authentication.
func Bearer(tokens TokenSource) Transport {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			tok := tokens.Token()
			if tok == "" {
				return next.RoundTrip(req)
			}
			out := req.Clone(req.Context())
			out.Header.Set("Authorization", "Bearer "+tok)
			return next.RoundTrip(out)
		})
	}
}
