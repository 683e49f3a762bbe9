// Package restoapi is a typed client for the remote RestoManage HTTP API.
// The backend is the single source of truth for every durable entity; this
// package only mirrors its responses into Go types and normalizes its two
// response envelopes (`success` bool and `status` string) plus its habit of
// returning numbers as formatted strings.
package restoapi

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// ErrUnauthorized is returned for any 401 response. Callers react by
// discarding the stored token and redirecting to the login view.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a server-reported business error: an invalid discount code, a
// duplicate review, a validation failure. Message carries the server's text
// when it sent one; Fields carries per-field validation errors (422).
type APIError struct {
	Code    int
	Message string
	Fields  map[string][]string
}

func (e *APIError) Error() string {
	return e.Message
}

// ErrorMessage extracts the server's message from err when it is an
// APIError with one, otherwise returns fallback. This implements the
// "server message when present, else generic fallback" notification rule.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// maxResponseBody bounds how much of a response the client will read.
const maxResponseBody = 4 << 20

// Client issues requests against a RestoManage deployment. Authorization,
// request IDs, logging and instrumentation are provided by the transport
// chain on the injected http.Client.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the API rooted at baseURL (scheme://host[:port],
// without the /api suffix).
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// BaseURL returns the configured API root, used to resolve relative image
// paths in responses.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// envelope is the normalized form of the backend's response wrappers.
type envelope struct {
	ok       bool
	explicit bool
	message  string
	data     jx.Raw
	meta     jx.Raw
	fields   map[string][]string
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*envelope, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, "")
}

func (c *Client) send(ctx context.Context, method, path string, body []byte) (*envelope, error) {
	return c.do(ctx, method, path, nil, body, "application/json")
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) (*envelope, error) {
	return c.do(ctx, http.MethodPost, path, nil, []byte(form.Encode()), "application/x-www-form-urlencoded")
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, contentType string) (*envelope, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = strings.NewReader(string(body))
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s %s", method, path)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s %s response", method, path)
	}

	env := parseEnvelope(raw)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode >= 400:
		return nil, &APIError{
			Code:    resp.StatusCode,
			Message: orDefault(env.message, http.StatusText(resp.StatusCode)),
			Fields:  env.fields,
		}
	case env.explicit && !env.ok:
		// Some endpoints report failure inside a 200 body.
		return nil, &APIError{
			Code:    resp.StatusCode,
			Message: orDefault(env.message, "request failed"),
		}
	}
	return env, nil
}

// parseEnvelope tolerantly reads the wrapper object. Responses that are not
// JSON objects are treated as bare data.
func parseEnvelope(body []byte) *envelope {
	env := &envelope{}
	if len(body) == 0 {
		return env
	}

	d := jx.DecodeBytes(body)
	if d.Next() != jx.Object {
		env.data = body
		return env
	}

	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "success":
			ok, err := d.Bool()
			if err != nil {
				return err
			}
			env.ok, env.explicit = ok, true
		case "status":
			st, err := decString(d)
			if err != nil {
				return err
			}
			env.ok, env.explicit = st == "success", true
		case "message":
			msg, err := decString(d)
			if err != nil {
				return err
			}
			env.message = msg
		case "data":
			raw, err := d.Raw()
			if err != nil {
				return err
			}
			env.data = raw
		case "meta":
			raw, err := d.Raw()
			if err != nil {
				return err
			}
			env.meta = raw
		case "errors":
			fields, err := decFieldErrors(d)
			if err != nil {
				return err
			}
			env.fields = fields
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		// Malformed wrapper: expose the raw body and let typed decoding fail
		// with a precise error.
		return &envelope{data: body}
	}
	return env
}

func orDefault(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
