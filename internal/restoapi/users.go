package restoapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// RegisterRequest is the registration form payload.
type RegisterRequest struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

// Login exchanges credentials for a bearer token.
// POST /api/user/login.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("email")
	e.Str(email)
	e.FieldStart("password")
	e.Str(password)
	e.ObjEnd()

	env, err := c.send(ctx, http.MethodPost, "/api/user/login", e.Bytes())
	if err != nil {
		return "", err
	}
	return decAuthToken(env)
}

// Register creates an account and returns its bearer token.
// POST /api/user/register. Validation failures surface as an APIError with
// per-field messages.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("name")
	e.Str(req.Name)
	e.FieldStart("email")
	e.Str(req.Email)
	e.FieldStart("password")
	e.Str(req.Password)
	e.FieldStart("password_confirmation")
	e.Str(req.PasswordConfirmation)
	e.ObjEnd()

	env, err := c.send(ctx, http.MethodPost, "/api/user/register", e.Bytes())
	if err != nil {
		return "", err
	}
	return decAuthToken(env)
}

// Logout invalidates the server-side session. POST /api/user/logout, auth
// required. Callers clear the local token regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.send(ctx, http.MethodPost, "/api/user/logout", []byte("{}"))
	return err
}

// GoogleCallback exchanges a Google OAuth access token for a bearer token.
// POST /api/auth/callback/google, form-encoded as the backend expects.
func (c *Client) GoogleCallback(ctx context.Context, accessToken string) (string, error) {
	form := url.Values{}
	form.Set("token", accessToken)

	env, err := c.postForm(ctx, "/api/auth/callback/google", form)
	if err != nil {
		return "", err
	}
	return decAuthToken(env)
}

// decAuthToken reads data.authorization.token from identity responses.
func decAuthToken(env *envelope) (string, error) {
	var token string
	if err := decodeData(env, func(d *jx.Decoder) error {
		return d.Obj(func(d *jx.Decoder, key string) error {
			if key != "authorization" {
				return d.Skip()
			}
			return d.Obj(func(d *jx.Decoder, key string) error {
				if key != "token" {
					return d.Skip()
				}
				t, err := decString(d)
				if err != nil {
					return err
				}
				token = t
				return nil
			})
		})
	}); err != nil {
		return "", errors.Wrap(err, "decode auth token")
	}
	if token == "" {
		return "", errors.New("response has no token")
	}
	return token, nil
}
