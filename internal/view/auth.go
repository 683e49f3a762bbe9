package view

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/nadasobeh22/RestoManage/internal/oauth"
	"github.com/nadasobeh22/RestoManage/internal/restoapi"
	"github.com/nadasobeh22/RestoManage/pkg/notify"
)

// Auth handles login, registration, logout and Google sign-in. Successful
// sign-ins persist the bearer token, refresh the cart and land on the home
// page.
type Auth struct {
	deps Deps
	// Google runs the interactive OAuth flow; nil disables Google sign-in.
	google *oauth.Flow
}

// NewAuth creates the auth view.
func NewAuth(deps Deps, google *oauth.Flow) *Auth {
	return &Auth{deps: deps, google: google}
}

// RenderLogin prints the login form.
func (a *Auth) RenderLogin(ctx context.Context) error {
	a.deps.println("Log in")
	a.deps.println("  login <email> <password>")
	if a.google != nil {
		a.deps.println("  google            sign in with Google")
	}
	a.deps.println("  go register      create an account")
	return nil
}

// RenderRegister prints the registration form.
func (a *Auth) RenderRegister(ctx context.Context) error {
	a.deps.println("Create an account")
	a.deps.println("  register <name> <email> <password>")
	if a.google != nil {
		a.deps.println("  google            continue with Google")
	}
	a.deps.println("  go login         already have an account")
	return nil
}

// Login exchanges credentials for a session.
func (a *Auth) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		a.deps.Notifier.Notify(notify.Error, "Email and password are required.")
		return errors.New("missing credentials")
	}

	tok, err := a.deps.API.Login(ctx, email, password)
	if err != nil {
		a.deps.Notifier.Notify(notify.Error, restoapi.ErrorMessage(err, "Login failed. Check your credentials."))
		return err
	}
	return a.signedIn(ctx, tok, "Logged in successfully!")
}

// Register creates an account. The confirmation repeats the password the way
// the backend's validation expects.
func (a *Auth) Register(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		a.deps.Notifier.Notify(notify.Error, "Name, email and password are required.")
		return errors.New("missing registration fields")
	}

	tok, err := a.deps.API.Register(ctx, restoapi.RegisterRequest{
		Name:                 name,
		Email:                email,
		Password:             password,
		PasswordConfirmation: password,
	})
	if err != nil {
		a.registrationFailed(err)
		return err
	}
	return a.signedIn(ctx, tok, "Account created!")
}

// GoogleSignIn runs the interactive Google flow and exchanges the resulting
// access token at the backend.
func (a *Auth) GoogleSignIn(ctx context.Context) error {
	if a.google == nil {
		a.deps.Notifier.Notify(notify.Error, "Google sign-in is not configured.")
		return errors.New("google sign-in disabled")
	}

	a.deps.Notifier.Notify(notify.Pending, "Waiting for Google sign-in in your browser...")
	accessToken, err := a.google.Authorize(ctx)
	if err != nil {
		if errors.Is(err, oauth.ErrDenied) {
			a.deps.Notifier.Notify(notify.Error, "Google sign-in was cancelled.")
		} else {
			a.deps.Notifier.Notify(notify.Error, "Google sign-in failed.")
		}
		return err
	}

	a.deps.Notifier.Notify(notify.Pending, "Authenticating with Google...")
	tok, err := a.deps.API.GoogleCallback(ctx, accessToken)
	if err != nil {
		a.deps.Notifier.Notify(notify.Error, restoapi.ErrorMessage(err, "Authentication failed when contacting the server."))
		return err
	}
	return a.signedIn(ctx, tok, "Logged in with Google!")
}

// Logout ends the session. The local token is cleared even when the server
// call fails; a dead token is useless either way.
func (a *Auth) Logout(ctx context.Context) error {
	if err := a.deps.API.Logout(ctx); err != nil && !errors.Is(err, restoapi.ErrUnauthorized) {
		zctx.From(ctx).Warn("Logout", zap.Error(err))
	}
	if err := a.deps.Session.Clear(); err != nil {
		return errors.Wrap(err, "clear session")
	}
	a.deps.Cart.Fetch(ctx)
	a.deps.Notifier.Notify(notify.Success, "Logged out.")
	a.deps.Navigate("/login")
	return nil
}

func (a *Auth) signedIn(ctx context.Context, tok, message string) error {
	if err := a.deps.Session.SetToken(tok); err != nil {
		return errors.Wrap(err, "persist session")
	}
	a.deps.Notifier.Notify(notify.Success, message)
	a.deps.Cart.Fetch(ctx)
	a.deps.Navigate("/home")
	return nil
}

// registrationFailed surfaces 422 field errors per input, falling back to
// the server's message.
func (a *Auth) registrationFailed(err error) {
	var apiErr *restoapi.APIError
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		for field, msgs := range apiErr.Fields {
			for _, msg := range msgs {
				a.deps.Notifier.Notify(notify.Error, field+": "+msg)
			}
		}
		return
	}
	a.deps.Notifier.Notify(notify.Error, restoapi.ErrorMessage(err, "Registration failed."))
}
