// Package view holds the storefront pages as controllers: each view fetches
// what it needs through the API client, keeps its own page state and renders
// plain text to the shell's writer. Views never talk to each other directly;
// they share state through the cart store, the session store and navigation.
package view

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nadasobeh22/RestoManage/internal/cache"
	"github.com/nadasobeh22/RestoManage/internal/cart"
	"github.com/nadasobeh22/RestoManage/internal/restoapi"
	"github.com/nadasobeh22/RestoManage/internal/session"
	"github.com/nadasobeh22/RestoManage/pkg/money"
	"github.com/nadasobeh22/RestoManage/pkg/notify"
)

// Deps is the shared dependency set injected into every view.
type Deps struct {
	API      *restoapi.Client
	Session  *session.Store
	Cart     *cart.Store
	Catalog  *cache.Catalog
	Notifier notify.Notifier
	Navigate func(path string)
	Out      io.Writer
}

func (d Deps) printf(format string, args ...any) {
	fmt.Fprintf(d.Out, format, args...)
}

func (d Deps) println(s string) {
	fmt.Fprintln(d.Out, s)
}

// requireLogin redirects to the login view when no session exists. Reported
// true means the caller may proceed.
func (d Deps) requireLogin(message string) bool {
	if d.Session.LoggedIn() {
		return true
	}
	d.Notifier.Notify(notify.Error, message)
	d.Navigate("/login")
	return false
}

// stars renders a 0..5 rating as a five-character bar.
func stars(rating float64) string {
	full := int(rating + 0.5)
	if full < 0 {
		full = 0
	}
	if full > 5 {
		full = 5
	}
	return strings.Repeat("★", full) + strings.Repeat("☆", 5-full)
}

// priceLine renders a food's pricing, striking through the base price when a
// discount applies.
func priceLine(f restoapi.Food) string {
	if f.HasDiscount() {
		return fmt.Sprintf("%s (was %s)", f.PriceAfterDiscounts.Display, f.Price.Display)
	}
	return f.Price.Display
}

func formatAmount(d decimal.Decimal) string {
	return money.Format(d)
}

// sessionExpired discards the stale token and sends the user to log in
// again. Views call it on any 401 from an authenticated endpoint.
func (d Deps) sessionExpired(ctx context.Context) {
	if err := d.Session.Clear(); err != nil {
		zctx.From(ctx).Warn("Clear session", zap.Error(err))
	}
	d.Notifier.Notify(notify.Error, "Your session has expired. Please log in again.")
	d.Navigate("/login")
}

// errPosition reports a listing index outside the rendered range.
func errPosition(position int) error {
	return errors.Errorf("no item at position %d", position)
}
