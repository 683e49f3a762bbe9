// Package cart is the client-side cart state store. The server owns the cart;
// this store keeps a read model of it, refreshed after every mutation instead
// of patched locally, so totals and discount effects always come from the
// backend. Views read snapshots and subscribe to change signals.
package cart

import (
	"context"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nadasobeh22/RestoManage/internal/restoapi"
	"github.com/nadasobeh22/RestoManage/internal/session"
	"github.com/nadasobeh22/RestoManage/pkg/money"
	"github.com/nadasobeh22/RestoManage/pkg/notify"
)

// ErrLoginRequired is returned by mutations attempted without a session.
var ErrLoginRequired = errors.New("login required")

// loginPath is where unauthenticated users are sent.
const loginPath = "/login"

// Snapshot is an immutable view of the cart state at one point in time.
type Snapshot struct {
	Items   []restoapi.CartItem
	Total   money.Price
	Loading bool
}

// ItemCount is the number of distinct cart lines, not the summed quantities.
func (s Snapshot) ItemCount() int {
	return len(s.Items)
}

// Subtotal sums price times quantity over all lines. It is the pre-discount
// figure; Total is the server's authoritative post-discount amount.
func (s Snapshot) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range s.Items {
		sum = sum.Add(item.FoodPrice.Mul(item.Quantity))
	}
	return sum
}

// Store tracks the server cart for the current session.
type Store struct {
	client   *restoapi.Client
	session  *session.Store
	notifier notify.Notifier
	navigate func(path string)

	mu       sync.RWMutex
	items    []restoapi.CartItem
	total    money.Price
	loading  bool
	fetchGen uint64
	subs     []chan struct{}
}

// New creates a Store. navigate is invoked with a route path when an
// operation requires sending the user elsewhere (expired session, login
// prompt); it must be non-nil.
func New(client *restoapi.Client, sess *session.Store, notifier notify.Notifier, navigate func(path string)) *Store {
	return &Store{
		client:   client,
		session:  sess,
		notifier: notifier,
		navigate: navigate,
		total:    money.Zero,
	}
}

// State returns the current snapshot.
func (s *Store) State() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]restoapi.CartItem, len(s.items))
	copy(items, s.items)
	return Snapshot{Items: items, Total: s.total, Loading: s.loading}
}

// Subscribe returns a channel signalled after every state change. One-slot
// buffer; subscribers re-read State rather than consuming deltas.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// Fetch refreshes the cart from the server. Without a session it resets to
// empty without a request. Fetch failures other than an expired session also
// reset to empty: a broken cart panel is worse than an empty one.
func (s *Store) Fetch(ctx context.Context) {
	if !s.session.LoggedIn() {
		s.reset(0)
		return
	}

	s.mu.Lock()
	s.fetchGen++
	gen := s.fetchGen
	s.loading = true
	s.mu.Unlock()
	s.signal()

	cart, err := s.client.ShowCart(ctx)
	switch {
	case errors.Is(err, restoapi.ErrUnauthorized):
		s.sessionExpired(ctx)
		s.reset(gen)
	case err != nil:
		zctx.From(ctx).Warn("Fetch cart", zap.Error(err))
		s.reset(gen)
	default:
		s.apply(gen, cart.Items, cart.TotalPrice)
	}
}

// AddItem adds quantity units of a food and refreshes the cart. Without a
// session it publishes an error notification, navigates to the login view and
// makes no request.
func (s *Store) AddItem(ctx context.Context, foodID int64, quantity int) error {
	if !s.session.LoggedIn() {
		s.notifier.Notify(notify.Error, "Please log in to add items to your cart.")
		s.navigate(loginPath)
		return ErrLoginRequired
	}

	err := notify.Promise(s.notifier, "Adding to cart...", "Added to cart.", func() (string, error) {
		msg, err := s.client.AddToCart(ctx, foodID, quantity)
		if err != nil {
			return "", errors.New(restoapi.ErrorMessage(err, "Failed to add to cart."))
		}
		return msg, nil
	})
	if err != nil {
		return err
	}
	s.Fetch(ctx)
	return nil
}

// UpdateQuantity sets a cart line's quantity. Quantities below one remove the
// line instead, matching the minus button on the last unit.
func (s *Store) UpdateQuantity(ctx context.Context, cartItemID int64, quantity int) error {
	if quantity < 1 {
		return s.RemoveItem(ctx, cartItemID)
	}

	if err := s.client.UpdateCartItem(ctx, cartItemID, quantity); err != nil {
		return s.mutationFailed(ctx, err, "Failed to update quantity.")
	}
	s.Fetch(ctx)
	return nil
}

// RemoveItem deletes a cart line and refreshes the cart.
func (s *Store) RemoveItem(ctx context.Context, cartItemID int64) error {
	if err := s.client.DeleteCartItem(ctx, cartItemID); err != nil {
		return s.mutationFailed(ctx, err, "Failed to remove item.")
	}
	s.notifier.Notify(notify.Success, "Item removed from cart.")
	s.Fetch(ctx)
	return nil
}

// ApplyDiscountCode submits a discount code. Codes are uppercased before
// submission. Rejection leaves the cart state untouched and surfaces the
// server's reason.
func (s *Store) ApplyDiscountCode(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		s.notifier.Notify(notify.Error, "Enter a discount code.")
		return errors.New("empty discount code")
	}

	msg, err := s.client.ApplyDiscountCode(ctx, code)
	if err != nil {
		return s.mutationFailed(ctx, err, "Invalid discount code.")
	}
	s.notifier.Notify(notify.Success, orDefault(msg, "Discount applied."))
	s.Fetch(ctx)
	return nil
}

func (s *Store) mutationFailed(ctx context.Context, err error, fallback string) error {
	if errors.Is(err, restoapi.ErrUnauthorized) {
		s.sessionExpired(ctx)
		s.reset(0)
		return err
	}
	s.notifier.Notify(notify.Error, restoapi.ErrorMessage(err, fallback))
	return err
}

// sessionExpired discards the stale token and sends the user to log in again.
func (s *Store) sessionExpired(ctx context.Context) {
	if err := s.session.Clear(); err != nil {
		zctx.From(ctx).Warn("Clear session", zap.Error(err))
	}
	s.notifier.Notify(notify.Error, "Your session has expired. Please log in again.")
	s.navigate(loginPath)
}

// apply installs a fetch result unless a newer fetch has started since.
func (s *Store) apply(gen uint64, items []restoapi.CartItem, total money.Price) {
	s.mu.Lock()
	if gen != 0 && gen != s.fetchGen {
		s.mu.Unlock()
		return
	}
	s.items = items
	s.total = total
	s.loading = false
	s.mu.Unlock()
	s.signal()
}

func (s *Store) reset(gen uint64) {
	s.apply(gen, nil, money.Zero)
}

func (s *Store) signal() {
	s.mu.RLock()
	subs := make([]chan struct{}, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func orDefault(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
