// Package shell is the interactive front of the storefront: it reads
// commands from the terminal, maps them onto the router and the views, and
// prints notifications and the online/offline indicator between commands.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/nadasobeh22/RestoManage/internal/cart"
	"github.com/nadasobeh22/RestoManage/internal/router"
	"github.com/nadasobeh22/RestoManage/internal/session"
	"github.com/nadasobeh22/RestoManage/internal/view"
	"github.com/nadasobeh22/RestoManage/pkg/health"
	"github.com/nadasobeh22/RestoManage/pkg/notify"
)

// Views bundles every page the shell can drive.
type Views struct {
	Home         *view.Home
	Menu         *view.Menu
	Offers       *view.Offers
	Categories   *view.Categories
	FoodDetail   *view.FoodDetail
	Cart         *view.CartView
	Checkout     *view.Checkout
	Orders       *view.Orders
	OrderDetails *view.OrderDetails
	Reservations *view.Reservations
	Auth         *view.Auth
}

// Shell runs the command loop.
type Shell struct {
	in      io.Reader
	out     io.Writer
	router  *router.Router
	views   Views
	cart    *cart.Store
	session *session.Store
	center  *notify.Center
	monitor *health.Monitor

	messages <-chan notify.Message
}

// New creates a Shell. monitor may be nil when reachability probing is
// disabled.
func New(in io.Reader, out io.Writer, rt *router.Router, views Views, cartStore *cart.Store, sess *session.Store, center *notify.Center, monitor *health.Monitor) *Shell {
	return &Shell{
		in:       in,
		out:      out,
		router:   rt,
		views:    views,
		cart:     cartStore,
		session:  sess,
		center:   center,
		monitor:  monitor,
		messages: center.Subscribe(),
	}
}

// Run executes the command loop until EOF, "quit" or context cancellation.
// The session watcher's change signals refresh the cart, mirroring cross-tab
// token changes.
func (s *Shell) Run(ctx context.Context) error {
	go s.watchSession(ctx)

	s.cart.Fetch(ctx)
	if err := s.router.Navigate(ctx, "/"); err != nil {
		return errors.Wrap(err, "render initial page")
	}
	s.drainNotifications()

	scanner := bufio.NewScanner(s.in)
	for {
		s.prompt()
		if !scanner.Scan() {
			return scanner.Err()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}

		if err := s.dispatch(ctx, line); err != nil {
			zctx.From(ctx).Debug("Command failed", zap.String("line", line), zap.Error(err))
			fmt.Fprintf(s.out, "  %s\n", commandError(err))
		}
		s.drainNotifications()
	}
}

func (s *Shell) watchSession(ctx context.Context) {
	changes := s.session.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			s.cart.Fetch(ctx)
		}
	}
}

func (s *Shell) prompt() {
	indicator := ""
	if s.monitor != nil && !s.monitor.Healthy() {
		indicator = " [offline]"
	}
	loc := s.router.Current()
	if loc == "" {
		loc = "/"
	}
	fmt.Fprintf(s.out, "%s%s (%d in cart)> ", loc, indicator, s.cart.State().ItemCount())
}

func (s *Shell) drainNotifications() {
	for {
		select {
		case msg := <-s.messages:
			fmt.Fprintf(s.out, "  %s %s\n", levelMark(msg.Level), msg.Text)
		default:
			return
		}
	}
}

func levelMark(l notify.Level) string {
	switch l {
	case notify.Pending:
		return "..."
	case notify.Success:
		return "ok:"
	case notify.Error:
		return "err:"
	default:
		return "-"
	}
}

// commandError keeps user-facing failures short; details go to the debug log.
func commandError(err error) string {
	if errors.Is(err, router.ErrNotFound) {
		return "no such page, try: home menu offers categories cart orders reservations"
	}
	return err.Error()
}
