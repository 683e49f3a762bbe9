package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/nadasobeh22/RestoManage/internal/cache"
	"github.com/nadasobeh22/RestoManage/internal/cart"
	"github.com/nadasobeh22/RestoManage/internal/oauth"
	"github.com/nadasobeh22/RestoManage/internal/restoapi"
	"github.com/nadasobeh22/RestoManage/internal/router"
	"github.com/nadasobeh22/RestoManage/internal/session"
	"github.com/nadasobeh22/RestoManage/internal/shell"
	"github.com/nadasobeh22/RestoManage/internal/view"
	"github.com/nadasobeh22/RestoManage/pkg/health"
	"github.com/nadasobeh22/RestoManage/pkg/httpclient"
	"github.com/nadasobeh22/RestoManage/pkg/notify"
)

// Run creates all dependencies, wires the views and runs the interactive
// shell until it exits. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	return run(ctx, lg, m, cfg, os.Stdin, os.Stdout)
}

func run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config, in io.Reader, out io.Writer) error {
	lg.Info("Initializing", zap.String("api", cfg.APIBaseURL))
	ctx = zctx.Base(ctx, lg)

	sess, err := session.Open(cfg.TokenPath)
	if err != nil {
		return errors.Wrap(err, "open session store")
	}

	httpClient := &http.Client{
		Timeout: cfg.HTTP.Timeout,
		Transport: httpclient.Wrap(http.DefaultTransport,
			httpclient.RequestID(),
			httpclient.Bearer(sess),
			httpclient.InjectLogger(lg),
			httpclient.LogRequests(),
			httpclient.Instrument(m),
		),
	}
	api := restoapi.New(cfg.APIBaseURL, httpClient)

	center := notify.New(16)
	catalog := cache.New(cfg.Cache.Path, cfg.Cache.MaxAge)

	rt := router.New()
	navigate := func(path string) {
		if err := rt.Navigate(ctx, path); err != nil {
			zctx.From(ctx).Warn("Navigate", zap.String("path", path), zap.Error(err))
		}
	}

	cartStore := cart.New(api, sess, center, navigate)

	deps := view.Deps{
		API:      api,
		Session:  sess,
		Cart:     cartStore,
		Catalog:  catalog,
		Notifier: center,
		Navigate: navigate,
		Out:      out,
	}

	var google *oauth.Flow
	if cfg.Google.ClientID != "" {
		google = &oauth.Flow{
			ClientID: cfg.Google.ClientID,
			Timeout:  cfg.Google.Timeout,
			OpenURL: func(u string) error {
				_, err := fmt.Fprintf(out, "  open this link to sign in:\n  %s\n", u)
				return err
			},
		}
	}

	rater := view.NewRater(deps)
	menu := view.NewMenu(deps, rater)
	views := shell.Views{
		Home:         view.NewHome(deps),
		Menu:         menu,
		Offers:       view.NewOffers(deps, rater),
		Categories:   view.NewCategories(deps, menu),
		FoodDetail:   view.NewFoodDetail(deps),
		Cart:         view.NewCartView(deps),
		Checkout:     view.NewCheckout(deps),
		Orders:       view.NewOrders(deps),
		OrderDetails: view.NewOrderDetails(deps),
		Reservations: view.NewReservations(deps),
		Auth:         view.NewAuth(deps, google),
	}
	registerRoutes(rt, views)

	// Reachability probe behind the online/offline indicator.
	monitor := health.NewMonitor()
	monitor.AddCheck("api", cfg.Health.Timeout, func(ctx context.Context) error {
		_, err := api.Categories(ctx)
		return err
	})
	monitor.Start(ctx, cfg.Health.Interval)
	defer monitor.Stop()

	// Pick up token changes made by other processes.
	go sess.Watch(ctx, cfg.Session.PollInterval)

	sh := shell.New(in, out, rt, views, cartStore, sess, center, monitor)
	if err := sh.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "shell")
	}
	lg.Info("Bye")
	return nil
}

// registerRoutes binds the path table to the views.
func registerRoutes(rt *router.Router, views shell.Views) {
	rt.Redirect("/", "/home")
	rt.Handle("/home", func(ctx context.Context, p router.Params) error {
		return views.Home.Render(ctx)
	})
	rt.Handle("/menu", func(ctx context.Context, p router.Params) error {
		return views.Menu.Render(ctx)
	})
	rt.Handle("/offers", func(ctx context.Context, p router.Params) error {
		return views.Offers.Render(ctx)
	})
	rt.Handle("/categories", func(ctx context.Context, p router.Params) error {
		return views.Categories.Render(ctx)
	})
	rt.Handle("/food/:id", func(ctx context.Context, p router.Params) error {
		id, err := parseID(p["id"])
		if err != nil {
			return err
		}
		return views.FoodDetail.Render(ctx, id)
	})
	rt.Handle("/cart", func(ctx context.Context, p router.Params) error {
		return views.Cart.Render(ctx)
	})
	rt.Handle("/checkout", func(ctx context.Context, p router.Params) error {
		return views.Checkout.Render(ctx)
	})
	rt.Handle("/orders", func(ctx context.Context, p router.Params) error {
		return views.Orders.Render(ctx)
	})
	rt.Handle("/orders/:id", func(ctx context.Context, p router.Params) error {
		id, err := parseID(p["id"])
		if err != nil {
			return err
		}
		return views.OrderDetails.Render(ctx, id)
	})
	rt.Handle("/reservations", func(ctx context.Context, p router.Params) error {
		return views.Reservations.Render(ctx)
	})
	rt.Handle("/login", func(ctx context.Context, p router.Params) error {
		return views.Auth.RenderLogin(ctx)
	})
	rt.Handle("/register", func(ctx context.Context, p router.Params) error {
		return views.Auth.RenderRegister(ctx)
	})
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.Errorf("invalid id %q", s)
	}
	return id, nil
}
