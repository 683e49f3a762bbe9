package view

import (
	"context"
	"strings"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nadasobeh22/RestoManage/internal/cache"
	"github.com/nadasobeh22/RestoManage/internal/restoapi"
)

// featuredCount is how many dishes the home page shows.
const featuredCount = 6

// Home is the landing page: the category strip plus the first few dishes.
// Both lists load concurrently; when a catalog snapshot exists it paints
// first so startup never shows an empty page while the network is slow.
type Home struct {
	deps Deps
}

// NewHome creates the home view.
func NewHome(deps Deps) *Home {
	return &Home{deps: deps}
}

// Render paints the cached snapshot if one exists, then fetches live data
// and repaints. A failed live fetch leaves the cached paint in place.
func (h *Home) Render(ctx context.Context) error {
	painted := h.renderCached(ctx)

	var foods []restoapi.Food
	var cats []restoapi.Category

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := h.deps.API.FilterFoods(gctx, restoapi.FoodFilter{}, 1)
		if err != nil {
			return err
		}
		foods = page.Foods
		return nil
	})
	g.Go(func() error {
		var err error
		cats, err = h.deps.API.Categories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		zctx.From(ctx).Warn("Fetch home", zap.Error(err))
		if !painted {
			h.deps.println("Welcome to RestoManage")
			h.deps.println("  could not load the menu, please try again")
		}
		return nil
	}

	h.paint(foods, cats)
	h.saveSnapshot(ctx, foods, cats)
	return nil
}

func (h *Home) renderCached(ctx context.Context) bool {
	if h.deps.Catalog == nil {
		return false
	}
	snap, ok, err := h.deps.Catalog.Load()
	if err != nil {
		zctx.From(ctx).Warn("Load catalog snapshot", zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	h.paint(snap.Foods, snap.Categories)
	return true
}

func (h *Home) saveSnapshot(ctx context.Context, foods []restoapi.Food, cats []restoapi.Category) {
	if h.deps.Catalog == nil {
		return
	}
	err := h.deps.Catalog.Save(cache.Snapshot{Foods: foods, Categories: cats})
	if err != nil {
		zctx.From(ctx).Warn("Save catalog snapshot", zap.Error(err))
	}
}

func (h *Home) paint(foods []restoapi.Food, cats []restoapi.Category) {
	h.deps.println("Welcome to RestoManage")

	if len(cats) > 0 {
		names := make([]string, 0, len(cats))
		for _, c := range cats {
			names = append(names, c.Name)
		}
		h.deps.printf("  categories: %s\n", strings.Join(names, ", "))
	}

	if len(foods) > featuredCount {
		foods = foods[:featuredCount]
	}
	if len(foods) == 0 {
		h.deps.println("  the menu is empty")
		return
	}
	h.deps.println("  featured dishes:")
	for i, f := range foods {
		h.deps.printf("  %2d. %-28s %-14s %s\n", i+1, f.Name, priceLine(f), stars(f.AverageRating))
	}
}
