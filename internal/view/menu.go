package view

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/nadasobeh22/RestoManage/internal/restoapi"
)

// Menu is the paginated food listing with category and price filters. Filter
// edits are staged locally and only hit the server on Apply; Reset clears
// both the staged and the applied filters.
type Menu struct {
	deps  Deps
	rater *Rater

	staged  restoapi.FoodFilter
	applied restoapi.FoodFilter
	page    int

	foods []restoapi.Food
	meta  restoapi.Meta
}

// NewMenu creates the menu view.
func NewMenu(deps Deps, rater *Rater) *Menu {
	return &Menu{deps: deps, rater: rater, page: 1, meta: restoapi.Meta{CurrentPage: 1, LastPage: 1}}
}

// SetCategory stages a category filter without fetching.
func (m *Menu) SetCategory(id string) { m.staged.CategoryID = id }

// SetMinPrice stages a minimum price filter as typed.
func (m *Menu) SetMinPrice(v string) { m.staged.MinPrice = v }

// SetMaxPrice stages a maximum price filter as typed.
func (m *Menu) SetMaxPrice(v string) { m.staged.MaxPrice = v }

// Apply promotes the staged filters, returns to the first page and fetches.
func (m *Menu) Apply(ctx context.Context) error {
	m.applied = m.staged
	m.page = 1
	return m.Render(ctx)
}

// Reset clears staged and applied filters, returns to the first page and
// fetches.
func (m *Menu) Reset(ctx context.Context) error {
	m.staged = restoapi.FoodFilter{}
	m.applied = restoapi.FoodFilter{}
	m.page = 1
	return m.Render(ctx)
}

// FilterByCategory replaces the filters with a single category and returns
// to the first page without fetching. The categories view uses it right
// before navigating here.
func (m *Menu) FilterByCategory(categoryID int64) {
	m.staged = restoapi.FoodFilter{CategoryID: strconv.FormatInt(categoryID, 10)}
	m.applied = m.staged
	m.page = 1
}

// GoToPage navigates to page n. Requests outside [1, lastPage] are no-ops.
func (m *Menu) GoToPage(ctx context.Context, n int) error {
	if n < 1 || n > m.meta.LastPage {
		return nil
	}
	m.page = n
	return m.Render(ctx)
}

// NextPage advances one page when possible.
func (m *Menu) NextPage(ctx context.Context) error { return m.GoToPage(ctx, m.page+1) }

// PrevPage goes back one page when possible.
func (m *Menu) PrevPage(ctx context.Context) error { return m.GoToPage(ctx, m.page-1) }

// QuickAdd adds one unit of the food at the given listing position.
func (m *Menu) QuickAdd(ctx context.Context, position int) error {
	f, ok := m.foodAt(position)
	if !ok {
		return errPosition(position)
	}
	return m.deps.Cart.AddItem(ctx, f.ID, 1)
}

// QuickRate applies an optimistic rating to the food at the given position.
func (m *Menu) QuickRate(ctx context.Context, position, rating int) error {
	f, ok := m.foodAt(position)
	if !ok {
		return errPosition(position)
	}
	prior := m.rater.Value(f.ID, f.AverageRating)
	return m.rater.Rate(ctx, f.ID, prior, rating)
}

// Render fetches the current page with the applied filters and prints it.
// Fetch failures render an empty listing with an error note rather than
// propagating.
func (m *Menu) Render(ctx context.Context) error {
	page, err := m.deps.API.FilterFoods(ctx, m.applied, m.page)
	if err != nil {
		zctx.From(ctx).Warn("Fetch menu", zap.Error(err))
		// Nothing is displayed, so there is nothing to page through.
		m.foods = nil
		m.meta = restoapi.Meta{CurrentPage: 1, LastPage: 1}
		m.page = 1
		m.deps.println("Menu")
		m.deps.println("  could not load the menu, please try again")
		return nil
	}
	m.foods = page.Foods
	m.meta = page.Meta
	if m.meta.LastPage < 1 {
		m.meta.LastPage = 1
	}
	m.page = m.meta.CurrentPage

	m.deps.println("Menu")
	if f := describeFilter(m.applied); f != "" {
		m.deps.printf("  filters: %s\n", f)
	}
	if len(m.foods) == 0 {
		m.deps.println("  no dishes match your filters")
		return nil
	}
	for i, f := range m.foods {
		rating := m.rater.Value(f.ID, f.AverageRating)
		m.deps.printf("  %2d. %-28s %-14s %s\n", i+1, f.Name, priceLine(f), stars(rating))
	}
	m.deps.printf("  page %d of %d (%d dishes)\n", m.meta.CurrentPage, m.meta.LastPage, m.meta.Total)
	return nil
}

func (m *Menu) foodAt(position int) (restoapi.Food, bool) {
	if position < 1 || position > len(m.foods) {
		return restoapi.Food{}, false
	}
	return m.foods[position-1], true
}

func describeFilter(f restoapi.FoodFilter) string {
	var parts []string
	if f.CategoryID != "" {
		parts = append(parts, "category "+f.CategoryID)
	}
	if f.MinPrice != "" {
		parts = append(parts, "min "+f.MinPrice)
	}
	if f.MaxPrice != "" {
		parts = append(parts, "max "+f.MaxPrice)
	}
	return strings.Join(parts, ", ")
}
