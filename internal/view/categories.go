package view

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/nadasobeh22/RestoManage/internal/restoapi"
)

// Categories lists the menu groupings; picking one jumps into the menu with
// that category filter applied.
type Categories struct {
	deps Deps
	menu *Menu

	cats []restoapi.Category
}

// NewCategories creates the categories view.
func NewCategories(deps Deps, menu *Menu) *Categories {
	return &Categories{deps: deps, menu: menu}
}

// Render fetches and prints the categories.
func (c *Categories) Render(ctx context.Context) error {
	cats, err := c.deps.API.Categories(ctx)
	if err != nil {
		zctx.From(ctx).Warn("Fetch categories", zap.Error(err))
		c.cats = nil
		c.deps.println("Categories")
		c.deps.println("  could not load categories, please try again")
		return nil
	}
	c.cats = cats

	c.deps.println("Categories")
	if len(cats) == 0 {
		c.deps.println("  no categories yet")
		return nil
	}
	for i, cat := range cats {
		c.deps.printf("  %2d. %s\n", i+1, cat.Name)
	}
	return nil
}

// Browse opens the menu filtered to the category at the given position.
func (c *Categories) Browse(ctx context.Context, position int) error {
	if position < 1 || position > len(c.cats) {
		return errPosition(position)
	}
	c.menu.FilterByCategory(c.cats[position-1].ID)
	c.deps.Navigate("/menu")
	return nil
}
