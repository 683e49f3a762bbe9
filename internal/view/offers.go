package view

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/nadasobeh22/RestoManage/internal/restoapi"
)

// Offers lists the foods with active discounts, showing the percentage off
// and the discounted price. Rating works the same optimistic way as on the
// menu.
type Offers struct {
	deps  Deps
	rater *Rater

	foods []restoapi.Food
}

// NewOffers creates the offers view.
func NewOffers(deps Deps, rater *Rater) *Offers {
	return &Offers{deps: deps, rater: rater}
}

// Render fetches and prints the discounted foods.
func (o *Offers) Render(ctx context.Context) error {
	foods, err := o.deps.API.DiscountedFoods(ctx)
	if err != nil {
		zctx.From(ctx).Warn("Fetch offers", zap.Error(err))
		o.foods = nil
		o.deps.println("Offers")
		o.deps.println("  could not load offers, please try again")
		return nil
	}
	o.foods = foods

	o.deps.println("Offers")
	if len(foods) == 0 {
		o.deps.println("  no offers right now")
		return nil
	}
	for i, f := range foods {
		rating := o.rater.Value(f.ID, f.AverageRating)
		o.deps.printf("  %2d. %-28s %s  %s", i+1, f.Name, priceLine(f), stars(rating))
		if len(f.Discounts) > 0 {
			o.deps.printf("  -%.0f%%", f.Discounts[0].Value)
		}
		o.deps.println("")
	}
	return nil
}

// QuickAdd adds one unit of the offer at the given position.
func (o *Offers) QuickAdd(ctx context.Context, position int) error {
	if position < 1 || position > len(o.foods) {
		return errPosition(position)
	}
	return o.deps.Cart.AddItem(ctx, o.foods[position-1].ID, 1)
}

// QuickRate applies an optimistic rating to the offer at the given position.
func (o *Offers) QuickRate(ctx context.Context, position, rating int) error {
	if position < 1 || position > len(o.foods) {
		return errPosition(position)
	}
	f := o.foods[position-1]
	prior := o.rater.Value(f.ID, f.AverageRating)
	return o.rater.Rate(ctx, f.ID, prior, rating)
}
