package view

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/nadasobeh22/RestoManage/internal/restoapi"
	"github.com/nadasobeh22/RestoManage/pkg/notify"
)

// FoodDetail shows one dish with a quantity stepper, add-to-cart and review
// submission.
type FoodDetail struct {
	deps Deps

	food     *restoapi.Food
	quantity int
}

// NewFoodDetail creates the food detail view.
func NewFoodDetail(deps Deps) *FoodDetail {
	return &FoodDetail{deps: deps, quantity: 1}
}

// Render fetches and prints the dish. Each visit resets the stepper to one.
func (v *FoodDetail) Render(ctx context.Context, id int64) error {
	food, err := v.deps.API.FoodDetails(ctx, id)
	if err != nil {
		zctx.From(ctx).Warn("Fetch food", zap.Int64("food_id", id), zap.Error(err))
		v.food = nil
		v.deps.println("  could not load this dish, please try again")
		return nil
	}
	v.food = food
	v.quantity = 1
	v.paint()
	return nil
}

// Quantity returns the stepper value.
func (v *FoodDetail) Quantity() int { return v.quantity }

// Increment raises the stepper.
func (v *FoodDetail) Increment() { v.quantity++ }

// Decrement lowers the stepper, never below one.
func (v *FoodDetail) Decrement() {
	if v.quantity > 1 {
		v.quantity--
	}
}

// AddToCart adds the stepper quantity of the current dish.
func (v *FoodDetail) AddToCart(ctx context.Context) error {
	if v.food == nil {
		return errors.New("no dish loaded")
	}
	return v.deps.Cart.AddItem(ctx, v.food.ID, v.quantity)
}

// SubmitReview sends a rating (1-5 required) with an optional comment, then
// refetches the dish so the shown average reflects it.
func (v *FoodDetail) SubmitReview(ctx context.Context, rating int, comment string) error {
	if v.food == nil {
		return errors.New("no dish loaded")
	}
	if !v.deps.requireLogin("Please log in to leave a review.") {
		return errors.New("login required")
	}
	if rating < 1 || rating > 5 {
		v.deps.Notifier.Notify(notify.Error, "Rating must be between 1 and 5.")
		return errors.Errorf("rating %d out of range", rating)
	}

	id := v.food.ID
	msg, err := v.deps.API.AddReview(ctx, id, rating, comment)
	if err != nil {
		v.deps.Notifier.Notify(notify.Error, restoapi.ErrorMessage(err, "Failed to submit review."))
		return err
	}
	if msg == "" {
		msg = "Review submitted."
	}
	v.deps.Notifier.Notify(notify.Success, msg)
	return v.Render(ctx, id)
}

func (v *FoodDetail) paint() {
	f := v.food
	v.deps.printf("%s\n", f.Name)
	if f.Description != "" {
		v.deps.printf("  %s\n", f.Description)
	}
	v.deps.printf("  price: %s\n", priceLine(*f))
	v.deps.printf("  rating: %s (%.1f)\n", stars(f.AverageRating), f.AverageRating)
	v.deps.printf("  quantity: %d\n", v.quantity)
}
