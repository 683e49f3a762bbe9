package view

import (
	"context"

	"github.com/shopspring/decimal"
)

// discountEpsilon: the discount row only appears when the saving is a real
// amount, not decimal noise.
var discountEpsilon = decimal.RequireFromString("0.01")

// CartView renders the cart with its line items, quantity controls, coupon
// entry and totals summary.
type CartView struct {
	deps Deps
}

// NewCartView creates the cart view.
func NewCartView(deps Deps) *CartView {
	return &CartView{deps: deps}
}

// Render refreshes the cart from the server and prints it.
func (v *CartView) Render(ctx context.Context) error {
	v.deps.Cart.Fetch(ctx)
	v.paint()
	return nil
}

// Increment raises the quantity of the line at the given position by one.
func (v *CartView) Increment(ctx context.Context, position int) error {
	state := v.deps.Cart.State()
	if position < 1 || position > len(state.Items) {
		return errPosition(position)
	}
	item := state.Items[position-1]
	if err := v.deps.Cart.UpdateQuantity(ctx, item.ID, item.Quantity+1); err != nil {
		return err
	}
	v.paint()
	return nil
}

// Decrement lowers the quantity of the line at the given position by one;
// at one unit the line is removed instead.
func (v *CartView) Decrement(ctx context.Context, position int) error {
	state := v.deps.Cart.State()
	if position < 1 || position > len(state.Items) {
		return errPosition(position)
	}
	item := state.Items[position-1]
	if err := v.deps.Cart.UpdateQuantity(ctx, item.ID, item.Quantity-1); err != nil {
		return err
	}
	v.paint()
	return nil
}

// Remove deletes the line at the given position.
func (v *CartView) Remove(ctx context.Context, position int) error {
	state := v.deps.Cart.State()
	if position < 1 || position > len(state.Items) {
		return errPosition(position)
	}
	if err := v.deps.Cart.RemoveItem(ctx, state.Items[position-1].ID); err != nil {
		return err
	}
	v.paint()
	return nil
}

// ApplyCoupon submits a discount code through the cart store.
func (v *CartView) ApplyCoupon(ctx context.Context, code string) error {
	if err := v.deps.Cart.ApplyDiscountCode(ctx, code); err != nil {
		return err
	}
	v.paint()
	return nil
}

func (v *CartView) paint() {
	state := v.deps.Cart.State()

	v.deps.println("Your cart")
	if state.ItemCount() == 0 {
		v.deps.println("  your cart is empty")
		return
	}

	for i, item := range state.Items {
		v.deps.printf("  %2d. %-28s x%-3d %-10s = %s\n",
			i+1, item.FoodName, item.Quantity, item.FoodPrice.Display,
			formatAmount(item.FoodPrice.Mul(item.Quantity)))
	}

	subtotal := state.Subtotal()
	v.deps.printf("  subtotal: %s\n", formatAmount(subtotal))

	// The server total already includes any applied discount code.
	if saving := subtotal.Sub(state.Total.Amount); saving.GreaterThan(discountEpsilon) {
		v.deps.printf("  discount: -%s\n", formatAmount(saving))
	}
	v.deps.printf("  total:    %s\n", state.Total.Display)
}
