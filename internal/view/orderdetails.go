package view

import (
	"context"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/nadasobeh22/RestoManage/internal/restoapi"
)

func orderPath(id int64) string {
	return "/orders/" + strconv.FormatInt(id, 10)
}

// OrderDetails shows the line items of one placed order with pricing before
// and after discounts.
type OrderDetails struct {
	deps Deps
}

// NewOrderDetails creates the order details view.
func NewOrderDetails(deps Deps) *OrderDetails {
	return &OrderDetails{deps: deps}
}

// Render fetches and prints one order's items.
func (v *OrderDetails) Render(ctx context.Context, orderID int64) error {
	if !v.deps.requireLogin("Please log in to see your orders.") {
		return nil
	}

	items, err := v.deps.API.MyOrderDetails(ctx, orderID)
	if err != nil {
		if errors.Is(err, restoapi.ErrUnauthorized) {
			v.deps.sessionExpired(ctx)
			return nil
		}
		zctx.From(ctx).Warn("Fetch order details", zap.Int64("order_id", orderID), zap.Error(err))
		v.deps.println("  could not load this order, please try again")
		return nil
	}

	v.deps.printf("Order #%d\n", orderID)
	if len(items) == 0 {
		v.deps.println("  this order has no items")
		return nil
	}
	for i, item := range items {
		v.deps.printf("  %2d. %-28s x%-3d %s", i+1, item.FoodName, item.Quantity, item.Price.Display)
		if discounted(item) {
			v.deps.printf(" -> %s", item.PriceAfterDiscounts.Display)
		}
		v.deps.println("")
	}
	return nil
}

// discounted reports whether the item was cheaper than its base price.
func discounted(item restoapi.OrderItem) bool {
	return !item.PriceAfterDiscounts.Amount.IsZero() &&
		item.PriceAfterDiscounts.Amount.LessThan(item.Price.Amount)
}
