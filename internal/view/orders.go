package view

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/nadasobeh22/RestoManage/internal/restoapi"
	"github.com/nadasobeh22/RestoManage/pkg/notify"
)

// Orders is the order history: status per order and payment retry for
// anything still unpaid.
type Orders struct {
	deps Deps

	orders []restoapi.OrderSummary
}

// NewOrders creates the orders view.
func NewOrders(deps Deps) *Orders {
	return &Orders{deps: deps}
}

// Render fetches and prints the order history.
func (v *Orders) Render(ctx context.Context) error {
	if !v.deps.requireLogin("Please log in to see your orders.") {
		return nil
	}

	orders, err := v.deps.API.MyOrders(ctx)
	if err != nil {
		if errors.Is(err, restoapi.ErrUnauthorized) {
			v.deps.sessionExpired(ctx)
			return nil
		}
		zctx.From(ctx).Warn("Fetch orders", zap.Error(err))
		v.orders = nil
		v.deps.println("Orders")
		v.deps.println("  could not load your orders, please try again")
		return nil
	}
	v.orders = orders

	v.deps.println("Orders")
	if len(orders) == 0 {
		v.deps.println("  you have no orders yet")
		return nil
	}
	for i, o := range orders {
		v.deps.printf("  %2d. #%-6d %-12s payment: %-8s %-12s %s\n",
			i+1, o.ID, o.Status, o.PaymentStatus, o.Total.Display,
			o.CreatedAt.Format("2006-01-02 15:04"))
		if o.PaymentStatus != restoapi.PaymentPaid {
			v.deps.println("      payment incomplete, use retry to get a new payment link")
		}
	}
	return nil
}

// Details navigates to the order at the given position.
func (v *Orders) Details(position int) error {
	o, ok := v.orderAt(position)
	if !ok {
		return errPosition(position)
	}
	v.deps.Navigate(orderPath(o.ID))
	return nil
}

// RetryPayment requests a fresh payment link for the order at the given
// position. Orders already paid are refused locally.
func (v *Orders) RetryPayment(ctx context.Context, position int) error {
	o, ok := v.orderAt(position)
	if !ok {
		return errPosition(position)
	}
	if o.PaymentStatus == restoapi.PaymentPaid {
		v.deps.Notifier.Notify(notify.Info, "This order is already paid.")
		return nil
	}

	approveURL, err := v.deps.API.RetryPayment(ctx, o.ID)
	if err != nil {
		if errors.Is(err, restoapi.ErrUnauthorized) {
			v.deps.sessionExpired(ctx)
			return err
		}
		v.deps.Notifier.Notify(notify.Error, restoapi.ErrorMessage(err, "Failed to restart the payment."))
		return err
	}

	v.deps.printf("  pay here: %s\n", approveURL)
	if qr, err := qrcode.New(approveURL, qrcode.Medium); err == nil {
		v.deps.println(qr.ToSmallString(false))
	}
	return nil
}

func (v *Orders) orderAt(position int) (restoapi.OrderSummary, bool) {
	if position < 1 || position > len(v.orders) {
		return restoapi.OrderSummary{}, false
	}
	return v.orders[position-1], true
}
