package restoapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/nadasobeh22/RestoManage/pkg/money"
)

// Order statuses reported by the backend.
const (
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Payment statuses reported by the backend.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// OrderSummary is one row of the user's order history.
type OrderSummary struct {
	ID            int64
	Status        string
	PaymentStatus string
	Total         money.Price
	CreatedAt     time.Time
}

// OrderItem is one line of a placed order with its pricing before and after
// discounts.
type OrderItem struct {
	ID                  int64
	FoodName            string
	FoodImage           string
	Quantity            int
	Price               money.Price
	PriceAfterDiscounts money.Price
}

// ShippingDetails is the checkout form payload.
type ShippingDetails struct {
	Address     string
	Country     string
	Town        string
	ZipCode     string
	PhoneNumber string
}

// CreateOrder places an order from the current cart and returns the payment
// provider's approval URL. POST /api/order/create, auth required.
func (c *Client) CreateOrder(ctx context.Context, shipping ShippingDetails) (string, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("address")
	e.Str(shipping.Address)
	e.FieldStart("country")
	e.Str(shipping.Country)
	e.FieldStart("town")
	e.Str(shipping.Town)
	e.FieldStart("zipCode")
	e.Str(shipping.ZipCode)
	e.FieldStart("phone_number")
	e.Str(shipping.PhoneNumber)
	e.ObjEnd()

	env, err := c.send(ctx, http.MethodPost, "/api/order/create", e.Bytes())
	if err != nil {
		return "", err
	}
	return decApproveURL(env)
}

// MyOrders fetches the user's order history. GET /api/order/myOrders, auth
// required.
func (c *Client) MyOrders(ctx context.Context) ([]OrderSummary, error) {
	env, err := c.get(ctx, "/api/order/myOrders", nil)
	if err != nil {
		return nil, err
	}

	var orders []OrderSummary
	if err := decodeData(env, func(d *jx.Decoder) error {
		return d.Arr(func(d *jx.Decoder) error {
			var o OrderSummary
			if err := d.Obj(func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "order_id":
					o.ID, err = decInt64(d)
				case "order_status":
					o.Status, err = decString(d)
				case "payment_status":
					o.PaymentStatus, err = decString(d)
				case "price_after_discounts":
					o.Total, err = decPrice(d)
				case "created_at":
					o.CreatedAt, err = decTime(d)
				default:
					err = d.Skip()
				}
				return err
			}); err != nil {
				return err
			}
			orders = append(orders, o)
			return nil
		})
	}); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return orders, nil
}

// MyOrderDetails fetches the line items of one order.
// GET /api/order/myOrderDetails/{id}, auth required.
func (c *Client) MyOrderDetails(ctx context.Context, orderID int64) ([]OrderItem, error) {
	env, err := c.get(ctx, "/api/order/myOrderDetails/"+strconv.FormatInt(orderID, 10), nil)
	if err != nil {
		return nil, err
	}

	var items []OrderItem
	if err := decodeData(env, func(d *jx.Decoder) error {
		return d.Arr(func(d *jx.Decoder) error {
			item, err := decOrderItem(d)
			if err != nil {
				return err
			}
			items = append(items, item)
			return nil
		})
	}); err != nil {
		return nil, errors.Wrap(err, "decode order items")
	}
	return items, nil
}

// RetryPayment requests a fresh approval URL for an unpaid order.
// POST /api/order/retry-payment/{id}, auth required.
func (c *Client) RetryPayment(ctx context.Context, orderID int64) (string, error) {
	env, err := c.send(ctx, http.MethodPost, "/api/order/retry-payment/"+strconv.FormatInt(orderID, 10), nil)
	if err != nil {
		return "", err
	}
	return decApproveURL(env)
}

func decApproveURL(env *envelope) (string, error) {
	var approveURL string
	if err := decodeData(env, func(d *jx.Decoder) error {
		return d.Obj(func(d *jx.Decoder, key string) error {
			if key != "approve_url" {
				return d.Skip()
			}
			u, err := decString(d)
			if err != nil {
				return err
			}
			approveURL = u
			return nil
		})
	}); err != nil {
		return "", errors.Wrap(err, "decode approve URL")
	}
	if approveURL == "" {
		return "", &APIError{Message: orDefault(env.message, "failed to initiate payment")}
	}
	return approveURL, nil
}

func decOrderItem(d *jx.Decoder) (OrderItem, error) {
	var item OrderItem
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "order_item_id":
			item.ID, err = decInt64(d)
		case "quantity":
			item.Quantity, err = decInt(d)
		case "price":
			item.Price, err = decPrice(d)
		case "price_after_discounts":
			item.PriceAfterDiscounts, err = decPrice(d)
		case "food":
			err = d.Obj(func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "name":
					item.FoodName, err = decString(d)
				case "image_url":
					item.FoodImage, err = decString(d)
				default:
					err = d.Skip()
				}
				return err
			})
		default:
			err = d.Skip()
		}
		return err
	})
	return item, err
}
