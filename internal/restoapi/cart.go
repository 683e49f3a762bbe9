package restoapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/nadasobeh22/RestoManage/pkg/money"
)

// CartItem is one line entry in the authenticated user's cart. The food
// name, price and image are server-side snapshots of the referenced food.
type CartItem struct {
	ID        int64
	FoodID    int64
	FoodName  string
	FoodPrice money.Price
	FoodImage string
	Quantity  int
}

// Cart is the server's current cart state: the item list plus the
// authoritative total (which reflects any applied discount code).
type Cart struct {
	Items      []CartItem
	TotalPrice money.Price
}

// ShowCart fetches the current cart. GET /api/cart/showCart, auth required.
func (c *Client) ShowCart(ctx context.Context) (*Cart, error) {
	env, err := c.get(ctx, "/api/cart/showCart", nil)
	if err != nil {
		return nil, err
	}

	cart := &Cart{TotalPrice: money.Zero}
	if err := decodeData(env, func(d *jx.Decoder) error {
		return d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "cart_items":
				if d.Next() != jx.Array {
					return d.Skip()
				}
				return d.Arr(func(d *jx.Decoder) error {
					item, err := decCartItem(d)
					if err != nil {
						return err
					}
					cart.Items = append(cart.Items, item)
					return nil
				})
			case "total_price":
				p, err := decPrice(d)
				if err != nil {
					return err
				}
				cart.TotalPrice = p
				return nil
			default:
				return d.Skip()
			}
		})
	}); err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}
	return cart, nil
}

// AddToCart adds quantity units of a food. POST /api/cart/addToCart, auth
// required. Returns the server's confirmation message when present.
func (c *Client) AddToCart(ctx context.Context, foodID int64, quantity int) (string, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("food_id")
	e.Int64(foodID)
	e.FieldStart("quantity")
	e.Int(quantity)
	e.ObjEnd()

	env, err := c.send(ctx, http.MethodPost, "/api/cart/addToCart", e.Bytes())
	if err != nil {
		return "", err
	}
	return env.message, nil
}

// UpdateCartItem sets the quantity of an existing cart item.
// PATCH /api/cart/updateItemCart/{id}, auth required.
func (c *Client) UpdateCartItem(ctx context.Context, cartItemID int64, quantity int) error {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("quantity")
	e.Int(quantity)
	e.ObjEnd()

	_, err := c.send(ctx, http.MethodPatch, "/api/cart/updateItemCart/"+strconv.FormatInt(cartItemID, 10), e.Bytes())
	return err
}

// DeleteCartItem removes a cart item.
// DELETE /api/cart/deleteItemCart/{id}, auth required.
func (c *Client) DeleteCartItem(ctx context.Context, cartItemID int64) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/cart/deleteItemCart/"+strconv.FormatInt(cartItemID, 10), nil, nil, "")
	return err
}

// ApplyDiscountCode applies a discount code to the cart.
// POST /api/cart/applyDiscountCode, auth required. Code validity is decided
// entirely by the server.
func (c *Client) ApplyDiscountCode(ctx context.Context, code string) (string, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("discount_code")
	e.Str(code)
	e.ObjEnd()

	env, err := c.send(ctx, http.MethodPost, "/api/cart/applyDiscountCode", e.Bytes())
	if err != nil {
		return "", err
	}
	return env.message, nil
}

func decCartItem(d *jx.Decoder) (CartItem, error) {
	var item CartItem
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "cart_item_id":
			item.ID, err = decInt64(d)
		case "food_id":
			item.FoodID, err = decInt64(d)
		case "food_name":
			item.FoodName, err = decString(d)
		case "food_price":
			item.FoodPrice, err = decPrice(d)
		case "food_image":
			item.FoodImage, err = decString(d)
		case "quantity":
			item.Quantity, err = decInt(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return item, err
}
