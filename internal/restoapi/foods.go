package restoapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/nadasobeh22/RestoManage/pkg/money"
)

// Food is a menu item as served by the catalog endpoints. Discounted foods
// additionally carry PriceAfterDiscounts and the discount percentages.
type Food struct {
	ID                  int64
	Name                string
	Description         string
	Price               money.Price
	PriceAfterDiscounts *money.Price
	AverageRating       float64
	ImageURL            string
	Discounts           []Discount
}

// Discount is one percentage reduction applied to a food, server-computed.
type Discount struct {
	Value float64
}

// DiscountedPrice returns the effective unit price: the discounted price
// when one is present, the base price otherwise.
func (f Food) DiscountedPrice() money.Price {
	if f.PriceAfterDiscounts != nil {
		return *f.PriceAfterDiscounts
	}
	return f.Price
}

// HasDiscount reports whether the effective price is below the base price.
func (f Food) HasDiscount() bool {
	return f.PriceAfterDiscounts != nil &&
		f.PriceAfterDiscounts.Amount.LessThan(f.Price.Amount)
}

// Category is a menu grouping.
type Category struct {
	ID       int64
	Name     string
	ImageURL string
}

// Meta is the pagination block attached to filtered food listings.
type Meta struct {
	CurrentPage int
	LastPage    int
	Total       int
}

// FoodPage is one page of a filtered food listing.
type FoodPage struct {
	Foods []Food
	Meta  Meta
}

// FoodFilter holds the optional listing filters. Price bounds are kept as
// the user typed them; empty fields are omitted from the query.
type FoodFilter struct {
	CategoryID string
	MinPrice   string
	MaxPrice   string
}

// FilterFoods fetches one page of foods matching the filter.
// GET /api/foods/filter.
func (c *Client) FilterFoods(ctx context.Context, filter FoodFilter, page int) (*FoodPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if filter.CategoryID != "" {
		query.Set("category_id", filter.CategoryID)
	}
	if filter.MinPrice != "" {
		query.Set("min_price", filter.MinPrice)
	}
	if filter.MaxPrice != "" {
		query.Set("max_price", filter.MaxPrice)
	}

	env, err := c.get(ctx, "/api/foods/filter", query)
	if err != nil {
		return nil, err
	}

	page0 := &FoodPage{Meta: Meta{CurrentPage: 1, LastPage: 1}}
	if err := decodeData(env, func(d *jx.Decoder) error {
		return d.Arr(func(d *jx.Decoder) error {
			food, err := decFood(d)
			if err != nil {
				return err
			}
			page0.Foods = append(page0.Foods, food)
			return nil
		})
	}); err != nil {
		return nil, errors.Wrap(err, "decode foods")
	}

	if len(env.meta) > 0 {
		if err := decMeta(jx.DecodeBytes(env.meta), &page0.Meta); err != nil {
			return nil, errors.Wrap(err, "decode meta")
		}
	}
	return page0, nil
}

// FoodDetails fetches a single food. GET /api/foods/details/{id}.
func (c *Client) FoodDetails(ctx context.Context, id int64) (*Food, error) {
	env, err := c.get(ctx, "/api/foods/details/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return nil, err
	}

	var food Food
	if err := decodeData(env, func(d *jx.Decoder) error {
		f, err := decFood(d)
		if err != nil {
			return err
		}
		food = f
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode food")
	}
	return &food, nil
}

// DiscountedFoods fetches the foods with active offers.
// GET /api/foods/discounts.
func (c *Client) DiscountedFoods(ctx context.Context) ([]Food, error) {
	env, err := c.get(ctx, "/api/foods/discounts", nil)
	if err != nil {
		return nil, err
	}

	var foods []Food
	if err := decodeData(env, func(d *jx.Decoder) error {
		return d.Arr(func(d *jx.Decoder) error {
			food, err := decFood(d)
			if err != nil {
				return err
			}
			foods = append(foods, food)
			return nil
		})
	}); err != nil {
		return nil, errors.Wrap(err, "decode discounted foods")
	}
	return foods, nil
}

// Categories fetches the category list. GET /api/categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	env, err := c.get(ctx, "/api/categories", nil)
	if err != nil {
		return nil, err
	}

	var cats []Category
	if err := decodeData(env, func(d *jx.Decoder) error {
		return d.Arr(func(d *jx.Decoder) error {
			cat, err := DecodeCategory(d)
			if err != nil {
				return err
			}
			cats = append(cats, cat)
			return nil
		})
	}); err != nil {
		return nil, errors.Wrap(err, "decode categories")
	}
	return cats, nil
}

// DecodeFood reads one food object in the backend's wire shape. Exported for
// the snapshot cache, which stores foods in the same shape.
func DecodeFood(d *jx.Decoder) (Food, error) {
	return decFood(d)
}

// DecodeCategory reads one category object in the backend's wire shape.
func DecodeCategory(d *jx.Decoder) (Category, error) {
	var cat Category
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "category_id":
			cat.ID, err = decInt64(d)
		case "name":
			cat.Name, err = decString(d)
		case "image_url":
			cat.ImageURL, err = decString(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return cat, err
}

func decFood(d *jx.Decoder) (Food, error) {
	var food Food
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "food_id":
			food.ID, err = decInt64(d)
		case "food_name":
			food.Name, err = decString(d)
		case "description":
			food.Description, err = decString(d)
		case "price":
			food.Price, err = decPrice(d)
		case "price_after_discounts":
			if d.Next() == jx.Null {
				return d.Null()
			}
			var p money.Price
			p, err = decPrice(d)
			if err == nil {
				food.PriceAfterDiscounts = &p
			}
		case "average_rating":
			food.AverageRating, err = decFloat(d)
		case "image_url":
			food.ImageURL, err = decString(d)
		case "discounts":
			if d.Next() != jx.Array {
				return d.Skip()
			}
			err = d.Arr(func(d *jx.Decoder) error {
				var disc Discount
				if err := d.Obj(func(d *jx.Decoder, key string) error {
					if key != "discount_value" {
						return d.Skip()
					}
					v, err := decPrice(d)
					if err != nil {
						return err
					}
					disc.Value = v.Amount.InexactFloat64()
					return nil
				}); err != nil {
					return err
				}
				food.Discounts = append(food.Discounts, disc)
				return nil
			})
		default:
			err = d.Skip()
		}
		return err
	})
	return food, err
}

func decMeta(d *jx.Decoder, meta *Meta) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "current_page":
			meta.CurrentPage, err = decInt(d)
		case "last_page":
			meta.LastPage, err = decInt(d)
		case "total":
			meta.Total, err = decInt(d)
		default:
			err = d.Skip()
		}
		return err
	})
}
