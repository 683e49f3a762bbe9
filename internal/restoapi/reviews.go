package restoapi

import (
	"context"

	"github.com/go-faster/jx"
)

// AddReview submits a rating (1-5) with an optional comment for a food.
// POST /api/review/addReviews, auth required. Returns the server's
// confirmation message when it sent one.
func (c *Client) AddReview(ctx context.Context, foodID int64, rating int, comment string) (string, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("food_id")
	e.Int64(foodID)
	e.FieldStart("rating")
	e.Int(rating)
	if comment != "" {
		e.FieldStart("comment")
		e.Str(comment)
	}
	e.ObjEnd()

	env, err := c.send(ctx, "POST", "/api/review/addReviews", e.Bytes())
	if err != nil {
		return "", err
	}
	return env.message, nil
}
