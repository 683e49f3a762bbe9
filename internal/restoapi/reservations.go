package restoapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Reservation statuses reported by the backend.
const (
	ReservationProcessing = "processing"
	ReservationCompleted  = "completed"
	ReservationCancelled  = "cancelled"
)

// Reservation is a table booking owned by the authenticated user.
type Reservation struct {
	ID             int64
	NumPeople      int
	Time           string
	SpecialRequest string
	Status         string
}

// ReservationRequest is the create/update payload. Time must be formatted
// "YYYY-MM-DD HH:MM:SS"; SpecialRequest is omitted when empty.
type ReservationRequest struct {
	NumPeople      int
	Time           string
	SpecialRequest string
}

// Reservations fetches the user's bookings.
// GET /api/reservation/showReservation, auth required.
func (c *Client) Reservations(ctx context.Context) ([]Reservation, error) {
	env, err := c.get(ctx, "/api/reservation/showReservation", nil)
	if err != nil {
		return nil, err
	}

	var out []Reservation
	if err := decodeData(env, func(d *jx.Decoder) error {
		return d.Arr(func(d *jx.Decoder) error {
			res, err := decReservation(d)
			if err != nil {
				return err
			}
			out = append(out, res)
			return nil
		})
	}); err != nil {
		return nil, errors.Wrap(err, "decode reservations")
	}
	return out, nil
}

// CreateReservation books a table. POST /api/reservation/create, auth
// required.
func (c *Client) CreateReservation(ctx context.Context, req ReservationRequest) error {
	_, err := c.send(ctx, http.MethodPost, "/api/reservation/create", encodeReservation(req))
	return err
}

// UpdateReservation edits an existing booking.
// PATCH /api/reservation/update/{id}, auth required.
func (c *Client) UpdateReservation(ctx context.Context, id int64, req ReservationRequest) error {
	_, err := c.send(ctx, http.MethodPatch, "/api/reservation/update/"+strconv.FormatInt(id, 10), encodeReservation(req))
	return err
}

// DeleteReservation cancels a booking.
// DELETE /api/reservation/delete/{id}, auth required.
func (c *Client) DeleteReservation(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/reservation/delete/"+strconv.FormatInt(id, 10), nil, nil, "")
	return err
}

func encodeReservation(req ReservationRequest) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("num_people")
	e.Int(req.NumPeople)
	e.FieldStart("reservation_time")
	e.Str(req.Time)
	if req.SpecialRequest != "" {
		e.FieldStart("special_request")
		e.Str(req.SpecialRequest)
	}
	e.ObjEnd()
	return e.Bytes()
}

func decReservation(d *jx.Decoder) (Reservation, error) {
	var res Reservation
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "reservation_id":
			res.ID, err = decInt64(d)
		case "num_people":
			res.NumPeople, err = decInt(d)
		case "reservation_time":
			res.Time, err = decString(d)
		case "special_request":
			res.SpecialRequest, err = decString(d)
		case "status":
			res.Status, err = decString(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return res, err
}
