package view

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/nadasobeh22/RestoManage/internal/restoapi"
	"github.com/nadasobeh22/RestoManage/pkg/notify"
)

// Party size bounds enforced before any request is made.
const (
	minPartySize = 1
	maxPartySize = 20
)

// reservationTimeLayout is the backend's expected timestamp format.
const reservationTimeLayout = "2006-01-02 15:04:05"

// Reservations manages the user's table bookings: list, create, edit and
// cancel, with client-side validation ahead of every request.
type Reservations struct {
	deps Deps

	list []restoapi.Reservation
}

// NewReservations creates the reservations view.
func NewReservations(deps Deps) *Reservations {
	return &Reservations{deps: deps}
}

// Render fetches and prints the bookings.
func (v *Reservations) Render(ctx context.Context) error {
	if !v.deps.requireLogin("Please log in to manage reservations.") {
		return nil
	}

	list, err := v.deps.API.Reservations(ctx)
	if err != nil {
		if errors.Is(err, restoapi.ErrUnauthorized) {
			v.deps.sessionExpired(ctx)
			return nil
		}
		zctx.From(ctx).Warn("Fetch reservations", zap.Error(err))
		v.list = nil
		v.deps.println("Reservations")
		v.deps.println("  could not load your reservations, please try again")
		return nil
	}
	v.list = list

	v.deps.println("Reservations")
	if len(list) == 0 {
		v.deps.println("  you have no reservations")
		return nil
	}
	for i, r := range list {
		v.deps.printf("  %2d. %s, party of %d, %s", i+1, r.Time, r.NumPeople, r.Status)
		if r.SpecialRequest != "" {
			v.deps.printf(" (%s)", r.SpecialRequest)
		}
		v.deps.println("")
	}
	return nil
}

// Create books a table after validating the party size and time locally.
func (v *Reservations) Create(ctx context.Context, people int, when, specialRequest string) error {
	if !v.deps.requireLogin("Please log in to manage reservations.") {
		return errors.New("login required")
	}
	req, err := v.buildRequest(people, when, specialRequest)
	if err != nil {
		return err
	}

	if err := v.deps.API.CreateReservation(ctx, req); err != nil {
		return v.requestFailed(ctx, err, "Failed to create the reservation.")
	}
	v.deps.Notifier.Notify(notify.Success, "Reservation created.")
	return v.Render(ctx)
}

// Update edits the booking at the given listing position.
func (v *Reservations) Update(ctx context.Context, position, people int, when, specialRequest string) error {
	r, ok := v.at(position)
	if !ok {
		return errPosition(position)
	}
	req, err := v.buildRequest(people, when, specialRequest)
	if err != nil {
		return err
	}

	if err := v.deps.API.UpdateReservation(ctx, r.ID, req); err != nil {
		return v.requestFailed(ctx, err, "Failed to update the reservation.")
	}
	v.deps.Notifier.Notify(notify.Success, "Reservation updated.")
	return v.Render(ctx)
}

// Cancel deletes the booking at the given listing position.
func (v *Reservations) Cancel(ctx context.Context, position int) error {
	r, ok := v.at(position)
	if !ok {
		return errPosition(position)
	}

	if err := v.deps.API.DeleteReservation(ctx, r.ID); err != nil {
		return v.requestFailed(ctx, err, "Failed to cancel the reservation.")
	}
	v.deps.Notifier.Notify(notify.Success, "Reservation cancelled.")
	return v.Render(ctx)
}

// buildRequest validates inputs and normalizes the timestamp. Nothing is
// sent when validation fails.
func (v *Reservations) buildRequest(people int, when, specialRequest string) (restoapi.ReservationRequest, error) {
	if people < minPartySize || people > maxPartySize {
		v.deps.Notifier.Notify(notify.Error, "Party size must be between 1 and 20.")
		return restoapi.ReservationRequest{}, errors.Errorf("party size %d out of range", people)
	}

	when = strings.TrimSpace(when)
	if when == "" {
		v.deps.Notifier.Notify(notify.Error, "Please pick a reservation time.")
		return restoapi.ReservationRequest{}, errors.New("missing reservation time")
	}
	t, err := parseReservationTime(when)
	if err != nil {
		v.deps.Notifier.Notify(notify.Error, "Time must look like 2025-06-01 19:00.")
		return restoapi.ReservationRequest{}, errors.Wrap(err, "parse reservation time")
	}

	return restoapi.ReservationRequest{
		NumPeople:      people,
		Time:           t.Format(reservationTimeLayout),
		SpecialRequest: strings.TrimSpace(specialRequest),
	}, nil
}

func parseReservationTime(s string) (time.Time, error) {
	for _, layout := range []string{reservationTimeLayout, "2006-01-02 15:04", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized time %q", s)
}

// requestFailed maps API failures to notifications, including 422 field
// errors reported per input.
func (v *Reservations) requestFailed(ctx context.Context, err error, fallback string) error {
	if errors.Is(err, restoapi.ErrUnauthorized) {
		v.deps.sessionExpired(ctx)
		return err
	}

	var apiErr *restoapi.APIError
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		for field, msgs := range apiErr.Fields {
			for _, msg := range msgs {
				v.deps.Notifier.Notify(notify.Error, field+": "+msg)
			}
		}
		return err
	}
	v.deps.Notifier.Notify(notify.Error, restoapi.ErrorMessage(err, fallback))
	return err
}

func (v *Reservations) at(position int) (restoapi.Reservation, bool) {
	if position < 1 || position > len(v.list) {
		return restoapi.Reservation{}, false
	}
	return v.list[position-1], true
}
