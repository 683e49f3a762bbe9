package view

import (
	"context"
	"sync"

	"github.com/go-faster/errors"

	"github.com/nadasobeh22/RestoManage/internal/restoapi"
	"github.com/nadasobeh22/RestoManage/pkg/notify"
)

// RatingState tracks one food's optimistic rating through its lifecycle.
type RatingState int

const (
	// RatingPristine means the server value is shown untouched.
	RatingPristine RatingState = iota
	// RatingPending means a local value is shown while the request runs.
	RatingPending
	// RatingCommitted means the server accepted the local value.
	RatingCommitted
	// RatingRolledBack means the request failed and the prior value was
	// restored.
	RatingRolledBack
)

// ErrLoginRequired is returned when rating without a session.
var ErrLoginRequired = errors.New("login required")

type ratingEntry struct {
	state RatingState
	value float64
}

// Rater applies ratings optimistically: the chosen value is shown the moment
// the user picks it, then either kept (server accepted) or rolled back to the
// exact prior value (server refused). Successful ratings do not trigger a
// list refetch; the local value simply stays.
type Rater struct {
	deps Deps

	mu      sync.Mutex
	entries map[int64]ratingEntry
}

// NewRater creates a Rater.
func NewRater(deps Deps) *Rater {
	return &Rater{deps: deps, entries: map[int64]ratingEntry{}}
}

// Value returns the rating to display for a food: the local value once one
// exists (optimistic, committed, or the restored prior after a rollback),
// otherwise the server value.
func (r *Rater) Value(foodID int64, serverValue float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[foodID]; ok && e.state != RatingPristine {
		return e.value
	}
	return serverValue
}

// State returns the lifecycle state for a food's rating.
func (r *Rater) State(foodID int64) RatingState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[foodID].state
}

// Rate submits a rating for a food. Without a session the user is redirected
// to the login view and no request is made. prior is the value to restore on
// failure, exactly as it was displayed before the attempt.
func (r *Rater) Rate(ctx context.Context, foodID int64, prior float64, rating int) error {
	if !r.deps.Session.LoggedIn() {
		r.deps.Notifier.Notify(notify.Error, "Please log in to rate dishes.")
		r.deps.Navigate("/login")
		return ErrLoginRequired
	}
	if rating < 1 || rating > 5 {
		r.deps.Notifier.Notify(notify.Error, "Rating must be between 1 and 5.")
		return errors.Errorf("rating %d out of range", rating)
	}

	r.set(foodID, ratingEntry{state: RatingPending, value: float64(rating)})

	msg, err := r.deps.API.AddReview(ctx, foodID, rating, "")
	if err != nil {
		r.set(foodID, ratingEntry{state: RatingRolledBack, value: prior})
		r.deps.Notifier.Notify(notify.Error, restoapi.ErrorMessage(err, "Failed to submit rating."))
		return err
	}

	r.set(foodID, ratingEntry{state: RatingCommitted, value: float64(rating)})
	if msg == "" {
		msg = "Thanks for your rating!"
	}
	r.deps.Notifier.Notify(notify.Success, msg)
	return nil
}

func (r *Rater) set(foodID int64, e ratingEntry) {
	r.mu.Lock()
	r.entries[foodID] = e
	r.mu.Unlock()
}
