package view

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateCommitsOnSuccess(t *testing.T) {
	var calls int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/review/addReviews", func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"status":"success","message":"Review added successfully."}`))
	})
	f := newFixture(t, true, mux)
	rater := NewRater(f.deps)

	require.NoError(t, rater.Rate(context.Background(), 7, 4.5, 5))

	assert.Equal(t, 1, calls)
	assert.Equal(t, RatingCommitted, rater.State(7))
	assert.Equal(t, 5.0, rater.Value(7, 4.5), "the committed value replaces the server average")
	assert.Equal(t, "Review added successfully.", f.lastNotification().Text)
}

func TestRateRollsBackOnFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/review/addReviews", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"success":false,"message":"You have already reviewed this food."}`))
	})
	f := newFixture(t, true, mux)
	rater := NewRater(f.deps)

	err := rater.Rate(context.Background(), 7, 4.5, 2)
	require.Error(t, err)

	assert.Equal(t, RatingRolledBack, rater.State(7))
	assert.Equal(t, 4.5, rater.Value(7, 4.5), "exact prior value is restored")
	assert.Equal(t, "You have already reviewed this food.", f.lastNotification().Text)
}

func TestRateFailureAfterCommitRestoresShownValue(t *testing.T) {
	var calls int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/review/addReviews", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`{"status":"success"}`))
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"success":false,"message":"You have already reviewed this food."}`))
	})
	f := newFixture(t, true, mux)
	rater := NewRater(f.deps)
	ctx := context.Background()

	require.NoError(t, rater.Rate(ctx, 7, 3.2, 5))
	require.Equal(t, 5.0, rater.Value(7, 3.2))

	prior := rater.Value(7, 3.2)
	require.Error(t, rater.Rate(ctx, 7, prior, 2))

	assert.Equal(t, RatingRolledBack, rater.State(7))
	assert.Equal(t, 5.0, rater.Value(7, 3.2),
		"the value shown before the failed attempt comes back, not the server average")
}

func TestRateShowsValueWhilePending(t *testing.T) {
	release := make(chan struct{})
	observed := make(chan float64, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/review/addReviews", func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`{"status":"success"}`))
	})
	f := newFixture(t, true, mux)
	rater := NewRater(f.deps)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = rater.Rate(context.Background(), 7, 4.5, 3)
	}()

	// Wait until the optimistic value is visible, then let the request finish.
	for rater.State(7) != RatingPending {
		time.Sleep(time.Millisecond)
	}
	observed <- rater.Value(7, 4.5)
	close(release)
	<-done

	assert.Equal(t, 3.0, <-observed, "optimistic value shows before the server answers")
	assert.Equal(t, RatingCommitted, rater.State(7))
}

func TestRateWithoutSession(t *testing.T) {
	var calls int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/review/addReviews", func(w http.ResponseWriter, r *http.Request) {
		calls++
	})
	f := newFixture(t, false, mux)
	rater := NewRater(f.deps)

	err := rater.Rate(context.Background(), 7, 4.5, 5)
	require.ErrorIs(t, err, ErrLoginRequired)

	assert.Zero(t, calls, "no request without a session")
	assert.Equal(t, []string{"/login"}, f.visited)
	assert.Equal(t, RatingPristine, rater.State(7))
	assert.Equal(t, 4.5, rater.Value(7, 4.5))
}

func TestRateRejectsOutOfRange(t *testing.T) {
	f := newFixture(t, true, nil)
	rater := NewRater(f.deps)

	require.Error(t, rater.Rate(context.Background(), 7, 4.5, 0))
	require.Error(t, rater.Rate(context.Background(), 7, 4.5, 6))
	assert.Equal(t, RatingPristine, rater.State(7))
}
