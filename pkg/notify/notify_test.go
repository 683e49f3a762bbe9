package notify

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(ch <-chan Message, n int) []Message {
	out := make([]Message, 0, n)
	for range n {
		out = append(out, <-ch)
	}
	return out
}

func TestCenterFanOut(t *testing.T) {
	c := New(8)
	a := c.Subscribe()
	b := c.Subscribe()

	c.Notify(Info, "hello")
	c.Notify(Error, "boom")

	for _, ch := range []<-chan Message{a, b} {
		msgs := drain(ch, 2)
		assert.Equal(t, "hello", msgs[0].Text)
		assert.Equal(t, Info, msgs[0].Level)
		assert.Equal(t, "boom", msgs[1].Text)
		assert.Equal(t, Error, msgs[1].Level)
	}
}

func TestCenterRecentKeepsTail(t *testing.T) {
	c := New(2)
	c.Notify(Info, "one")
	c.Notify(Info, "two")
	c.Notify(Info, "three")

	recent := c.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, "two", recent[0].Text)
	assert.Equal(t, "three", recent[1].Text)
}

func TestCenterFullSubscriberDoesNotBlock(t *testing.T) {
	c := New(1)
	_ = c.Subscribe() // never drained

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 100 {
			c.Notify(Info, "spam")
		}
	}()
	<-done // finishing at all is the assertion
}

func TestPromise(t *testing.T) {
	t.Run("success uses resolved message", func(t *testing.T) {
		c := New(4)
		err := Promise(c, "Adding...", "Done.", func() (string, error) {
			return "Item added!", nil
		})
		require.NoError(t, err)

		recent := c.Recent()
		require.Len(t, recent, 2)
		assert.Equal(t, Pending, recent[0].Level)
		assert.Equal(t, "Adding...", recent[0].Text)
		assert.Equal(t, Success, recent[1].Level)
		assert.Equal(t, "Item added!", recent[1].Text)
	})

	t.Run("success falls back to default message", func(t *testing.T) {
		c := New(4)
		err := Promise(c, "Adding...", "Done.", func() (string, error) {
			return "", nil
		})
		require.NoError(t, err)
		recent := c.Recent()
		assert.Equal(t, "Done.", recent[1].Text)
	})

	t.Run("failure publishes error and returns it", func(t *testing.T) {
		c := New(4)
		wantErr := errors.New("could not add item")
		err := Promise(c, "Adding...", "Done.", func() (string, error) {
			return "", wantErr
		})
		require.ErrorIs(t, err, wantErr)

		recent := c.Recent()
		require.Len(t, recent, 2)
		assert.Equal(t, Error, recent[1].Level)
		assert.Equal(t, "could not add item", recent[1].Text)
	})
}
