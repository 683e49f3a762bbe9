package health

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckThresholds(t *testing.T) {
	var fail atomic.Bool
	c := &check{
		name:             "api",
		timeout:          time.Second,
		failureThreshold: 3,
		successThreshold: 1,
		fn: func(ctx context.Context) error {
			if fail.Load() {
				return errors.New("unreachable")
			}
			return nil
		},
	}
	c.healthy.Store(true)
	ctx := context.Background()

	// Two failures are not enough to flip.
	fail.Store(true)
	assert.False(t, c.run(ctx))
	assert.False(t, c.run(ctx))
	assert.True(t, c.healthy.Load())

	// The third consecutive failure flips to unhealthy.
	assert.True(t, c.run(ctx))
	assert.False(t, c.healthy.Load())

	// A single success recovers.
	fail.Store(false)
	assert.True(t, c.run(ctx))
	assert.True(t, c.healthy.Load())
}

func TestMonitorHealthy(t *testing.T) {
	m := NewMonitor()
	assert.True(t, m.Healthy(), "monitor with no checks is healthy")

	m.AddCheck("api", time.Second, func(ctx context.Context) error { return nil })
	assert.True(t, m.Healthy(), "checks start healthy")
}

func TestMonitorNotifiesOnFlip(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)

	m := NewMonitor()
	m.AddCheck("api", time.Second, func(ctx context.Context) error {
		if fail.Load() {
			return errors.New("down")
		}
		return nil
	})
	sub := m.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx, 5*time.Millisecond)
	defer m.Stop()

	select {
	case st := <-sub:
		require.Equal(t, "api", st.Name)
		assert.False(t, st.Healthy)
		assert.Error(t, st.Err)
	case <-time.After(2 * time.Second):
		t.Fatal("no unhealthy notification")
	}
	assert.False(t, m.Healthy())

	fail.Store(false)
	select {
	case st := <-sub:
		assert.True(t, st.Healthy)
	case <-time.After(2 * time.Second):
		t.Fatal("no recovery notification")
	}
}
