package attempt

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdownExpiresExactlyOnce(t *testing.T) {
	var fired int32
	cd := newCountdown(3, time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})
	cd.Start()
	defer cd.Stop()

	require.Eventually(t, func() bool {
		return cd.Expired()
	}, time.Second, time.Millisecond)

	// A few extra ticks must not refire the callback.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
	assert.Equal(t, 0, cd.Remaining())
}

func TestCountdownRemainingNeverNegative(t *testing.T) {
	cd := newCountdown(1, time.Millisecond, func() {})
	cd.Start()
	defer cd.Stop()

	require.Eventually(t, func() bool { return cd.Expired() }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 0, cd.Remaining())
}

func TestCountdownStopHaltsTicking(t *testing.T) {
	var fired int32
	cd := newCountdown(1000, time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})
	cd.Start()
	time.Sleep(10 * time.Millisecond)
	cd.Stop()
	remaining := cd.Remaining()
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, remaining, cd.Remaining())
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
}

func TestCountdownZeroSecondsExpiresImmediately(t *testing.T) {
	var fired int32
	cd := newCountdown(0, time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})
	cd.Start()
	defer cd.Stop()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&fired) == 1
	}, time.Second, time.Millisecond)
	assert.True(t, cd.Expired())
}

func TestCountdownStopIsIdempotent(t *testing.T) {
	cd := NewCountdown(60, func() {})
	cd.Start()
	cd.Stop()
	assert.NotPanics(t, func() { cd.Stop() })
}
