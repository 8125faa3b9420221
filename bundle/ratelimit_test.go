package bundle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_AdmitsUpToCeiling(t *testing.T) {
	l := NewLimiter(3)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Acquire(ctx))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond, "calls within the ceiling must not block")
	assert.Equal(t, 3, l.windowCount())
}

func TestLimiter_BurstOverCeilingWaits(t *testing.T) {
	l := NewLimiter(2)
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx))
	require.NoError(t, l.Acquire(ctx))

	start := time.Now()
	require.NoError(t, l.Acquire(ctx))
	elapsed := time.Since(start)

	assert.Greater(t, elapsed, time.Duration(0), "third call must suspend")
	assert.LessOrEqual(t, elapsed, 1100*time.Millisecond, "wait is bounded by the window")
	assert.Equal(t, 1, l.windowCount(), "fresh window holds exactly the admitted submission")
}

func TestLimiter_WindowRollsOver(t *testing.T) {
	l := NewLimiter(1)
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx))
	time.Sleep(1100 * time.Millisecond)

	start := time.Now()
	require.NoError(t, l.Acquire(ctx))
	assert.Less(t, time.Since(start), 100*time.Millisecond, "an expired window must not block")
	assert.Equal(t, 1, l.windowCount())
}

func TestLimiter_CancelledContextAbortsWait(t *testing.T) {
	l := NewLimiter(1)
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLimiter_InvalidCeilingFallsBack(t *testing.T) {
	l := NewLimiter(0)
	assert.Equal(t, DefaultRateLimit, l.ceiling)
}
