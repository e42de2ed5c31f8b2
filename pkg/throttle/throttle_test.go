package throttle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbridge/stepup/pkg/throttle"
)

func TestNewLimiterValidation(t *testing.T) {
	t.Parallel()

	_, err := throttle.NewLimiter(0, time.Second)
	assert.ErrorIs(t, err, throttle.ErrInvalidCapacity)

	_, err = throttle.NewLimiter(10, 0)
	assert.ErrorIs(t, err, throttle.ErrInvalidInterval)
}

func TestAllowConsumesBurst(t *testing.T) {
	t.Parallel()

	limiter, err := throttle.NewLimiter(3, time.Minute)
	require.NoError(t, err)

	for i := 2; i >= 0; i-- {
		remaining, _, ok := limiter.Allow("client-1")
		assert.True(t, ok)
		assert.Equal(t, i, remaining)
	}

	_, retryAfter, ok := limiter.Allow("client-1")
	assert.False(t, ok)
	assert.Greater(t, retryAfter, time.Duration(0))

	// Other keys are unaffected.
	_, _, ok = limiter.Allow("client-2")
	assert.True(t, ok)
}

func TestAllowRefills(t *testing.T) {
	t.Parallel()

	limiter, err := throttle.NewLimiter(1, 20*time.Millisecond)
	require.NoError(t, err)

	_, _, ok := limiter.Allow("client-1")
	require.True(t, ok)
	_, _, ok = limiter.Allow("client-1")
	require.False(t, ok)

	time.Sleep(30 * time.Millisecond)

	_, _, ok = limiter.Allow("client-1")
	assert.True(t, ok)
}

func TestReset(t *testing.T) {
	t.Parallel()

	limiter, err := throttle.NewLimiter(1, time.Minute)
	require.NoError(t, err)

	_, _, ok := limiter.Allow("client-1")
	require.True(t, ok)
	_, _, ok = limiter.Allow("client-1")
	require.False(t, ok)

	limiter.Reset("client-1")

	_, _, ok = limiter.Allow("client-1")
	assert.True(t, ok)
}
