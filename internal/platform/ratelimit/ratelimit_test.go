package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKeyedLimiter_BurstThenDeny(t *testing.T) {
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	l := New(3, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		require.True(t, l.Allow("10.0.0.1"), "attempt %d", i)
	}
	require.False(t, l.Allow("10.0.0.1"))

	// Otra IP tiene su propio bucket.
	require.True(t, l.Allow("10.0.0.2"))
}

func TestKeyedLimiter_RefillsOverTime(t *testing.T) {
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	l := New(2, time.Minute)
	l.now = func() time.Time { return now }

	require.True(t, l.Allow("ip"))
	require.True(t, l.Allow("ip"))
	require.False(t, l.Allow("ip"))

	now = now.Add(30 * time.Second)
	require.True(t, l.Allow("ip"))
}

func TestKeyedLimiter_PurgesIdleKeys(t *testing.T) {
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	l := New(1, time.Minute)
	l.now = func() time.Time { return now }

	require.True(t, l.Allow("a"))
	now = now.Add(5 * time.Minute)
	require.True(t, l.Allow("b"))

	l.mu.Lock()
	defer l.mu.Unlock()
	require.NotContains(t, l.visitors, "a")
}
