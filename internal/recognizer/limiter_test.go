package recognizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHostLimiter_NilAllowsEverything(t *testing.T) {
	var l *hostLimiter
	for i := 0; i < 100; i++ {
		require.True(t, l.Allow("10.0.0.1", time.Now()))
	}

	require.Nil(t, newHostLimiter(0, 10))
	require.Nil(t, newHostLimiter(5, 0))
}

func TestHostLimiter_BurstAndRefill(t *testing.T) {
	l := newHostLimiter(1, 2)
	now := time.Now()

	require.True(t, l.Allow("10.0.0.1", now))
	require.True(t, l.Allow("10.0.0.1", now))
	require.False(t, l.Allow("10.0.0.1", now))

	// one token refills after a second
	require.True(t, l.Allow("10.0.0.1", now.Add(time.Second)))
}

func TestHostLimiter_PerHostBuckets(t *testing.T) {
	l := newHostLimiter(1, 1)
	now := time.Now()

	require.True(t, l.Allow("10.0.0.1", now))
	require.False(t, l.Allow("10.0.0.1", now))
	require.True(t, l.Allow("10.0.0.2", now), "a different host has its own bucket")
}

func TestHostLimiter_EmptyHostAllowed(t *testing.T) {
	l := newHostLimiter(1, 1)
	now := time.Now()

	require.True(t, l.Allow("", now))
	require.True(t, l.Allow("", now))
}
