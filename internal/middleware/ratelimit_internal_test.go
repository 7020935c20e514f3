package middleware

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func newTestLimiter(rpm, every int) (*rateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := newRateLimiter(rpm)
	l.now = clock.now
	l.pruneEvery = every
	return l, clock
}

func TestRateLimiter_PrunesExpiredClients(t *testing.T) {
	l, clock := newTestLimiter(5, 100)

	for i := 0; i < 50; i++ {
		_, _, ok := l.allow(fmt.Sprintf("10.0.0.%d", i))
		require.True(t, ok)
	}
	assert.Len(t, l.clients, 50)

	clock.t = clock.t.Add(2 * time.Minute)

	for i := 0; i < 50; i++ {
		l.allow("10.1.0.1")
	}

	// the 100th request swept the 50 stale entries
	assert.Len(t, l.clients, 1)
	assert.Contains(t, l.clients, "10.1.0.1")
}

func TestRateLimiter_KeepsActiveClients(t *testing.T) {
	l, clock := newTestLimiter(5, 2)

	_, _, ok := l.allow("10.0.0.1")
	require.True(t, ok)

	clock.t = clock.t.Add(30 * time.Second)
	_, _, ok = l.allow("10.0.0.2")
	require.True(t, ok)

	assert.Len(t, l.clients, 2)
}

func TestRateLimiter_WindowResets(t *testing.T) {
	l, clock := newTestLimiter(1, pruneEvery)

	remaining, _, ok := l.allow("10.0.0.1")
	require.True(t, ok)
	assert.Equal(t, 0, remaining)

	_, resetAt, ok := l.allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, clock.t.Add(time.Minute), resetAt)

	clock.t = resetAt.Add(time.Second)
	_, _, ok = l.allow("10.0.0.1")
	assert.True(t, ok)
}
