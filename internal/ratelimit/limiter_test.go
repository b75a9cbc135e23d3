package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(rps float64, burst int) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(rps, burst)
	l.now = clock.now
	return l, clock
}

func TestAllowConsumesBurstThenRejects(t *testing.T) {
	l, _ := newTestLimiter(1, 3)

	for i := range 3 {
		res := l.Allow("10.0.0.1")
		require.True(t, res.Allowed, "request %d", i)
		assert.Equal(t, 3, res.Limit)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res := l.Allow("10.0.0.1")
	assert.False(t, res.Allowed)
	assert.Equal(t, time.Second, res.RetryAfter)
}

func TestRejectedRequestDoesNotConsumeTokens(t *testing.T) {
	l, clock := newTestLimiter(1, 1)

	require.True(t, l.Allow("a").Allowed)
	require.False(t, l.Allow("a").Allowed)
	require.False(t, l.Allow("a").Allowed)

	clock.advance(time.Second)
	assert.True(t, l.Allow("a").Allowed)
}

func TestBucketsArePerClient(t *testing.T) {
	l, _ := newTestLimiter(1, 1)

	assert.True(t, l.Allow("a").Allowed)
	assert.True(t, l.Allow("b").Allowed)
	assert.False(t, l.Allow("a").Allowed)
	assert.Equal(t, 2, l.Len())
}

func TestIdleBucketsAreSwept(t *testing.T) {
	l, clock := newTestLimiter(1, 1)

	l.Allow("a")
	clock.advance(DefaultIdleTTL)
	l.Allow("b")

	assert.Equal(t, 1, l.Len())
}

func TestBurstIsAtLeastOne(t *testing.T) {
	l, _ := newTestLimiter(1, 0)
	assert.True(t, l.Allow("a").Allowed)
}
