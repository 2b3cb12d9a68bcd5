package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterPerKey(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := New(3, time.Minute).WithClock(func() time.Time { return now })

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("1.2.3.4"))
	}
	assert.False(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("5.6.7.8"))
	assert.Greater(t, l.RetryAfter("1.2.3.4"), time.Duration(0))

	// one token every 20s
	now = now.Add(20 * time.Second)
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))
}

func TestLimiterPrune(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := New(1, time.Minute).WithClock(func() time.Time { return now })
	l.Allow("a")

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, l.Prune())
	assert.True(t, l.Allow("a"))
}
