package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/itsonlyfabs/teamchat/core"
	"github.com/itsonlyfabs/teamchat/internal/testutil"
)

// Interface compliance (compile-time assertion)
var _ core.RateLimiter = (*Limiter)(nil)

func newTestLimiter() (*Limiter, *testutil.FakeClock) {
	clock := testutil.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	limiter := NewLimiter(func(o *Options) { o.Clock = clock })
	return limiter, clock
}

func TestLimiter_TenAllowedThenDenied(t *testing.T) {
	limiter, _ := newTestLimiter()

	for i := 0; i < 10; i++ {
		assert.Truef(t, limiter.Allow("user-1"), "call %d should be allowed", i+1)
	}
	assert.False(t, limiter.Allow("user-1"), "11th call in the window must be denied")
}

func TestLimiter_WindowResets(t *testing.T) {
	limiter, clock := newTestLimiter()

	for i := 0; i < 10; i++ {
		limiter.Allow("user-1")
	}
	assert.False(t, limiter.Allow("user-1"))

	clock.Advance(61 * time.Second)
	assert.True(t, limiter.Allow("user-1"), "counter resets after the window elapses")
	assert.Equal(t, 9, limiter.Remaining("user-1"))
}

func TestLimiter_UsersIndependent(t *testing.T) {
	limiter, _ := newTestLimiter()

	for i := 0; i < 10; i++ {
		limiter.Allow("user-1")
	}
	assert.False(t, limiter.Allow("user-1"))
	assert.True(t, limiter.Allow("user-2"))
}

func TestLimiter_DenialDoesNotExtendWindow(t *testing.T) {
	limiter, clock := newTestLimiter()

	for i := 0; i < 10; i++ {
		limiter.Allow("user-1")
	}

	// Hammering a denied user must not push the window start forward.
	clock.Advance(30 * time.Second)
	assert.False(t, limiter.Allow("user-1"))
	clock.Advance(31 * time.Second)
	assert.True(t, limiter.Allow("user-1"))
}
