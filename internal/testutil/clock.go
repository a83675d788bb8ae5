package testutil

import (
	"context"
	"sync"
	"time"
)

// FakeClock is a manual core.Clock: Sleep advances the clock instantly and
// counts invocations, so poll loops and rate windows run without real delays.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps int
}

// NewFakeClock starts a clock at the given instant.
func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

// Now returns the current fake instant.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep advances the clock by d without blocking. Cancellation is still
// honored so timeout paths behave as in production.
func (c *FakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.sleeps++
	c.mu.Unlock()
	return nil
}

// Advance moves the clock forward without counting as a sleep.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Sleeps returns how many times Sleep was called.
func (c *FakeClock) Sleeps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sleeps
}
