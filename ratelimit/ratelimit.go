// Package ratelimit gates how many turns a user may submit per window. The
// counter is process-local and keyed by user id, which is sufficient for a
// single routing process; horizontally scaled deployments should provide a
// core.RateLimiter backed by a shared store instead.
package ratelimit

import (
	"sync"
	"time"

	"github.com/itsonlyfabs/teamchat/core"
)

// Options configure a Limiter.
type Options struct {
	// Limit is the number of allowed turns per window.
	Limit int
	// Window is the rolling window length.
	Window time.Duration
	// Clock is injectable for deterministic tests.
	Clock core.Clock
}

// Limiter is a per-user window counter: once the window start is older than
// Window, the counter resets; otherwise calls are allowed until Limit is
// consumed. Safe for concurrent use.
type Limiter struct {
	limit  int
	window time.Duration
	clock  core.Clock

	mu      sync.Mutex
	windows map[string]*userWindow
}

type userWindow struct {
	start time.Time
	count int
}

// NewLimiter constructs a Limiter allowing 10 turns per minute by default.
func NewLimiter(optFns ...func(o *Options)) *Limiter {
	opts := Options{
		Limit:  10,
		Window: time.Minute,
		Clock:  core.SystemClock{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Limiter{
		limit:   opts.Limit,
		window:  opts.Window,
		clock:   opts.Clock,
		windows: make(map[string]*userWindow),
	}
}

// Allow implements core.RateLimiter. An allowed call consumes budget; a
// denied call leaves the window untouched.
func (l *Limiter) Allow(userID string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[userID]
	if !ok || now.Sub(w.start) > l.window {
		l.windows[userID] = &userWindow{start: now, count: 1}
		return true
	}

	if w.count < l.limit {
		w.count++
		return true
	}
	return false
}

// Remaining reports how much budget is left in the user's current window.
func (l *Limiter) Remaining(userID string) int {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[userID]
	if !ok || now.Sub(w.start) > l.window {
		return l.limit
	}
	return l.limit - w.count
}
