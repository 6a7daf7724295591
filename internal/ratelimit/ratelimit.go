// Package ratelimit implements a per-client sliding-window request limiter.
//
// State is a log of request timestamps per identifier, pruned on every
// check. It lives in process memory only: counts reset on restart and are
// not shared between instances, which makes this an abuse-mitigation
// heuristic rather than a hard guarantee.
package ratelimit

import (
	"sync"
	"time"
)

// Defaults applied when the limiter is constructed with non-positive values.
const (
	DefaultLimit  = 10
	DefaultWindow = 60 * time.Second
)

// Decision is the outcome of a single Allow check.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// SlidingWindow admits up to limit requests per identifier within a
// trailing window. Safe for concurrent use.
type SlidingWindow struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	history map[string][]time.Time
}

// NewSlidingWindow creates a limiter admitting limit requests per window
// for each identifier.
func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &SlidingWindow{
		limit:   limit,
		window:  window,
		history: make(map[string][]time.Time),
	}
}

// Allow reports whether the identifier may make a request at now, recording
// the request timestamp when admitted. Timestamps that have left the window
// are pruned first, so an identifier is admitted while fewer than limit
// requests remain inside it. Taking now as a parameter keeps the limiter
// testable with a controlled clock; HTTP callers pass time.Now().
func (s *SlidingWindow) Allow(id string, now time.Time) Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-s.window)
	var recent []time.Time
	for _, ts := range s.history[id] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= s.limit {
		s.history[id] = recent
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: recent[0].Sub(cutoff),
		}
	}

	recent = append(recent, now)
	s.history[id] = recent
	return Decision{
		Allowed:   true,
		Remaining: s.limit - len(recent),
	}
}

// Limit returns the configured per-identifier request limit.
func (s *SlidingWindow) Limit() int {
	return s.limit
}

// Window returns the configured trailing window.
func (s *SlidingWindow) Window() time.Duration {
	return s.window
}
