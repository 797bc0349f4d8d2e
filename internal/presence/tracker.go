// Package presence keeps the in-process record of recently seen visitors.
// It is intentionally not persisted: the online count is a live-operational
// metric, rebuilt empty on every restart.
package presence

import (
	"context"
	"sync"
	"time"
)

// DefaultWindow is how long a visitor counts as online after their last hit.
const DefaultWindow = 5 * time.Minute

// Tracker maps visitor identifiers to their last-seen time. All methods are
// safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	window   time.Duration
	lastSeen map[string]time.Time
}

// New creates a tracker with the given online window. Non-positive windows
// fall back to DefaultWindow.
func New(window time.Duration) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{
		window:   window,
		lastSeen: make(map[string]time.Time),
	}
}

// Window returns the configured online window.
func (t *Tracker) Window() time.Duration {
	return t.window
}

// Touch records that the visitor was seen at now.
func (t *Tracker) Touch(visitorID string, now time.Time) {
	if visitorID == "" {
		return
	}
	t.mu.Lock()
	t.lastSeen[visitorID] = now
	t.mu.Unlock()
}

// OnlineCount returns how many visitors were seen within the window before
// now. A visitor touched at T is online for queries in [T, T+window) and
// offline from T+window on. Expired entries found along the way are dropped
// so the map does not grow without bound.
func (t *Tracker) OnlineCount(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	online := 0
	for id, seen := range t.lastSeen {
		if now.Sub(seen) < t.window {
			online++
			continue
		}
		delete(t.lastSeen, id)
	}
	return online
}

// Sweep drops every entry outside the window and reports how many were
// removed.
func (t *Tracker) Sweep(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for id, seen := range t.lastSeen {
		if now.Sub(seen) >= t.window {
			delete(t.lastSeen, id)
			removed++
		}
	}
	return removed
}

// Size returns the number of tracked entries, expired or not.
func (t *Tracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.lastSeen)
}

// Run sweeps on the given interval until ctx is cancelled. Meant to be
// started as a goroutine from main.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = t.window
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			t.Sweep(now)
		}
	}
}
