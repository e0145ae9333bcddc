// Package liveness tracks the most recent feeder weight reading. The single
// retained sample serves two derived views: the feed confirmation heuristic
// reads the raw value, and connectivity checks read the freshness signal.
// There are no device heartbeats; time-since-last-receipt is the only
// liveness proxy available.
package liveness

import (
	"sync"
	"time"
)

// Tracker holds the latest weight sample, last-write-wins.
type Tracker struct {
	mu         sync.Mutex
	value      float64
	present    bool
	receivedAt time.Time
	window     time.Duration
	now        func() time.Time
}

// NewTracker creates a tracker whose Live view considers a sample fresh
// within the given window.
func NewTracker(window time.Duration) *Tracker {
	return &Tracker{
		window: window,
		now:    time.Now,
	}
}

// OnWeight records a new reading, replacing the previous one.
func (t *Tracker) OnWeight(weight float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.value = weight
	t.present = true
	t.receivedAt = t.now()
}

// Latest returns the stored value and whether any reading has ever arrived.
// Staleness is deliberately not folded in here; callers that care about
// freshness use Live.
func (t *Tracker) Latest() (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value, t.present
}

// Live reports whether the last reading arrived within the freshness window.
// This is the connectivity view: a silent device is a disconnected device.
func (t *Tracker) Live() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.present && t.now().Sub(t.receivedAt) < t.window
}

// ReceivedAt returns the receipt time of the stored sample, zero if none.
func (t *Tracker) ReceivedAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.receivedAt
}
