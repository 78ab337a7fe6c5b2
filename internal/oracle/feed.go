// Package oracle stores submitted price observations as a keyed time
// series. The feed does not fetch or verify prices itself: it records
// whatever the trusted submitter declares, one data point per call, and
// answers freshness and latest-at-time queries.
package oracle

import (
	"errors"
	"sync"

	"github.com/updown/bet-engine/internal/model"
)

// DefaultTolerance is the freshness window in seconds: a price is fresh
// while its age is at most five minutes of derived time.
const DefaultTolerance int64 = 300

// ErrNoPrice is returned when no observation exists at or before the
// requested time.
var ErrNoPrice = errors.New("oracle: no price recorded")

// Feed is an in-memory price time series keyed by timestamp.
// Records are upserted — a later submission at an identical timestamp
// silently overwrites the earlier one — and never deleted.
type Feed struct {
	mu        sync.RWMutex
	points    map[int64]model.PricePoint
	tolerance int64
}

// NewFeed creates a feed with the given freshness tolerance in seconds.
func NewFeed(tolerance int64) *Feed {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Feed{
		points:    make(map[int64]model.PricePoint),
		tolerance: tolerance,
	}
}

// Record upserts the observation at its timestamp. Last writer wins.
func (f *Feed) Record(p model.PricePoint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points[p.Timestamp] = p
}

// At returns the observation recorded exactly at ts.
func (f *Feed) At(ts int64) (model.PricePoint, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	p, ok := f.points[ts]
	if !ok {
		return model.PricePoint{}, ErrNoPrice
	}
	return p, nil
}

// Latest returns the most recent observation at or before ts.
func (f *Feed) Latest(ts int64) (model.PricePoint, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var best model.PricePoint
	found := false
	for t, p := range f.points {
		if t <= ts && (!found || t > best.Timestamp) {
			best = p
			found = true
		}
	}
	if !found {
		return model.PricePoint{}, ErrNoPrice
	}
	return best, nil
}

// Fresh reports whether an observation at ts is within the tolerance
// window of now. The ledger records prices at the current derived time,
// so for its own submissions this always holds.
func (f *Feed) Fresh(ts, now int64) bool {
	return now-ts <= f.tolerance
}

// Tolerance returns the freshness window in seconds.
func (f *Feed) Tolerance() int64 { return f.tolerance }
