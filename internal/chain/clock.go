// Package chain maps the chain's monotonic block counter to an approximate
// wall-clock timestamp. The mapping assumes a fixed number of seconds per
// block, so derived times drift with actual block production — acceptable
// for bet deadlines measured in minutes to days.
package chain

import "sync/atomic"

// DaySeconds is one calendar day in seconds; used to truncate timestamps
// into daily pool buckets.
const DaySeconds int64 = 86400

// Clock yields the current derived timestamp in unix seconds.
type Clock interface {
	Now() int64
}

// DayBucket truncates a unix timestamp to day granularity.
func DayBucket(ts int64) int64 {
	return ts - ts%DaySeconds
}

// HeightSource reports the current block height.
type HeightSource interface {
	Height() int64
}

// BlockClock derives timestamps as genesis + height*secondsPerBlock.
type BlockClock struct {
	genesis         int64
	secondsPerBlock int64
	source          HeightSource
}

// NewBlockClock creates a clock anchored at the given genesis unix time.
func NewBlockClock(genesis, secondsPerBlock int64, source HeightSource) *BlockClock {
	return &BlockClock{
		genesis:         genesis,
		secondsPerBlock: secondsPerBlock,
		source:          source,
	}
}

// Now returns the derived timestamp for the current block height.
func (c *BlockClock) Now() int64 {
	return c.genesis + c.source.Height()*c.secondsPerBlock
}

// At returns the derived timestamp for an arbitrary height.
func (c *BlockClock) At(height int64) int64 {
	return c.genesis + height*c.secondsPerBlock
}

// Counter is a HeightSource backed by an atomic counter. Production
// deployments feed it from the chain; tests advance it by hand.
type Counter struct {
	height atomic.Int64
}

// NewCounter creates a counter starting at the given height.
func NewCounter(start int64) *Counter {
	c := &Counter{}
	c.height.Store(start)
	return c
}

// Height returns the current height.
func (c *Counter) Height() int64 { return c.height.Load() }

// Advance moves the counter forward by n blocks and returns the new height.
func (c *Counter) Advance(n int64) int64 { return c.height.Add(n) }

// Set pins the counter to an absolute height.
func (c *Counter) Set(h int64) { c.height.Store(h) }

// Manual is a Clock fixed to a settable instant, for tests.
type Manual struct {
	ts atomic.Int64
}

// NewManual creates a manual clock at the given unix time.
func NewManual(ts int64) *Manual {
	m := &Manual{}
	m.ts.Store(ts)
	return m
}

func (m *Manual) Now() int64 { return m.ts.Load() }

// Advance moves the clock forward by d seconds.
func (m *Manual) Advance(d int64) { m.ts.Add(d) }

// Set pins the clock to an absolute time.
func (m *Manual) Set(ts int64) { m.ts.Store(ts) }
