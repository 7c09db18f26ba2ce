package policy

import (
	"fmt"
	"math"
	"sync"

	"github.com/serroba/gcra/clock"
)

// LeakyBucket is the leaky bucket formulation of GCRA. Each admitted
// call adds one unit of level; the level drains at rate units per
// second; capacity is rate + burst. A call is rejected when the drained
// level is already at capacity.
type LeakyBucket struct {
	mu    sync.Mutex
	level uint64
	lct   clock.Timestamp // last conformance time

	rate  uint64
	burst uint64
	clock clock.Clock
}

// Allow reports whether a call is admissible now and, if so, charges it
// to the bucket. Rejected calls leave the bucket untouched.
//
// Allow panics if the clock reads earlier than the last conformance
// time: outside a test-controlled clock that means the time source
// moved backwards, and draining on a bogus elapsed value would corrupt
// the accounting invisibly.
func (lb *LeakyBucket) Allow() bool {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	now := lb.clock.Now()
	if now < lb.lct {
		panic(fmt.Sprintf("policy: clock moved backwards: now %d ms precedes last conformance time %d ms", now, lb.lct))
	}

	level := lb.level
	if drained := leaked(uint64(now-lb.lct), lb.rate); drained >= level {
		level = 0
	} else {
		level -= drained
	}

	if level >= lb.rate+lb.burst {
		return false
	}

	lb.level = level + 1
	lb.lct = now

	return true
}

// leaked converts elapsed milliseconds into drained level units,
// saturating instead of overflowing for very long idle spans.
func leaked(elapsedMS, rate uint64) uint64 {
	if rate == 0 {
		return 0
	}

	if elapsedMS > math.MaxUint64/rate {
		return math.MaxUint64
	}

	return elapsedMS * rate / 1000
}

// LeakyBucketBuilder accumulates LeakyBucket settings. The zero builder
// from NewLeakyBucketBuilder describes a bucket that never drains and
// admits a single call; the clock defaults to the real-time clock.
type LeakyBucketBuilder struct {
	rate  int
	burst int
	clk   clock.Clock
}

// NewLeakyBucketBuilder returns a builder with rate 0, burst 0 and the
// real-time clock.
func NewLeakyBucketBuilder() *LeakyBucketBuilder {
	return &LeakyBucketBuilder{}
}

// Rate sets the sustained admissions per second. A rate of 0 means the
// bucket never drains: only the initial burst quota is ever available.
func (b *LeakyBucketBuilder) Rate(perSecond int) *LeakyBucketBuilder {
	b.rate = perSecond

	return b
}

// Burst sets the extra one-time capacity above the sustained rate.
func (b *LeakyBucketBuilder) Burst(extra int) *LeakyBucketBuilder {
	b.burst = extra

	return b
}

// Clock sets the time source. Tests pass a *clock.Mock here.
func (b *LeakyBucketBuilder) Clock(c clock.Clock) *LeakyBucketBuilder {
	b.clk = c

	return b
}

// Build validates the accumulated settings and returns a ready-to-use
// bucket. The bucket starts with full burst credit available.
func (b *LeakyBucketBuilder) Build() (*LeakyBucket, error) {
	if b.rate < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeRate, b.rate)
	}

	if b.burst < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeBurst, b.burst)
	}

	clk := b.clk
	if clk == nil {
		clk = clock.System{}
	}

	return &LeakyBucket{
		level: uint64(b.burst),
		lct:   0,
		rate:  uint64(b.rate),
		burst: uint64(b.burst),
		clock: clk,
	}, nil
}
