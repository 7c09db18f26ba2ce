// Package clock abstracts the time source used by admission policies.
// Policies take a Clock so tests can drive time deterministically with
// a Mock instead of sleeping against the wall clock.
package clock

import (
	"fmt"
	"sync"
	"time"
)

// Timestamp is a count of milliseconds since a fixed origin: the Unix
// epoch for System, an arbitrary origin for Mock. It is never negative.
type Timestamp uint64

// Clock supplies the current timestamp. Now must be safe for concurrent
// callers and must not have side effects.
type Clock interface {
	Now() Timestamp
}

// System reads the host wall clock.
type System struct{}

// Now returns milliseconds elapsed since the Unix epoch. A host clock
// set before the epoch is an unrecoverable environment error.
func (System) Now() Timestamp {
	ms := time.Now().UnixMilli()
	if ms < 0 {
		panic(fmt.Sprintf("clock: system time %d ms before the Unix epoch", -ms))
	}

	return Timestamp(ms)
}

// Mock is a controllable clock for tests. Time moves only when the test
// calls Advance or Rewind.
type Mock struct {
	mu  sync.Mutex
	now Timestamp
}

// NewMock creates a mock clock frozen at the given timestamp.
func NewMock(at Timestamp) *Mock {
	return &Mock{now: at}
}

// NewMockAtSystemTime creates a mock clock seeded from the real clock's
// current reading, for tests that want deterministic time relative to a
// real start point.
func NewMockAtSystemTime() *Mock {
	return NewMock(System{}.Now())
}

// Now returns the stored timestamp.
func (m *Mock) Now() Timestamp {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.now
}

// Advance moves the clock forward by d. A negative duration is a test
// harness bug.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now += millis(d)
}

// Rewind moves the clock backward by d. Rewinding below the origin is a
// test harness bug and panics rather than clamping, so broken tests
// fail loudly instead of running against a silently wrong clock.
func (m *Mock) Rewind(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ms := millis(d)
	if ms > m.now {
		panic(fmt.Sprintf("clock: rewind by %v underflows mock clock at %d ms", d, m.now))
	}

	m.now -= ms
}

func millis(d time.Duration) Timestamp {
	if d < 0 {
		panic(fmt.Sprintf("clock: negative duration %v", d))
	}

	return Timestamp(d.Milliseconds())
}
