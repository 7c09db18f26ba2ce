package policy

import (
	"fmt"
	"sync"
	"time"

	"github.com/serroba/gcra/clock"
)

// VirtualScheduling is the virtual scheduling formulation of GCRA. It
// tracks the theoretical arrival time (TAT) of the next conformant
// call: a call is admissible when it arrives no more than tolerance
// before the TAT, and each admitted call pushes the TAT out by gap.
//
// After an idle period the max(TAT, now) term resets the schedule to
// the present, so the first call after any idle gap is always admitted.
type VirtualScheduling struct {
	mu  sync.Mutex
	tat clock.Timestamp // theoretical arrival time

	tolerance uint64 // ms of early-arrival slack
	gap       uint64 // minimum ms between conformant arrivals
	clock     clock.Clock
}

// Allow reports whether a call is conformant with the theoretical
// schedule and, if so, advances the schedule. Rejected calls leave the
// TAT untouched.
func (vs *VirtualScheduling) Allow() bool {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	now := vs.clock.Now()
	if uint64(now)+vs.tolerance < uint64(vs.tat) {
		return false
	}

	tat := vs.tat
	if now > tat {
		tat = now
	}

	vs.tat = tat + clock.Timestamp(vs.gap)

	return true
}

// VirtualSchedulingBuilder accumulates VirtualScheduling settings. The
// zero builder from NewVirtualSchedulingBuilder describes an
// unlimited-rate policy (gap 0) on the real-time clock.
type VirtualSchedulingBuilder struct {
	tolerance time.Duration
	gap       time.Duration
	clk       clock.Clock
}

// NewVirtualSchedulingBuilder returns a builder with zero tolerance,
// zero gap and the real-time clock.
func NewVirtualSchedulingBuilder() *VirtualSchedulingBuilder {
	return &VirtualSchedulingBuilder{}
}

// Tolerance sets how early a call may arrive relative to the
// theoretical schedule and still be admitted.
func (b *VirtualSchedulingBuilder) Tolerance(d time.Duration) *VirtualSchedulingBuilder {
	b.tolerance = d

	return b
}

// Gap sets the minimum spacing between theoretically conformant
// arrivals, i.e. the inverse of the target rate. A gap of 0 admits
// every call.
func (b *VirtualSchedulingBuilder) Gap(d time.Duration) *VirtualSchedulingBuilder {
	b.gap = d

	return b
}

// Clock sets the time source. Tests pass a *clock.Mock here.
func (b *VirtualSchedulingBuilder) Clock(c clock.Clock) *VirtualSchedulingBuilder {
	b.clk = c

	return b
}

// Build validates the accumulated settings and returns a ready-to-use
// policy. The TAT starts at 0, so the first call is always admitted.
func (b *VirtualSchedulingBuilder) Build() (*VirtualScheduling, error) {
	if b.tolerance < 0 {
		return nil, fmt.Errorf("%w: got %v", ErrNegativeTolerance, b.tolerance)
	}

	if b.gap < 0 {
		return nil, fmt.Errorf("%w: got %v", ErrNegativeGap, b.gap)
	}

	clk := b.clk
	if clk == nil {
		clk = clock.System{}
	}

	return &VirtualScheduling{
		tat:       0,
		tolerance: uint64(b.tolerance.Milliseconds()),
		gap:       uint64(b.gap.Milliseconds()),
		clock:     clk,
	}, nil
}
