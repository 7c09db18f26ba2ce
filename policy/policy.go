// Package policy implements the Generic Cell Rate Algorithm in two
// equivalent formulations: a leaky bucket accumulator (LeakyBucket) and
// a virtual scheduling accumulator (VirtualScheduling). Both decide
// admissibility in constant time and constant memory, with no timers,
// queues, or background goroutines.
//
// A policy instance holds a single counter; share it by pointer across
// goroutines. Rejection is a normal outcome reported as a boolean, not
// an error.
package policy

// Policy decides whether one call is admissible right now. Allow is a
// full read-modify-write critical section: concurrent calls on the same
// instance are strictly serialized, and a rejected call never mutates
// accounting state.
type Policy interface {
	Allow() bool
}
