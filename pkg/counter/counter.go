// Package counter builds replicated counters on top of pkg/vclock.
//
// A GCounter (grow-only counter) is a vector clock read through its scalar
// sum: each replica adds to its own entry, merges take the per-replica
// maximum, and the value is the sum of all entries. A PNCounter composes
// two G-Counters — one for increments, one for decrements — and reports
// their difference, which is how decrement is expressed without ever
// violating the clocks' monotonicity.
//
// Like the underlying clocks, counters are immutable values: every
// operation returns a new counter.
package counter

import (
	"fmt"
	"math"

	"github.com/Horusiath/pgrdt/pkg/vclock"
)

// GCounter is a grow-only replicated counter.
type GCounter struct {
	Clock vclock.VectorClock
}

// NewGCounter returns a zero-valued grow-only counter.
func NewGCounter() GCounter {
	return GCounter{Clock: vclock.New()}
}

// Add returns a counter with n added to the replica's share. n must be
// non-negative (vclock.ErrInvalidDelta otherwise).
func (g GCounter) Add(replica string, n int64) (GCounter, error) {
	clock, err := g.Clock.Increment(replica, n)
	if err != nil {
		return GCounter{}, err
	}
	return GCounter{Clock: clock}, nil
}

// Value returns the counter's scalar value.
func (g GCounter) Value() (uint64, error) {
	return g.Clock.Sum()
}

// Merge joins two counter states.
func (g GCounter) Merge(other GCounter) GCounter {
	return GCounter{Clock: g.Clock.Merge(other.Clock)}
}

// Compare relates the causal histories of two counter states.
func (g GCounter) Compare(other GCounter) vclock.Causality {
	return g.Clock.Compare(other.Clock)
}

// PNCounter is a positive-negative replicated counter: an increment clock
// and a decrement clock, valued as their difference.
type PNCounter struct {
	Inc vclock.VectorClock
	Dec vclock.VectorClock
}

// NewPNCounter returns a zero-valued positive-negative counter.
func NewPNCounter() PNCounter {
	return PNCounter{Inc: vclock.New(), Dec: vclock.New()}
}

// Add returns a counter with n added to the replica's positive share.
func (p PNCounter) Add(replica string, n int64) (PNCounter, error) {
	inc, err := p.Inc.Increment(replica, n)
	if err != nil {
		return PNCounter{}, err
	}
	return PNCounter{Inc: inc, Dec: p.Dec}, nil
}

// Sub returns a counter with n added to the replica's negative share.
// n is the magnitude of the decrement and must itself be non-negative.
func (p PNCounter) Sub(replica string, n int64) (PNCounter, error) {
	dec, err := p.Dec.Increment(replica, n)
	if err != nil {
		return PNCounter{}, err
	}
	return PNCounter{Inc: p.Inc, Dec: dec}, nil
}

// Value returns increments minus decrements. Fails with vclock.ErrOverflow
// when either sum wraps uint64 or the difference leaves the int64 range.
func (p PNCounter) Value() (int64, error) {
	inc, err := p.Inc.Sum()
	if err != nil {
		return 0, err
	}
	dec, err := p.Dec.Sum()
	if err != nil {
		return 0, err
	}
	if inc >= dec {
		diff := inc - dec
		if diff > math.MaxInt64 {
			return 0, fmt.Errorf("%w: value %d exceeds int64", vclock.ErrOverflow, diff)
		}
		return int64(diff), nil
	}
	diff := dec - inc
	if diff > uint64(math.MaxInt64)+1 {
		return 0, fmt.Errorf("%w: value -%d exceeds int64", vclock.ErrOverflow, diff)
	}
	if diff == uint64(math.MaxInt64)+1 {
		return math.MinInt64, nil
	}
	return -int64(diff), nil
}

// Merge joins two counter states pairwise.
func (p PNCounter) Merge(other PNCounter) PNCounter {
	return PNCounter{
		Inc: p.Inc.Merge(other.Inc),
		Dec: p.Dec.Merge(other.Dec),
	}
}

// Compare relates the combined causal histories of two counter states:
// the join of each counter's two clocks under the happened-before order.
func (p PNCounter) Compare(other PNCounter) vclock.Causality {
	return p.Inc.Merge(p.Dec).Compare(other.Inc.Merge(other.Dec))
}
