// Package vclock implements a vector clock: a mapping from replica ID to a
// monotonically non-decreasing counter, used to track causal history across
// uncoordinated writers.
//
// The type forms a join-semilattice under Merge (per-replica maximum):
// Merge is commutative, associative, and idempotent, with the empty clock
// as identity. That algebra is what makes the clock safe as a CRDT building
// block — replicas may increment locally and exchange values in any order,
// any number of times, and still converge.
//
// A VectorClock is an immutable value. Every operation returns a new clock;
// none mutates its receiver. A missing replica is equivalent to a zero
// counter everywhere except in the encoded form: an entry explicitly set to
// zero (Increment with delta 0) stays present and is emitted by String, so
// that a replica's participation is never silently erased.
//
// Note: VectorClock values are safe for concurrent read by construction
// (no operation writes through the receiver). Any read-modify-write cycle
// against shared storage needs external coordination; see pkg/store.
package vclock

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
)

var (
	// ErrMalformedClock reports an empty or duplicated replica ID at
	// construction time.
	ErrMalformedClock = errors.New("malformed clock")

	// ErrParse reports encoded input that violates the clock grammar.
	ErrParse = errors.New("clock parse error")

	// ErrInvalidDelta reports a negative increment amount. Decrementing a
	// vector-clock entry would break the monotonicity contract; callers
	// needing decrement model it with a second clock (see pkg/counter).
	ErrInvalidDelta = errors.New("negative increment delta")

	// ErrOverflow reports a counter or sum that would exceed uint64.
	// Policy: fail, never wrap — silent wraparound would corrupt the
	// convergence guarantees.
	ErrOverflow = errors.New("counter overflow")
)

// VectorClock maps replica IDs to counters. The zero value is the empty
// clock (all replicas implicitly zero) and is ready to use.
type VectorClock struct {
	entries map[string]uint64 // explicit entries; zero values allowed
}

// Entry is a single (replica ID, counter) pair.
type Entry struct {
	Replica string `json:"replica"`
	Count   uint64 `json:"count"`
}

// New returns the empty clock.
func New() VectorClock {
	return VectorClock{}
}

// FromPairs builds a clock from explicit entries. It fails with
// ErrMalformedClock on an empty replica ID or a duplicated one.
func FromPairs(pairs ...Entry) (VectorClock, error) {
	entries := make(map[string]uint64, len(pairs))
	for _, p := range pairs {
		if p.Replica == "" {
			return VectorClock{}, fmt.Errorf("%w: empty replica id", ErrMalformedClock)
		}
		if _, dup := entries[p.Replica]; dup {
			return VectorClock{}, fmt.Errorf("%w: duplicate replica id %q", ErrMalformedClock, p.Replica)
		}
		entries[p.Replica] = p.Count
	}
	return VectorClock{entries: entries}, nil
}

// FromMap builds a clock from a map. The map is copied; the caller keeps
// ownership of its argument. Fails with ErrMalformedClock on an empty
// replica ID (duplicates cannot occur in a map).
func FromMap(m map[string]uint64) (VectorClock, error) {
	entries := make(map[string]uint64, len(m))
	for replica, count := range m {
		if replica == "" {
			return VectorClock{}, fmt.Errorf("%w: empty replica id", ErrMalformedClock)
		}
		entries[replica] = count
	}
	return VectorClock{entries: entries}, nil
}

// Get returns the counter for a replica, or 0 if the replica is absent.
// Never an error: absence is semantically a zero counter.
func (c VectorClock) Get(replica string) uint64 {
	return c.entries[replica]
}

// Len returns the number of present entries, explicit zeros included.
func (c VectorClock) Len() int {
	return len(c.entries)
}

// Entries returns all present entries sorted lexicographically by replica
// ID. The order is the one used by String, so it is stable across runs.
func (c VectorClock) Entries() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for replica, count := range c.entries {
		out = append(out, Entry{Replica: replica, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Replica < out[j].Replica })
	return out
}

// Equal reports whether two clocks have the same effective counters.
// An explicit zero entry equals an absent one; entry order is irrelevant.
func (c VectorClock) Equal(other VectorClock) bool {
	for replica, count := range c.entries {
		if count != 0 && other.entries[replica] != count {
			return false
		}
	}
	for replica, count := range other.entries {
		if count != 0 && c.entries[replica] != count {
			return false
		}
	}
	return true
}

// Hash64 returns a hash consistent with Equal: independent of insertion
// order and insensitive to present-but-zero vs absent entries.
func (c VectorClock) Hash64() uint64 {
	digest := xxhash.New()
	var buf [8]byte
	for _, e := range c.Entries() {
		if e.Count == 0 {
			continue
		}
		_, _ = digest.WriteString(e.Replica)
		_, _ = digest.Write([]byte{0}) // id/counter separator
		for i := 0; i < 8; i++ {
			buf[i] = byte(e.Count >> (8 * i))
		}
		_, _ = digest.Write(buf[:])
	}
	return digest.Sum64()
}

// clone returns a copy with its own non-nil entry map.
func (c VectorClock) clone() VectorClock {
	entries := make(map[string]uint64, len(c.entries)+1)
	for replica, count := range c.entries {
		entries[replica] = count
	}
	return VectorClock{entries: entries}
}

// Increment returns a new clock with the replica's counter increased by
// delta. An absent replica is created, so Increment with delta 0 makes the
// entry explicitly present. Fails with ErrMalformedClock on an empty
// replica ID, ErrInvalidDelta on delta < 0, and ErrOverflow if the counter
// would wrap.
func (c VectorClock) Increment(replica string, delta int64) (VectorClock, error) {
	if replica == "" {
		return VectorClock{}, fmt.Errorf("%w: empty replica id", ErrMalformedClock)
	}
	if delta < 0 {
		return VectorClock{}, fmt.Errorf("%w: %d", ErrInvalidDelta, delta)
	}
	current := c.entries[replica]
	if current > math.MaxUint64-uint64(delta) {
		return VectorClock{}, fmt.Errorf("%w: replica %q at %d + %d", ErrOverflow, replica, current, delta)
	}
	out := c.clone()
	out.entries[replica] = current + uint64(delta)
	return out, nil
}

// Merge returns the least upper bound of two clocks: for every replica
// present in either input, the maximum of the two counters. Commutative,
// associative, idempotent; the empty clock is the identity.
func (c VectorClock) Merge(other VectorClock) VectorClock {
	merged := make(map[string]uint64, len(c.entries)+len(other.entries))
	for replica, count := range c.entries {
		merged[replica] = count
	}
	for replica, count := range other.entries {
		if current, ok := merged[replica]; !ok || count > current {
			merged[replica] = count
		}
	}
	return VectorClock{entries: merged}
}

// MergeAll folds Merge over a sequence of clocks. The result is identical
// for every ordering of the same multiset of inputs — the property that
// makes it usable as an aggregate over a column of stored clocks.
func MergeAll(clocks ...VectorClock) VectorClock {
	out := New()
	for _, c := range clocks {
		out = out.Merge(c)
	}
	return out
}

// Causality is the outcome of comparing two clocks under the per-replica
// partial order (the happened-before relation).
type Causality int

const (
	Equal Causality = iota
	Before
	After
	Concurrent
)

func (r Causality) String() string {
	switch r {
	case Equal:
		return "equal"
	case Before:
		return "before"
	case After:
		return "after"
	case Concurrent:
		return "concurrent"
	default:
		return fmt.Sprintf("causality(%d)", int(r))
	}
}

// Compare relates two clocks: Before when every counter in c is <= the one
// in other and the clocks differ, After symmetrically, Equal when effective
// counters match, Concurrent when neither dominates. Absent counters count
// as zero, so explicit zero entries never affect the outcome.
func (c VectorClock) Compare(other VectorClock) Causality {
	var less, greater bool
	for replica, count := range c.entries {
		theirs := other.entries[replica]
		if count < theirs {
			less = true
		} else if count > theirs {
			greater = true
		}
	}
	for replica, theirs := range other.entries {
		if _, seen := c.entries[replica]; !seen && theirs > 0 {
			less = true
		}
	}
	switch {
	case less && greater:
		return Concurrent
	case less:
		return Before
	case greater:
		return After
	default:
		return Equal
	}
}

// Sum reduces the clock to a scalar: the sum of all counters. This is the
// grow-only counter reading of a clock. Fails with ErrOverflow instead of
// wrapping.
func (c VectorClock) Sum() (uint64, error) {
	var sum uint64
	for replica, count := range c.entries {
		if sum > math.MaxUint64-count {
			return 0, fmt.Errorf("%w: sum wraps uint64 at replica %q", ErrOverflow, replica)
		}
		sum += count
	}
	return sum, nil
}
