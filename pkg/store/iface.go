// iface.go defines the StoreInterface for dependency injection and testing.
//
// The concrete *Store type satisfies this interface. Code that depends on
// the store (e.g., the cmd layer) can accept StoreInterface instead of
// *Store, enabling mock injection in tests.
package store

import (
	"github.com/Horusiath/pgrdt/pkg/model"
)

// StoreInterface defines the full set of store operations.
// The concrete *Store type implements this interface.
type StoreInterface interface {
	// Close closes the database connection.
	Close() error

	// --- Replicas ---

	// RegisterReplica creates or updates a replica. Idempotent.
	RegisterReplica(id string) (*model.Replica, error)

	// GetReplica retrieves a replica by ID.
	GetReplica(id string) (*model.Replica, error)

	// ListReplicas returns all registered replicas ordered by ID.
	ListReplicas() ([]model.Replica, error)

	// --- Counters ---

	// Increment adds delta to a counter on behalf of a replica.
	Increment(name, replica string, delta int64) (*model.CounterState, error)

	// Decrement subtracts delta from a counter on behalf of a replica.
	Decrement(name, replica string, delta int64) (*model.CounterState, error)

	// Counter returns the aggregated state of a counter.
	Counter(name string) (*model.CounterState, error)

	// Value returns the scalar value of a counter.
	Value(name string) (int64, error)

	// ListCounters returns the state of every counter, ordered by name.
	ListCounters() ([]model.CounterState, error)

	// ListRows returns the raw stored rows of a counter.
	ListRows(name string) ([]model.CounterRow, error)
}

// Compile-time check that *Store implements StoreInterface.
var _ StoreInterface = (*Store)(nil)
