// Package store persists replicated counters in SQLite.
//
// SQLite is the row-oriented host for the clock algebra: every
// (counter, replica, polarity) triple owns one row holding an encoded
// vector clock. A writer only ever read-modify-writes its own replica's
// row, inside a transaction, so concurrent replicas never contend on row
// content — only on the database file, which WAL mode and the retry layer
// absorb. Readers aggregate a counter's rows by folding the clock join
// over the column, which is order-independent by construction.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Horusiath/pgrdt/pkg/counter"
	"github.com/Horusiath/pgrdt/pkg/model"
	"github.com/Horusiath/pgrdt/pkg/vclock"

	_ "modernc.org/sqlite"
)

// Store manages all SQLite operations with WAL mode for concurrent access.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database and initializes the schema.
func New(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(60000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// retryOnContention wraps retryOp from retry.go with the default config.
// All store write operations should use this to handle transient SQLite
// errors (BUSY, LOCKED, IOERR_SHORT_READ) under concurrent access.
func retryOnContention(fn func() error) error {
	return retryOp(defaultRetryConfig, fn)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS replicas (
		id         TEXT PRIMARY KEY,
		registered TEXT NOT NULL,
		last_seen  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS counters (
		name       TEXT NOT NULL,
		replica    TEXT NOT NULL REFERENCES replicas(id),
		polarity   TEXT NOT NULL CHECK (polarity IN ('inc', 'dec')),
		clock      TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (name, replica, polarity)
	);

	CREATE INDEX IF NOT EXISTS idx_counters_name ON counters(name, polarity);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ---------------------------------------------------------------------------
// Replicas
// ---------------------------------------------------------------------------

// RegisterReplica creates or updates a replica. Idempotent via ON CONFLICT.
func (s *Store) RegisterReplica(id string) (*model.Replica, error) {
	if id == "" {
		return nil, fmt.Errorf("register replica: empty id")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	err := retryOnContention(func() error {
		_, err := s.db.Exec(
			`INSERT INTO replicas (id, registered, last_seen)
			 VALUES (?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET last_seen = excluded.last_seen`,
			id, now, now,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetReplica(id)
}

// GetReplica retrieves a replica by ID.
func (s *Store) GetReplica(id string) (*model.Replica, error) {
	row := s.db.QueryRow(
		`SELECT id, registered, last_seen FROM replicas WHERE id = ?`, id,
	)
	var r model.Replica
	var regStr, lsStr string
	if err := row.Scan(&r.ID, &regStr, &lsStr); err != nil {
		return nil, err
	}
	var parseErr error
	r.Registered, parseErr = time.Parse(time.RFC3339Nano, regStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parse registered time for replica %s: %w", r.ID, parseErr)
	}
	r.LastSeen, parseErr = time.Parse(time.RFC3339Nano, lsStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parse last_seen time for replica %s: %w", r.ID, parseErr)
	}
	return &r, nil
}

// ListReplicas returns all registered replicas ordered by ID.
func (s *Store) ListReplicas() ([]model.Replica, error) {
	rows, err := s.db.Query(
		`SELECT id, registered, last_seen FROM replicas ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var replicas []model.Replica
	for rows.Next() {
		var r model.Replica
		var regStr, lsStr string
		if err := rows.Scan(&r.ID, &regStr, &lsStr); err != nil {
			return nil, err
		}
		var parseErr error
		r.Registered, parseErr = time.Parse(time.RFC3339Nano, regStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parse registered time for replica %s: %w", r.ID, parseErr)
		}
		r.LastSeen, parseErr = time.Parse(time.RFC3339Nano, lsStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parse last_seen time for replica %s: %w", r.ID, parseErr)
		}
		replicas = append(replicas, r)
	}
	return replicas, rows.Err()
}

// ---------------------------------------------------------------------------
// Counters
// ---------------------------------------------------------------------------

// Increment adds delta to a counter on behalf of a replica. delta must be
// non-negative; the replica must be registered.
func (s *Store) Increment(name, replica string, delta int64) (*model.CounterState, error) {
	return s.apply(name, replica, delta, model.PolarityInc)
}

// Decrement subtracts delta from a counter on behalf of a replica. delta
// is the magnitude and must be non-negative; it lands on the counter's
// decrement clock, keeping both clocks grow-only.
func (s *Store) Decrement(name, replica string, delta int64) (*model.CounterState, error) {
	return s.apply(name, replica, delta, model.PolarityDec)
}

// apply runs the read-modify-write cycle for one replica's row of one
// counter. The whole cycle is a single transaction: load the replica's
// clock, increment it, write it back. Two replicas updating the same
// counter touch different rows, so the transaction only guards against a
// concurrent writer acting as the same replica.
func (s *Store) apply(name, replica string, delta int64, polarity model.Polarity) (*model.CounterState, error) {
	if name == "" {
		return nil, fmt.Errorf("apply: empty counter name")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	err := retryOnContention(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		var registered int
		if err := tx.QueryRow(
			`SELECT COUNT(*) FROM replicas WHERE id = ?`, replica,
		).Scan(&registered); err != nil {
			return err
		}
		if registered == 0 {
			return fmt.Errorf("replica %q is not registered", replica)
		}

		clk := vclock.New()
		var encoded string
		err = tx.QueryRow(
			`SELECT clock FROM counters WHERE name = ? AND replica = ? AND polarity = ?`,
			name, replica, string(polarity),
		).Scan(&encoded)
		switch err {
		case nil:
			clk, err = vclock.Parse(encoded)
			if err != nil {
				return fmt.Errorf("corrupt clock row %s/%s/%s: %w", name, replica, polarity, err)
			}
		case sql.ErrNoRows:
			// First update from this replica; start from the empty clock.
		default:
			return err
		}

		clk, err = clk.Increment(replica, delta)
		if err != nil {
			return fmt.Errorf("increment %s for %s: %w", name, replica, err)
		}

		if _, err := tx.Exec(
			`INSERT INTO counters (name, replica, polarity, clock, updated_at)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(name, replica, polarity) DO UPDATE SET
			   clock = excluded.clock,
			   updated_at = excluded.updated_at`,
			name, replica, string(polarity), clk.String(), now,
		); err != nil {
			return err
		}

		if _, err := tx.Exec(
			`UPDATE replicas SET last_seen = ? WHERE id = ?`, now, replica,
		); err != nil {
			return err
		}

		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return s.Counter(name)
}

// Counter returns the aggregated state of a counter: every stored row's
// clock folded with the join, per polarity, reduced to a scalar. A counter
// with no rows is valid and reads as zero.
func (s *Store) Counter(name string) (*model.CounterState, error) {
	pn, err := s.counterPN(name)
	if err != nil {
		return nil, err
	}
	value, err := pn.Value()
	if err != nil {
		return nil, fmt.Errorf("counter %s: %w", name, err)
	}
	return &model.CounterState{
		Name:  name,
		Inc:   pn.Inc.String(),
		Dec:   pn.Dec.String(),
		Value: value,
	}, nil
}

// Value returns just the scalar value of a counter.
func (s *Store) Value(name string) (int64, error) {
	state, err := s.Counter(name)
	if err != nil {
		return 0, err
	}
	return state.Value, nil
}

// counterPN loads and merges all rows of a counter into a PN-Counter.
func (s *Store) counterPN(name string) (counter.PNCounter, error) {
	rows, err := s.db.Query(
		`SELECT polarity, clock FROM counters WHERE name = ?`, name,
	)
	if err != nil {
		return counter.PNCounter{}, err
	}
	defer rows.Close()

	pn := counter.NewPNCounter()
	for rows.Next() {
		var polStr, encoded string
		if err := rows.Scan(&polStr, &encoded); err != nil {
			return counter.PNCounter{}, err
		}
		polarity, err := model.ParsePolarity(polStr)
		if err != nil {
			return counter.PNCounter{}, fmt.Errorf("counter %s: %w", name, err)
		}
		clk, err := vclock.Parse(encoded)
		if err != nil {
			return counter.PNCounter{}, fmt.Errorf("corrupt clock row for counter %s: %w", name, err)
		}
		switch polarity {
		case model.PolarityInc:
			pn.Inc = pn.Inc.Merge(clk)
		case model.PolarityDec:
			pn.Dec = pn.Dec.Merge(clk)
		}
	}
	return pn, rows.Err()
}

// ListCounters returns the aggregated state of every counter, ordered by
// name.
func (s *Store) ListCounters() ([]model.CounterState, error) {
	rows, err := s.db.Query(`SELECT DISTINCT name FROM counters ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var states []model.CounterState
	for _, name := range names {
		state, err := s.Counter(name)
		if err != nil {
			return nil, err
		}
		states = append(states, *state)
	}
	return states, nil
}

// ListRows returns the raw stored rows of a counter, ordered by replica
// then polarity. Used by the CLI's verbose views.
func (s *Store) ListRows(name string) ([]model.CounterRow, error) {
	rows, err := s.db.Query(
		`SELECT name, replica, polarity, clock, updated_at
		 FROM counters WHERE name = ?
		 ORDER BY replica, polarity`, name,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CounterRow
	for rows.Next() {
		var r model.CounterRow
		var polStr, updStr string
		if err := rows.Scan(&r.Name, &r.Replica, &polStr, &r.Clock, &updStr); err != nil {
			return nil, err
		}
		r.Polarity, err = model.ParsePolarity(polStr)
		if err != nil {
			return nil, err
		}
		r.UpdatedAt, err = time.Parse(time.RFC3339Nano, updStr)
		if err != nil {
			return nil, fmt.Errorf("parse updated_at for %s/%s: %w", r.Name, r.Replica, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
