package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Horusiath/pgrdt/pkg/store"
)

const (
	defaultDir = ".pgrdt"
	defaultDB  = ".pgrdt/pgrdt.db"
)

// app holds shared state for all CLI subcommands.
type app struct {
	store     *store.Store
	replicaID string // default replica from PGRDT_REPLICA
}

// newApp opens the database and resolves the default replica identity.
// Creates the .pgrdt/ directory if using the default DB path.
func newApp() (*app, error) {
	dbPath := envOr("PGRDT_DB", defaultDB)
	if dbPath == defaultDB {
		if err := os.MkdirAll(defaultDir, 0755); err != nil {
			return nil, fmt.Errorf("cannot create %s: %w", defaultDir, err)
		}
	}
	s, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open database %q: %w", dbPath, err)
	}
	return &app{
		store:     s,
		replicaID: envOr("PGRDT_REPLICA", ""),
	}, nil
}

// Close releases the database connection.
func (a *app) Close() { a.store.Close() }

// resolveReplica returns the replica ID from the flag (if non-empty),
// falling back to the PGRDT_REPLICA environment variable.
func (a *app) resolveReplica(flagVal string) (string, error) {
	if flagVal != "" {
		return flagVal, nil
	}
	if a.replicaID != "" {
		return a.replicaID, nil
	}
	return "", fmt.Errorf("no replica ID: pass --replica or set PGRDT_REPLICA")
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
