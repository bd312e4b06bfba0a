package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
)

func (a *app) cmdInit(args []string) int {
	flags := flag.NewFlagSet("init", flag.ContinueOnError)
	replica := flags.String("replica", "", "replica ID to register (generated if empty)")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	dbPath := envOr("PGRDT_DB", defaultDB)

	replicaID := *replica
	if replicaID == "" {
		replicaID = a.replicaID
	}
	generated := false
	if replicaID == "" {
		// No identity anywhere; mint one. Replica IDs only have to be
		// unique among writers, so a UUID is more than enough.
		replicaID = uuid.NewString()
		generated = true
	}

	r, err := a.store.RegisterReplica(replicaID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pgrdt: init: register: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(map[string]interface{}{
			"db": dbPath, "replica": r.ID, "generated": generated,
		})
		return 0
	}

	fmt.Printf("initialized pgrdt (db: %s)\n", dbPath)
	fmt.Printf("  registered replica %q\n", r.ID)
	fmt.Println()
	fmt.Println("next steps:")
	fmt.Printf("  export PGRDT_REPLICA=%s\n", r.ID)
	fmt.Println("  pgrdt incr <counter>     # add to a counter")
	fmt.Println("  pgrdt value <counter>    # read it back")
	return 0
}
