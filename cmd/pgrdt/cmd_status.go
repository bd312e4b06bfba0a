package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Horusiath/pgrdt/pkg/model"
)

func (a *app) cmdStatus(args []string) int {
	flags := flag.NewFlagSet("status", flag.ContinueOnError)
	replica := flags.String("replica", "", "replica ID (optional, marks your row)")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	// Best-effort replica resolution (status works without one).
	replicaID, _ := a.resolveReplica(*replica)

	replicas, err := a.store.ListReplicas()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pgrdt: status: %v\n", err)
		return 1
	}
	counters, err := a.store.ListCounters()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pgrdt: status: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(map[string]interface{}{
			"replicas": replicas,
			"counters": counters,
		})
		return 0
	}

	fmt.Println("replicas:")
	if len(replicas) == 0 {
		fmt.Println("  none (run 'pgrdt init')")
	}
	for _, r := range replicas {
		marker := ""
		if r.ID == replicaID {
			marker = " <-- you"
		}
		fmt.Printf("  %s %-36s last_seen=%s%s\n",
			presenceIndicator(r), r.ID, r.LastSeen.Format("15:04:05"), marker)
	}

	fmt.Println("counters:")
	if len(counters) == 0 {
		fmt.Println("  none")
	}
	for _, st := range counters {
		fmt.Printf("  %-30s %-8d inc=%s dec=%s\n", st.Name, st.Value, st.Inc, st.Dec)
	}
	return 0
}

// presenceIndicator returns a short marker based on last_seen time:
// [+] written within 2 minutes, [~] within 10, [-] otherwise.
func presenceIndicator(r model.Replica) string {
	since := time.Since(r.LastSeen)
	switch {
	case since < 2*time.Minute:
		return "[+]"
	case since < 10*time.Minute:
		return "[~]"
	default:
		return "[-]"
	}
}
