package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/Horusiath/pgrdt/pkg/model"
)

func (a *app) cmdIncr(args []string) int {
	return a.applyDelta("incr", "+", args, a.store.Increment)
}

func (a *app) cmdDecr(args []string) int {
	return a.applyDelta("decr", "-", args, a.store.Decrement)
}

// applyDelta is the shared body of incr and decr: parse the counter name
// and optional amount, resolve the acting replica, apply the store op,
// and report the new aggregated state.
func (a *app) applyDelta(verb, sign string, args []string, op func(name, replica string, delta int64) (*model.CounterState, error)) int {
	flags := flag.NewFlagSet(verb, flag.ContinueOnError)
	replica := flags.String("replica", "", "acting replica ID")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "usage: pgrdt %s <counter> [n] [--replica ID] [--json]\n", verb)
		return 1
	}

	name := flags.Arg(0)
	delta := int64(1)
	if flags.NArg() >= 2 {
		var err error
		delta, err = strconv.ParseInt(flags.Arg(1), 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pgrdt: %s: amount %q is not an integer\n", verb, flags.Arg(1))
			return 1
		}
		if delta < 0 {
			fmt.Fprintf(os.Stderr, "pgrdt: %s: amount must be non-negative (use decr to subtract)\n", verb)
			return 1
		}
	}

	replicaID, err := a.resolveReplica(*replica)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pgrdt: %v\n", err)
		return 1
	}

	state, err := op(name, replicaID, delta)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pgrdt: %s: %v\n", verb, err)
		return 1
	}

	if *jsonOut {
		printJSON(state)
	} else {
		fmt.Printf("%s = %d (%s%d by %s)\n", state.Name, state.Value, sign, delta, replicaID)
	}
	return 0
}
