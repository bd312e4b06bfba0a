package main

import (
	"flag"
	"fmt"
	"os"
)

func (a *app) cmdRegister(args []string) int {
	flags := flag.NewFlagSet("register", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: pgrdt register <replica-id> [--json]")
		return 1
	}

	r, err := a.store.RegisterReplica(flags.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "pgrdt: register: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(r)
	} else {
		fmt.Printf("registered replica %q\n", r.ID)
	}
	return 0
}
