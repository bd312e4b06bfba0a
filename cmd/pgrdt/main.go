// Command pgrdt is the replicated-counter CLI — grow-only and
// positive/negative counters built from vector clocks, persisted as
// encoded clock rows in a shared SQLite database.
package main

import (
	"fmt"
	"os"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "--help", "-h", "help":
		printUsage()
		return
	case "--version", "-v", "version":
		fmt.Println("pgrdt", version)
		return

	// Clock algebra on literals — pure, no database involved.
	case "merge":
		os.Exit(cmdMerge(os.Args[2:]))
	case "compare":
		os.Exit(cmdCompare(os.Args[2:]))
	case "valueof":
		os.Exit(cmdValueOf(os.Args[2:]))
	case "fmt":
		os.Exit(cmdFmt(os.Args[2:]))
	}

	a, err := newApp()
	if err != nil {
		fatal("%v", err)
	}
	defer a.Close()

	switch os.Args[1] {
	// Setup
	case "init":
		os.Exit(a.cmdInit(os.Args[2:]))
	case "register":
		os.Exit(a.cmdRegister(os.Args[2:]))

	// Counter operations
	case "incr":
		os.Exit(a.cmdIncr(os.Args[2:]))
	case "decr":
		os.Exit(a.cmdDecr(os.Args[2:]))
	case "value":
		os.Exit(a.cmdValue(os.Args[2:]))
	case "show":
		os.Exit(a.cmdShow(os.Args[2:]))
	case "list":
		os.Exit(a.cmdList(os.Args[2:]))
	case "status":
		os.Exit(a.cmdStatus(os.Args[2:]))

	default:
		fmt.Fprintf(os.Stderr, "pgrdt: unknown command %q\n", os.Args[1])
		fmt.Fprintln(os.Stderr, "Run 'pgrdt --help' for usage.")
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`pgrdt — replicated counters over shared SQLite

Vector clocks for causal history. PN-Counters for the values.
Each replica writes only its own rows; reads merge the column.

Usage:
  pgrdt <command> [flags]

Setup:
  init [--replica ID]       Initialize the database, register this replica
  register <id>             Register a replica identity

Counters:
  incr <counter> [n]        Add n (default 1) to a counter
  decr <counter> [n]        Subtract n (default 1) from a counter
  value <counter>           Print the counter's scalar value
  show <counter> [--rows]   Merged clocks, value, optionally raw rows
  list                      All counters with their values
  status                    Replicas and counters overview

Clock algebra (no database):
  merge <clock> <clock>...  Join clock literals, print the result
  compare <a> <b>           Relate two clocks (equal/before/after/concurrent)
  valueof <clock>           Sum of a clock's counters
  fmt <clock>               Validate and canonicalize a clock literal

Environment:
  PGRDT_DB         SQLite database path (default: .pgrdt/pgrdt.db)
  PGRDT_REPLICA    Default replica ID (avoids passing --replica every time)

All commands support --json for machine-readable output.

Exit codes:
  0  success
  1  error
  2  concurrent (compare only)
`)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "pgrdt: "+format+"\n", args...)
	os.Exit(1)
}
