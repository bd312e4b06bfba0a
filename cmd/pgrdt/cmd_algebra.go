// cmd_algebra.go implements the pure clock commands: merge, compare,
// valueof, and fmt. They operate on clock literals from the command line
// and never open the database — the same operations the store applies to
// rows, exposed directly for scripting and debugging.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Horusiath/pgrdt/pkg/vclock"
)

// parseClockArg decodes one clock literal, reporting parse failures in
// the CLI's error style.
func parseClockArg(verb, literal string) (vclock.VectorClock, bool) {
	c, err := vclock.Parse(literal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pgrdt: %s: %v\n", verb, err)
		return vclock.VectorClock{}, false
	}
	return c, true
}

func cmdMerge(args []string) int {
	flags := flag.NewFlagSet("merge", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "usage: pgrdt merge <clock> <clock> [<clock>...] [--json]")
		return 1
	}

	clocks := make([]vclock.VectorClock, 0, flags.NArg())
	for _, arg := range flags.Args() {
		c, ok := parseClockArg("merge", arg)
		if !ok {
			return 1
		}
		clocks = append(clocks, c)
	}
	merged := vclock.MergeAll(clocks...)

	if *jsonOut {
		printJSON(map[string]interface{}{"result": merged.String()})
	} else {
		fmt.Println(merged.String())
	}
	return 0
}

func cmdCompare(args []string) int {
	flags := flag.NewFlagSet("compare", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: pgrdt compare <clock-a> <clock-b> [--json]")
		return 1
	}

	a, ok := parseClockArg("compare", flags.Arg(0))
	if !ok {
		return 1
	}
	b, ok := parseClockArg("compare", flags.Arg(1))
	if !ok {
		return 1
	}

	rel := a.Compare(b)
	if *jsonOut {
		printJSON(map[string]interface{}{"relation": rel.String()})
	} else {
		fmt.Println(rel)
	}
	// Concurrent clocks get their own exit code so scripts can branch on
	// "no causal order" without parsing output.
	if rel == vclock.Concurrent {
		return 2
	}
	return 0
}

func cmdValueOf(args []string) int {
	flags := flag.NewFlagSet("valueof", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: pgrdt valueof <clock> [--json]")
		return 1
	}

	c, ok := parseClockArg("valueof", flags.Arg(0))
	if !ok {
		return 1
	}
	sum, err := c.Sum()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pgrdt: valueof: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(map[string]interface{}{"value": sum})
	} else {
		fmt.Println(sum)
	}
	return 0
}

func cmdFmt(args []string) int {
	flags := flag.NewFlagSet("fmt", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: pgrdt fmt <clock> [--json]")
		return 1
	}

	c, ok := parseClockArg("fmt", flags.Arg(0))
	if !ok {
		return 1
	}

	if *jsonOut {
		printJSON(map[string]interface{}{"canonical": c.String()})
	} else {
		fmt.Println(c.String())
	}
	return 0
}
