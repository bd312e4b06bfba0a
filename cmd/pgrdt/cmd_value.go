package main

import (
	"flag"
	"fmt"
	"os"
)

func (a *app) cmdValue(args []string) int {
	flags := flag.NewFlagSet("value", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: pgrdt value <counter> [--json]")
		return 1
	}

	state, err := a.store.Counter(flags.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "pgrdt: value: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(map[string]interface{}{"name": state.Name, "value": state.Value})
	} else {
		fmt.Println(state.Value)
	}
	return 0
}

func (a *app) cmdShow(args []string) int {
	flags := flag.NewFlagSet("show", flag.ContinueOnError)
	showRows := flags.Bool("rows", false, "include raw per-replica rows")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: pgrdt show <counter> [--rows] [--json]")
		return 1
	}

	name := flags.Arg(0)
	state, err := a.store.Counter(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pgrdt: show: %v\n", err)
		return 1
	}

	if *jsonOut {
		result := map[string]interface{}{"counter": state}
		if *showRows {
			rows, err := a.store.ListRows(name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "pgrdt: show: %v\n", err)
				return 1
			}
			result["rows"] = rows
		}
		printJSON(result)
		return 0
	}

	fmt.Printf("%s = %d\n", state.Name, state.Value)
	fmt.Printf("  inc %s\n", state.Inc)
	fmt.Printf("  dec %s\n", state.Dec)
	if *showRows {
		rows, err := a.store.ListRows(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pgrdt: show: %v\n", err)
			return 1
		}
		fmt.Println("rows:")
		for _, r := range rows {
			fmt.Printf("  %-20s %-4s %s (updated %s)\n",
				r.Replica, r.Polarity, r.Clock, r.UpdatedAt.Format("15:04:05"))
		}
	}
	return 0
}

func (a *app) cmdList(args []string) int {
	flags := flag.NewFlagSet("list", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	states, err := a.store.ListCounters()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pgrdt: list: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(states)
		return 0
	}

	if len(states) == 0 {
		fmt.Println("no counters")
		return 0
	}
	for _, st := range states {
		fmt.Printf("%-30s %d\n", st.Name, st.Value)
	}
	return 0
}
