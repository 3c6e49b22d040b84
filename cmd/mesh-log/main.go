// Command mesh-log is a tool for viewing and analyzing allocation log files.
//
// Log files are written by mesh-alloc when run with the -alloc-log flag, or
// by any program that sets a log.FileLogger on its mesh network.
//
// Usage:
//
//	mesh-log <command> [flags] <file.alog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	mesh-log view alloc.alog
//
//	# View only exhausted searches
//	mesh-log view --outcome exhausted alloc.alog
//
//	# View only group address searches
//	mesh-log view --operation NextGroupAddress alloc.alog
//
//	# Export to JSONL
//	mesh-log export --format jsonl alloc.alog
//
//	# Filter by provisioner and save to new file
//	mesh-log filter --provisioner-id 5f1c... -o phone.alog alloc.alog
//
//	# Show statistics
//	mesh-log stats alloc.alog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mash-protocol/mesh-go/cmd/mesh-log/commands"
)

const usage = `mesh-log - Mesh Allocation Log Analyzer

Usage:
  mesh-log <command> [flags] <file.alog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "mesh-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `mesh-log view - View log file in human-readable format

Usage:
  mesh-log view [flags] <file.alog>

Flags:
`)
		fs.PrintDefaults()
	}

	category := fs.String("category", "", "Filter by category (allocation, partition, predicate, mutation)")
	operation := fs.String("operation", "", "Filter by operation (e.g. NextUnicastAddress, AddNode)")
	outcome := fs.String("outcome", "", "Filter by outcome (found, exhausted, invalid, committed, rejected)")
	provisionerID := fs.String("provisioner-id", "", "Filter by provisioner UUID")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	// Build filter
	filter := commands.ViewFilter{ProvisionerID: *provisionerID}

	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fatal(err)
		}
		filter.Category = &c
	}

	if *operation != "" {
		op, err := commands.ParseOperationFlag(*operation)
		if err != nil {
			fatal(err)
		}
		filter.Operation = &op
	}

	if *outcome != "" {
		o, err := commands.ParseOutcomeFlag(*outcome)
		if err != nil {
			fatal(err)
		}
		filter.Outcome = &o
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fatal(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `mesh-log export - Export log file to JSONL or CSV format

Usage:
  mesh-log export [flags] <file.alog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunExport(fs.Arg(0), *format, *output); err != nil {
		fatal(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `mesh-log filter - Filter log file and write to new file

Usage:
  mesh-log filter [flags] <file.alog>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	networkID := fs.String("network-id", "", "Filter by network UUID")
	provisionerID := fs.String("provisioner-id", "", "Filter by provisioner UUID")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	category := fs.String("category", "", "Filter by category (allocation, partition, predicate, mutation)")
	operation := fs.String("operation", "", "Filter by operation (e.g. NextUnicastAddress, AddNode)")
	outcome := fs.String("outcome", "", "Filter by outcome (found, exhausted, invalid, committed, rejected)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	opts := commands.FilterOptions{
		Output:        *output,
		NetworkID:     *networkID,
		ProvisionerID: *provisionerID,
		TimeStart:     *timeStart,
		TimeEnd:       *timeEnd,
		Category:      *category,
		Operation:     *operation,
		Outcome:       *outcome,
	}

	count, err := commands.RunFilter(fs.Arg(0), opts)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Filtered %d events to %s\n", count, opts.Output)
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `mesh-log stats - Show statistics about the log file

Usage:
  mesh-log stats <file.alog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunStats(fs.Arg(0), os.Stdout); err != nil {
		fatal(err)
	}
}
