package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mash-protocol/mesh-go/internal/scenario"
	alloclog "github.com/mash-protocol/mesh-go/pkg/log"
)

// runCheck runs every scenario file in a directory, or a single scenario
// file, and returns the process exit code.
func runCheck(args []string, logger alloclog.Logger) int {
	defer closeLogger()

	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `mesh-alloc check - Run allocation scenarios

Usage:
  mesh-alloc check [flags] <dir|file.yaml>

Flags:
`)
		fs.PrintDefaults()
	}
	verbose := fs.Bool("v", false, "Show passing steps")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: scenario path required")
		fs.Usage()
		return 2
	}

	path := fs.Arg(0)
	scenarios, err := loadScenarios(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	result := scenario.NewRunner(logger).RunSuite(filepath.Base(path), scenarios)
	scenario.NewTextReporter(os.Stdout, *verbose).ReportSuite(result)

	if result.FailCount > 0 {
		return 1
	}
	return 0
}

func loadScenarios(path string) ([]*scenario.Scenario, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return scenario.LoadDirectory(path)
	}
	sc, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}
	return []*scenario.Scenario{sc}, nil
}
