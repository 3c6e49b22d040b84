// Command mesh-alloc queries and edits the address space of a stored mesh
// network.
//
// Usage:
//
//	mesh-alloc [flags] <command> [args...]
//	mesh-alloc [flags] -interactive
//	mesh-alloc check [-v] <dir>
//
// Flags:
//
//	-state string        Network state file (.json or .yaml)
//	-name string         Network name used when the state file does not exist (default "Home")
//	-provisioner string  Provisioner (name or UUID) to allocate for (default: first)
//	-log-level string    Log level: debug, info, warn, error (default "info")
//	-alloc-log string    Append allocation events to this CBOR log file
//	-interactive         Enable interactive command mode
//	-reset               Clear the state file before starting
//
// Examples:
//
//	# Create a network with a provisioner
//	mesh-alloc -state home.json add-provisioner phone unicast=0x0001-0x7FFF group=0xC000-0xCFFF scenes=0x0001-0x0FFF
//
//	# Find room for a node with three elements
//	mesh-alloc -state home.json next-unicast 3
//
//	# Explore interactively, logging allocator decisions
//	mesh-alloc -state home.json -interactive -log-level debug
//
//	# Run allocation scenarios
//	mesh-alloc check internal/scenario/testdata
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mash-protocol/mesh-go/cmd/mesh-alloc/shell"
	alloclog "github.com/mash-protocol/mesh-go/pkg/log"
	"github.com/mash-protocol/mesh-go/pkg/mesh"
	"github.com/mash-protocol/mesh-go/pkg/persistence"
)

// Config holds the command configuration.
type Config struct {
	StatePath   string
	Name        string
	Provisioner string
	LogLevel    string
	AllocLog    string
	Interactive bool
	Reset       bool
}

var config Config

func init() {
	flag.StringVar(&config.StatePath, "state", "", "Network state file (.json or .yaml)")
	flag.StringVar(&config.Name, "name", "Home", "Network name used when the state file does not exist")
	flag.StringVar(&config.Provisioner, "provisioner", "", "Provisioner (name or UUID) to allocate for (default: first)")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&config.AllocLog, "alloc-log", "", "Append allocation events to this CBOR log file")
	flag.BoolVar(&config.Interactive, "interactive", false, "Enable interactive command mode")
	flag.BoolVar(&config.Reset, "reset", false, "Clear the state file before starting")
}

func main() {
	flag.Parse()

	level, err := parseLevel(config.LogLevel)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	setupLogging(level)

	args := flag.Args()
	if len(args) > 0 && args[0] == "check" {
		os.Exit(runCheck(args[1:], allocLogger(level)))
	}
	if len(args) == 0 && !config.Interactive {
		flag.Usage()
		os.Exit(2)
	}

	net := mesh.NewNetwork(config.Name)
	logger := allocLogger(level)
	if logger != nil {
		net.SetLogger(logger)
	}

	if config.StatePath != "" {
		store := persistence.NewNetworkStateStore(config.StatePath)
		if config.Reset {
			log.Println("Resetting persisted state...")
			if err := store.Clear(); err != nil {
				log.Printf("Warning: Failed to clear state: %v", err)
			}
		}
		net.SetStateStore(store)
		if err := net.LoadState(); err != nil {
			log.Fatalf("Failed to load state: %v", err)
		}
		debugLog.Debug("state loaded", "path", config.StatePath, "nodes", len(net.Nodes()))
	}

	if config.Interactive {
		runInteractive(net)
	} else {
		sh := shell.New(net, os.Stdout)
		if config.Provisioner != "" {
			if err := sh.Use(config.Provisioner); err != nil {
				log.Fatalf("%v", err)
			}
		}
		if err := sh.Exec(args); err != nil {
			saveState(net)
			closeLogger()
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	saveState(net)
	closeLogger()
}

func runInteractive(net *mesh.Network) {
	sh, err := shell.NewInteractive(net)
	if err != nil {
		log.Fatalf("Failed to create interactive shell: %v", err)
	}
	if config.Provisioner != "" {
		if err := sh.Use(config.Provisioner); err != nil {
			log.Fatalf("%v", err)
		}
	}

	// Redirect log output through readline to avoid interfering with input
	log.SetOutput(sh.Stdout())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sh.Run(ctx, cancel)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
	case <-ctx.Done():
	}
}

func saveState(net *mesh.Network) {
	if config.StatePath == "" {
		return
	}
	if err := net.SaveState(); err != nil {
		log.Printf("Warning: Failed to save state: %v", err)
	}
}

var (
	debugLog   *slog.Logger
	fileLogger *alloclog.FileLogger
)

// allocLogger builds the allocation event logger from the flags. It returns
// nil when no event output is configured.
func allocLogger(level slog.Level) alloclog.Logger {
	var loggers []alloclog.Logger
	if level <= slog.LevelDebug {
		loggers = append(loggers, alloclog.NewSlogAdapter(debugLog))
	}
	if config.AllocLog != "" && fileLogger == nil {
		fl, err := alloclog.NewFileLogger(config.AllocLog)
		if err != nil {
			log.Fatalf("Failed to open allocation log: %v", err)
		}
		fileLogger = fl
	}
	if fileLogger != nil {
		loggers = append(loggers, fileLogger)
	}

	switch len(loggers) {
	case 0:
		return nil
	case 1:
		return loggers[0]
	default:
		return alloclog.NewMultiLogger(loggers...)
	}
}

func closeLogger() {
	if fileLogger == nil {
		return
	}
	if err := fileLogger.Close(); err != nil {
		log.Printf("Warning: Failed to close allocation log: %v", err)
	}
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s (use: debug, info, warn, error)", s)
	}
}

func setupLogging(level slog.Level) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)
	if level <= slog.LevelDebug {
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	}

	debugLog = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
