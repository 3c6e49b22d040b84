// Package log provides structured allocation logging for mesh networks.
//
// This package defines the Logger interface and Event types for capturing
// every allocator query and network mutation: which provisioner asked for
// what, under which IV index, and what the allocator handed out. It is
// separate from operational logging (slog) - the allocation log is a complete
// machine-readable trace for auditing how the address space was partitioned.
//
// # Basic Usage
//
// Networks are configured with a Logger implementation:
//
//	// For development: log to console via slog
//	network.SetLogger(log.NewSlogAdapter(slog.Default()))
//
//	// For production: write to binary file
//	fl, _ := log.NewFileLogger("/var/lib/mesh/network.alog")
//	network.SetLogger(fl)
//
//	// Both: use MultiLogger
//	network.SetLogger(log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl))
//
// # Event Types
//
// Each event carries exactly one payload:
//   - Allocation: single-slot or block searches (AllocationEvent)
//   - Partition: searches for unclaimed ranges to delegate (PartitionEvent)
//   - Predicate: availability checks (PredicateEvent)
//   - Mutation: nodes, groups, scenes and provisioners added or removed (MutationEvent)
//
// # File Format
//
// Log files use CBOR encoding with .alog extension. The mesh-log CLI tool
// provides viewing, statistics and export.
package log
