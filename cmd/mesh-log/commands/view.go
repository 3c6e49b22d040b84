// Package commands implements the mesh-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/mash-protocol/mesh-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Category      *log.Category
	Operation     *log.Operation
	Outcome       *log.Outcome
	ProvisionerID string
}

func (f ViewFilter) logFilter() log.Filter {
	return log.Filter{
		Category:      f.Category,
		Operation:     f.Operation,
		Outcome:       f.Outcome,
		ProvisionerID: f.ProvisionerID,
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [req:id] CATEGORY Operation OUTCOME
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [req:%s] %-10s %s %s\n", ts, shortenID(event.RequestID),
		event.Category.String(), event.Operation.String(), event.Outcome.String())

	if event.ProvisionerID != "" {
		fmt.Fprintf(w, "  Provisioner: %s\n", event.ProvisionerID)
	}
	if event.IVIndex != 0 {
		fmt.Fprintf(w, "  IV index: %d\n", event.IVIndex)
	}

	switch {
	case event.Allocation != nil:
		formatAllocationDetails(w, event.Allocation)
	case event.Partition != nil:
		formatPartitionDetails(w, event.Partition)
	case event.Predicate != nil:
		formatPredicateDetails(w, event.Predicate)
	case event.Mutation != nil:
		formatMutationDetails(w, event.Mutation)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenID returns the first 8 characters of a UUID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatAllocationDetails(w io.Writer, a *log.AllocationEvent) {
	fmt.Fprintf(w, "  Space: %s\n", a.Space)
	if len(a.Ranges) > 0 {
		parts := make([]string, len(a.Ranges))
		for i, r := range a.Ranges {
			parts[i] = r.String()
		}
		fmt.Fprintf(w, "  Ranges: %s\n", strings.Join(parts, ", "))
	}
	if a.Offset != nil {
		fmt.Fprintf(w, "  Offset: %s  Elements: %d\n", *a.Offset, a.ElementsCount)
	}
	if a.Excluded > 0 {
		fmt.Fprintf(w, "  Unavailable: %d\n", a.Excluded)
	}
	if a.Result != nil {
		fmt.Fprintf(w, "  Result: 0x%04X\n", *a.Result)
	}
}

func formatPartitionDetails(w io.Writer, p *log.PartitionEvent) {
	fmt.Fprintf(w, "  Space: %s  Size: %d  Claimed: %d\n", p.Space, p.Size, p.Claimed)
	if p.Result != nil {
		fmt.Fprintf(w, "  Result: %s\n", *p.Result)
	}
}

func formatPredicateDetails(w io.Writer, p *log.PredicateEvent) {
	fmt.Fprintf(w, "  Range: %s  Result: %t\n", p.Range, p.Result)
	if p.ExcludingNode != "" {
		fmt.Fprintf(w, "  Excluding node: %s\n", p.ExcludingNode)
	}
}

func formatMutationDetails(w io.Writer, m *log.MutationEvent) {
	if m.Entity != "" {
		fmt.Fprintf(w, "  Entity: %s\n", m.Entity)
	}
	if m.Count > 0 {
		fmt.Fprintf(w, "  Value: 0x%04X  Elements: %d\n", m.Value, m.Count)
	} else {
		fmt.Fprintf(w, "  Value: 0x%04X\n", m.Value)
	}
	if m.Error != "" {
		fmt.Fprintf(w, "  Error: %s\n", m.Error)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	return parseCategory(s)
}

func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "allocation":
		return log.CategoryAllocation, nil
	case "partition":
		return log.CategoryPartition, nil
	case "predicate":
		return log.CategoryPredicate, nil
	case "mutation":
		return log.CategoryMutation, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be allocation, partition, predicate, or mutation)", s)
	}
}

// ParseOperationFlag parses an operation name such as "NextGroupAddress"
// (case-insensitive).
func ParseOperationFlag(s string) (log.Operation, error) {
	return parseOperation(s)
}

func parseOperation(s string) (log.Operation, error) {
	for op := log.OpNextUnicastAddress; op <= log.OpSetIVIndex; op++ {
		if strings.EqualFold(op.String(), s) {
			return op, nil
		}
	}
	return 0, fmt.Errorf("invalid operation: %s", s)
}

// ParseOutcomeFlag parses an outcome string from command-line flag (case-insensitive).
func ParseOutcomeFlag(s string) (log.Outcome, error) {
	return parseOutcome(s)
}

func parseOutcome(s string) (log.Outcome, error) {
	switch strings.ToLower(s) {
	case "found":
		return log.OutcomeFound, nil
	case "exhausted":
		return log.OutcomeExhausted, nil
	case "invalid":
		return log.OutcomeInvalid, nil
	case "committed":
		return log.OutcomeCommitted, nil
	case "rejected":
		return log.OutcomeRejected, nil
	default:
		return 0, fmt.Errorf("invalid outcome: %s (must be found, exhausted, invalid, committed, or rejected)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.logFilter())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
