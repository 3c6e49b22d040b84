package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mash-protocol/mesh-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByCategory  map[log.Category]int
	EventsByOperation map[log.Operation]int
	EventsByOutcome   map[log.Outcome]int
	Provisioners      map[string]*ProvisionerStats
	Networks          map[string]int
	RejectedMutations int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// ProvisionerStats holds statistics for the requests made for one
// provisioner.
type ProvisionerStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Found     int
	Exhausted int
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory:  make(map[log.Category]int),
		EventsByOperation: make(map[log.Operation]int),
		EventsByOutcome:   make(map[log.Outcome]int),
		Provisioners:      make(map[string]*ProvisionerStats),
		Networks:          make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++
	s.EventsByOperation[event.Operation]++
	s.EventsByOutcome[event.Outcome]++

	// Track time range
	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	if event.NetworkID != "" {
		s.Networks[event.NetworkID]++
	}
	if event.Outcome == log.OutcomeRejected {
		s.RejectedMutations++
	}

	if event.ProvisionerID == "" {
		return
	}
	p, ok := s.Provisioners[event.ProvisionerID]
	if !ok {
		p = &ProvisionerStats{
			FirstSeen: event.Timestamp,
			LastSeen:  event.Timestamp,
		}
		s.Provisioners[event.ProvisionerID] = p
	}
	p.Events++
	if event.Timestamp.After(p.LastSeen) {
		p.LastSeen = event.Timestamp
	}
	switch event.Outcome {
	case log.OutcomeFound:
		p.Found++
	case log.OutcomeExhausted:
		p.Exhausted++
	}
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Mesh Allocation Log Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintf(w, "Networks:     %d\n", len(stats.Networks))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryAllocation, log.CategoryPartition, log.CategoryPredicate, log.CategoryMutation} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-20s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Operation:")
	for op := log.OpNextUnicastAddress; op <= log.OpSetIVIndex; op++ {
		if count := stats.EventsByOperation[op]; count > 0 {
			fmt.Fprintf(w, "  %-20s %d\n", op.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Outcome:")
	for _, o := range []log.Outcome{log.OutcomeFound, log.OutcomeExhausted, log.OutcomeInvalid, log.OutcomeCommitted, log.OutcomeRejected} {
		if count := stats.EventsByOutcome[o]; count > 0 {
			fmt.Fprintf(w, "  %-20s %d\n", o.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Provisioners: %d\n", len(stats.Provisioners))
	if len(stats.Provisioners) > 0 {
		// Sort by first seen time
		type provInfo struct {
			id    string
			stats *ProvisionerStats
		}
		provs := make([]provInfo, 0, len(stats.Provisioners))
		for id, ps := range stats.Provisioners {
			provs = append(provs, provInfo{id, ps})
		}
		sort.Slice(provs, func(i, j int) bool {
			if provs[i].stats.FirstSeen.Equal(provs[j].stats.FirstSeen) {
				return provs[i].id < provs[j].id
			}
			return provs[i].stats.FirstSeen.Before(provs[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, p := range provs {
			fmt.Fprintf(w, "  [%s] %d events, %d found, %d exhausted\n",
				shortenID(p.id), p.stats.Events, p.stats.Found, p.stats.Exhausted)
		}
	}

	if stats.RejectedMutations > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Rejected mutations: %d\n", stats.RejectedMutations)
	}
}
