package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func writeTestLog(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.alog")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return path
}

func readAll(t *testing.T, r *Reader) []Event {
	t.Helper()
	var events []Event
	for {
		e, err := r.Next()
		if err == io.EOF {
			return events
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		events = append(events, e)
	}
}

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []Event{
		{Timestamp: base, Category: CategoryAllocation, Operation: OpNextUnicastAddress, Outcome: OutcomeFound, ProvisionerID: "p1"},
		{Timestamp: base.Add(time.Second), Category: CategoryAllocation, Operation: OpNextGroupAddress, Outcome: OutcomeExhausted, ProvisionerID: "p2"},
		{Timestamp: base.Add(2 * time.Second), Category: CategoryMutation, Operation: OpAddNode, Outcome: OutcomeCommitted, ProvisionerID: "p1", NetworkID: "n1"},
	}
	path := writeTestLog(t, events)

	category := CategoryAllocation
	op := OpAddNode
	outcome := OutcomeExhausted
	start := base.Add(time.Second)
	end := base.Add(2 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"All", Filter{}, 3},
		{"Category", Filter{Category: &category}, 2},
		{"Operation", Filter{Operation: &op}, 1},
		{"Outcome", Filter{Outcome: &outcome}, 1},
		{"Provisioner", Filter{ProvisionerID: "p1"}, 2},
		{"Network", Filter{NetworkID: "n1"}, 1},
		{"TimeWindow", Filter{TimeStart: &start, TimeEnd: &end}, 1},
		{"NoMatch", Filter{ProvisionerID: "p3"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader() error = %v", err)
			}
			defer r.Close()

			if got := len(readAll(t, r)); got != tt.want {
				t.Errorf("got %d events, want %d", got, tt.want)
			}
		})
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "missing.alog")); err == nil {
		t.Fatal("NewReader() expected error for missing file")
	}
}
