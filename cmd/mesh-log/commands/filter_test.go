package commands

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/mash-protocol/mesh-go/pkg/log"
)

func readAll(t *testing.T, path string) []log.Event {
	t.Helper()
	reader, err := log.NewReader(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer reader.Close()

	var events []log.Event
	for {
		e, err := reader.Next()
		if err == io.EOF {
			return events
		}
		if err != nil {
			t.Fatalf("failed to read event: %v", err)
		}
		events = append(events, e)
	}
}

func TestFilterWritesMatchingEvents(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	tests := []struct {
		name string
		opts FilterOptions
		want []string
	}{
		{
			name: "outcome",
			opts: FilterOptions{Outcome: "exhausted"},
			want: []string{"22222222-bbbb", "44444444-dddd"},
		},
		{
			name: "operation",
			opts: FilterOptions{Operation: "AddNode"},
			want: []string{"55555555-eeee"},
		},
		{
			name: "category and provisioner",
			opts: FilterOptions{Category: "allocation", ProvisionerID: "prov-aaaa-1"},
			want: []string{"11111111-aaaa", "22222222-bbbb"},
		},
		{
			name: "time window",
			opts: FilterOptions{TimeStart: "2026-01-28T10:15:33Z", TimeEnd: "2026-01-28T10:15:35Z"},
			want: []string{"22222222-bbbb", "33333333-cccc"},
		},
		{
			name: "network",
			opts: FilterOptions{NetworkID: "net-2"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Output = filepath.Join(t.TempDir(), "out.alog")
			count, err := RunFilter(path, tt.opts)
			if err != nil {
				t.Fatalf("RunFilter failed: %v", err)
			}
			if count != len(tt.want) {
				t.Errorf("count = %d, want %d", count, len(tt.want))
			}

			events := readAll(t, tt.opts.Output)
			if len(events) != len(tt.want) {
				t.Fatalf("expected %d events, got %d", len(tt.want), len(events))
			}
			for i, e := range events {
				if e.RequestID != tt.want[i] {
					t.Errorf("event %d RequestID = %s, want %s", i, e.RequestID, tt.want[i])
				}
			}
		})
	}
}

func TestFilterInvalidOptions(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "out.alog")

	for _, opts := range []FilterOptions{
		{Output: out, TimeStart: "yesterday"},
		{Output: out, TimeEnd: "2026-13-01"},
		{Output: out, Category: "message"},
		{Output: out, Operation: "Read"},
		{Output: out, Outcome: "ok"},
	} {
		if _, err := RunFilter(path, opts); err == nil {
			t.Errorf("expected error for %+v", opts)
		}
	}
}
