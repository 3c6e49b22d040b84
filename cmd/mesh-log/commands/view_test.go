package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mash-protocol/mesh-go/pkg/log"
)

func TestViewFormatsEvents(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	output := buf.String()

	expected := []string{
		"2026-01-28T10:15:32.123456Z [req:11111111] ALLOCATION NextGroupAddress FOUND",
		"Provisioner: prov-aaaa-1",
		"Space: GROUP",
		"Ranges: 0xC001-0xC00F",
		"Result: 0xC002",
		"IV index: 3",
		"Offset: 0x0001  Elements: 3",
		"Unavailable: 2",
		"PARTITION  NextGroupRange FOUND",
		"Space: GROUP  Size: 16  Claimed: 2",
		"Result: 0xC001-0xC00F",
		"Range: 0x0001-0x0002  Result: false",
		"Excluding node: node-1",
		"MUTATION   AddNode REJECTED",
		"Entity: node-2",
		"Value: 0x0001  Elements: 2",
		"Error: address not available",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q\noutput:\n%s", want, output)
		}
	}
}

func TestViewFilters(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	exhausted := log.OutcomeExhausted
	partition := log.CategoryPartition
	addNode := log.OpAddNode

	tests := []struct {
		name   string
		filter ViewFilter
		want   int
	}{
		{"none", ViewFilter{}, 5},
		{"outcome", ViewFilter{Outcome: &exhausted}, 2},
		{"category", ViewFilter{Category: &partition}, 1},
		{"operation", ViewFilter{Operation: &addNode}, 1},
		{"provisioner", ViewFilter{ProvisionerID: "prov-aaaa-1"}, 2},
		{"provisioner and outcome", ViewFilter{ProvisionerID: "prov-aaaa-1", Outcome: &exhausted}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := RunView(path, tt.filter, &buf); err != nil {
				t.Fatalf("RunView failed: %v", err)
			}
			if got := strings.Count(buf.String(), "[req:"); got != tt.want {
				t.Errorf("expected %d events, got %d", tt.want, got)
			}
		})
	}
}

func TestViewMissingFile(t *testing.T) {
	var buf bytes.Buffer
	if err := RunView("/nonexistent/file.alog", ViewFilter{}, &buf); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseFlags(t *testing.T) {
	t.Run("category", func(t *testing.T) {
		c, err := ParseCategoryFlag("Predicate")
		if err != nil || c != log.CategoryPredicate {
			t.Errorf("ParseCategoryFlag() = %v, %v", c, err)
		}
		if _, err := ParseCategoryFlag("message"); err == nil {
			t.Error("expected error for unknown category")
		}
	})

	t.Run("operation", func(t *testing.T) {
		op, err := ParseOperationFlag("nextgroupaddress")
		if err != nil || op != log.OpNextGroupAddress {
			t.Errorf("ParseOperationFlag() = %v, %v", op, err)
		}
		op, err = ParseOperationFlag("SetIVIndex")
		if err != nil || op != log.OpSetIVIndex {
			t.Errorf("ParseOperationFlag() = %v, %v", op, err)
		}
		if _, err := ParseOperationFlag("Read"); err == nil {
			t.Error("expected error for unknown operation")
		}
	})

	t.Run("outcome", func(t *testing.T) {
		o, err := ParseOutcomeFlag("COMMITTED")
		if err != nil || o != log.OutcomeCommitted {
			t.Errorf("ParseOutcomeFlag() = %v, %v", o, err)
		}
		if _, err := ParseOutcomeFlag("ok"); err == nil {
			t.Error("expected error for unknown outcome")
		}
	})
}
