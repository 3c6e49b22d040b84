package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mash-protocol/mesh-go/pkg/address"
	"github.com/mash-protocol/mesh-go/pkg/log"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.alog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

var testStart = time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)

// sampleEvents returns one event of each category.
func sampleEvents() []log.Event {
	result := uint16(0xC002)
	groups := address.NewRange(0xC001, 0xC00F)
	unicast := address.NewRange(0x0001, 0x0002)
	offset := address.Address(0x0001)

	return []log.Event{
		{
			Timestamp:     testStart,
			RequestID:     "11111111-aaaa",
			NetworkID:     "net-1",
			ProvisionerID: "prov-aaaa-1",
			Category:      log.CategoryAllocation,
			Operation:     log.OpNextGroupAddress,
			Outcome:       log.OutcomeFound,
			Allocation: &log.AllocationEvent{
				Space:  log.SpaceGroup,
				Ranges: []address.AddressRange{groups},
				Result: &result,
			},
		},
		{
			Timestamp:     testStart.Add(time.Second),
			RequestID:     "22222222-bbbb",
			NetworkID:     "net-1",
			ProvisionerID: "prov-aaaa-1",
			IVIndex:       3,
			Category:      log.CategoryAllocation,
			Operation:     log.OpNextUnicastAddress,
			Outcome:       log.OutcomeExhausted,
			Allocation: &log.AllocationEvent{
				Space:         log.SpaceUnicast,
				Ranges:        []address.AddressRange{unicast},
				Offset:        &offset,
				ElementsCount: 3,
				Excluded:      2,
			},
		},
		{
			Timestamp: testStart.Add(2 * time.Second),
			RequestID: "33333333-cccc",
			NetworkID: "net-1",
			Category:  log.CategoryPartition,
			Operation: log.OpNextGroupRange,
			Outcome:   log.OutcomeFound,
			Partition: &log.PartitionEvent{
				Space:   log.SpaceGroup,
				Size:    16,
				Claimed: 2,
				Result:  &groups,
			},
		},
		{
			Timestamp: testStart.Add(3 * time.Second),
			RequestID: "44444444-dddd",
			NetworkID: "net-1",
			Category:  log.CategoryPredicate,
			Operation: log.OpRangeAvailable,
			Outcome:   log.OutcomeExhausted,
			Predicate: &log.PredicateEvent{
				Range:         unicast,
				ExcludingNode: "node-1",
				Result:        false,
			},
		},
		{
			Timestamp: testStart.Add(4 * time.Second),
			RequestID: "55555555-eeee",
			NetworkID: "net-1",
			Category:  log.CategoryMutation,
			Operation: log.OpAddNode,
			Outcome:   log.OutcomeRejected,
			Mutation: &log.MutationEvent{
				Entity: "node-2",
				Value:  0x0001,
				Count:  2,
				Error:  "address not available",
			},
		},
	}
}
