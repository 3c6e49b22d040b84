package log

import (
	"testing"
	"time"

	"github.com/mash-protocol/mesh-go/pkg/address"
)

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NoopLogger{}

	event := Event{
		Timestamp: time.Now(),
		RequestID: "test-request",
		Category:  CategoryAllocation,
		Operation: OpNextGroupAddress,
	}
	logger.Log(event)

	event.Allocation = &AllocationEvent{Space: SpaceGroup}
	logger.Log(event)

	event.Allocation = nil
	event.Partition = &PartitionEvent{Space: SpaceGroup, Size: 1}
	logger.Log(event)

	event.Partition = nil
	event.Predicate = &PredicateEvent{Range: address.NewRange(1, 2)}
	logger.Log(event)

	event.Predicate = nil
	event.Mutation = &MutationEvent{Entity: "node", Error: "boom"}
	logger.Log(event)
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	var logger NoopLogger
	logger.Log(Event{})
}

func TestOperationCategory(t *testing.T) {
	tests := []struct {
		op   Operation
		want Category
	}{
		{OpNextUnicastAddress, CategoryAllocation},
		{OpNextGroupAddress, CategoryAllocation},
		{OpNextScene, CategoryAllocation},
		{OpNextUnicastRange, CategoryPartition},
		{OpNextGroupRange, CategoryPartition},
		{OpNextSceneRange, CategoryPartition},
		{OpRangeAvailable, CategoryPredicate},
		{OpAddressAvailable, CategoryPredicate},
		{OpAddNode, CategoryMutation},
		{OpSetIVIndex, CategoryMutation},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			if got := tt.op.Category(); got != tt.want {
				t.Errorf("Category() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnumStrings(t *testing.T) {
	if got := Operation(200).String(); got != "Unknown" {
		t.Errorf("Operation(200).String() = %q", got)
	}
	if got := Outcome(200).String(); got != "UNKNOWN" {
		t.Errorf("Outcome(200).String() = %q", got)
	}
	if got := SpaceScene.String(); got != "SCENE" {
		t.Errorf("SpaceScene.String() = %q", got)
	}
	if got := CategoryMutation.String(); got != "MUTATION" {
		t.Errorf("CategoryMutation.String() = %q", got)
	}
}
