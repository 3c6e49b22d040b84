package log

import (
	"time"

	"github.com/mash-protocol/mesh-go/pkg/address"
)

// Event represents an allocation log event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// RequestID uniquely identifies the call that produced the event (UUID).
	RequestID string `cbor:"2,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// Operation is the allocator or network operation performed.
	Operation Operation `cbor:"4,keyasint"`

	// Outcome summarizes the result.
	Outcome Outcome `cbor:"5,keyasint"`

	// NetworkID identifies the mesh network (UUID).
	NetworkID string `cbor:"6,keyasint,omitempty"`

	// ProvisionerID identifies the provisioner the request was made for.
	ProvisionerID string `cbor:"7,keyasint,omitempty"`

	// IVIndex is the network IV index at the time of the event.
	IVIndex uint32 `cbor:"8,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Allocation *AllocationEvent `cbor:"10,keyasint,omitempty"`
	Partition  *PartitionEvent  `cbor:"11,keyasint,omitempty"`
	Predicate  *PredicateEvent  `cbor:"12,keyasint,omitempty"`
	Mutation   *MutationEvent   `cbor:"13,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryAllocation indicates a single-slot or block search.
	CategoryAllocation Category = 0
	// CategoryPartition indicates a search for an unclaimed range.
	CategoryPartition Category = 1
	// CategoryPredicate indicates an availability check.
	CategoryPredicate Category = 2
	// CategoryMutation indicates a change to the network.
	CategoryMutation Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryAllocation:
		return "ALLOCATION"
	case CategoryPartition:
		return "PARTITION"
	case CategoryPredicate:
		return "PREDICATE"
	case CategoryMutation:
		return "MUTATION"
	default:
		return "UNKNOWN"
	}
}

// Operation identifies what was requested.
type Operation uint8

const (
	OpNextUnicastAddress Operation = iota
	OpNextGroupAddress
	OpNextScene
	OpNextUnicastRange
	OpNextGroupRange
	OpNextSceneRange
	OpRangeAvailable
	OpAddressAvailable
	OpAddNode
	OpRemoveNode
	OpAddGroup
	OpRemoveGroup
	OpAddScene
	OpRemoveScene
	OpAddProvisioner
	OpRemoveProvisioner
	OpSetIVIndex
)

var operationNames = [...]string{
	OpNextUnicastAddress: "NextUnicastAddress",
	OpNextGroupAddress:   "NextGroupAddress",
	OpNextScene:          "NextScene",
	OpNextUnicastRange:   "NextUnicastRange",
	OpNextGroupRange:     "NextGroupRange",
	OpNextSceneRange:     "NextSceneRange",
	OpRangeAvailable:     "RangeAvailable",
	OpAddressAvailable:   "AddressAvailable",
	OpAddNode:            "AddNode",
	OpRemoveNode:         "RemoveNode",
	OpAddGroup:           "AddGroup",
	OpRemoveGroup:        "RemoveGroup",
	OpAddScene:           "AddScene",
	OpRemoveScene:        "RemoveScene",
	OpAddProvisioner:     "AddProvisioner",
	OpRemoveProvisioner:  "RemoveProvisioner",
	OpSetIVIndex:         "SetIVIndex",
}

// String returns the operation name.
func (o Operation) String() string {
	if int(o) < len(operationNames) {
		return operationNames[o]
	}
	return "Unknown"
}

// Category returns the category events of this operation belong to.
func (o Operation) Category() Category {
	switch {
	case o <= OpNextScene:
		return CategoryAllocation
	case o <= OpNextSceneRange:
		return CategoryPartition
	case o <= OpAddressAvailable:
		return CategoryPredicate
	default:
		return CategoryMutation
	}
}

// Outcome summarizes the result of an operation.
type Outcome uint8

const (
	// OutcomeFound means a slot, block or range was returned, or a predicate held.
	OutcomeFound Outcome = 0
	// OutcomeExhausted means nothing free was left.
	OutcomeExhausted Outcome = 1
	// OutcomeInvalid means the request was invalid (zero size, wrong classification).
	OutcomeInvalid Outcome = 2
	// OutcomeCommitted means a mutation was applied.
	OutcomeCommitted Outcome = 3
	// OutcomeRejected means a mutation failed.
	OutcomeRejected Outcome = 4
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "FOUND"
	case OutcomeExhausted:
		return "EXHAUSTED"
	case OutcomeInvalid:
		return "INVALID"
	case OutcomeCommitted:
		return "COMMITTED"
	case OutcomeRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// Space identifies one of the three identifier spaces.
type Space uint8

const (
	SpaceUnicast Space = 0
	SpaceGroup   Space = 1
	SpaceScene   Space = 2
)

// String returns the space name.
func (s Space) String() string {
	switch s {
	case SpaceUnicast:
		return "UNICAST"
	case SpaceGroup:
		return "GROUP"
	case SpaceScene:
		return "SCENE"
	default:
		return "UNKNOWN"
	}
}

// AllocationEvent captures a search for a free slot or block.
type AllocationEvent struct {
	// Space that was searched.
	Space Space `cbor:"1,keyasint"`

	// Ranges are the ranges searched, in search order.
	Ranges []address.AddressRange `cbor:"2,keyasint,omitempty"`

	// Offset is the minimum address requested (unicast only).
	Offset *address.Address `cbor:"3,keyasint,omitempty"`

	// ElementsCount is the requested block size (unicast only).
	ElementsCount uint8 `cbor:"4,keyasint,omitempty"`

	// Excluded is the size of the exclusion set the search ran against.
	Excluded int `cbor:"5,keyasint,omitempty"`

	// Result is the value handed out, if any.
	Result *uint16 `cbor:"6,keyasint,omitempty"`
}

// PartitionEvent captures a search for an unclaimed range.
type PartitionEvent struct {
	// Space that was searched.
	Space Space `cbor:"1,keyasint"`

	// Size is the requested range size.
	Size uint16 `cbor:"2,keyasint"`

	// Claimed is the number of disjoint claimed ranges skipped over.
	Claimed int `cbor:"3,keyasint,omitempty"`

	// Result is the range found, if any.
	Result *address.AddressRange `cbor:"4,keyasint,omitempty"`
}

// PredicateEvent captures an availability check.
type PredicateEvent struct {
	// Range is the block that was checked.
	Range address.AddressRange `cbor:"1,keyasint"`

	// ExcludingNode is the node whose own block was ignored (UUID).
	ExcludingNode string `cbor:"2,keyasint,omitempty"`

	// Result is the predicate's answer.
	Result bool `cbor:"3,keyasint"`
}

// MutationEvent captures a change to the network.
type MutationEvent struct {
	// Entity is the UUID or name of the affected entity.
	Entity string `cbor:"1,keyasint,omitempty"`

	// Value is the address, scene number or IV index involved.
	Value uint32 `cbor:"2,keyasint,omitempty"`

	// Count is the element count for nodes.
	Count uint8 `cbor:"3,keyasint,omitempty"`

	// Error is the rejection reason.
	Error string `cbor:"4,keyasint,omitempty"`
}
