package mesh

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/mash-protocol/mesh-go/pkg/address"
)

// Provisioner is an allocator instance delegated parts of the network's
// address and scene spaces.
//
// Range slices are kept in declaration order. Allocators search them in that
// order, so the first range is the provisioner's preferred one.
type Provisioner struct {
	// UUID uniquely identifies the provisioner.
	UUID uuid.UUID

	// Name is a human-readable name.
	Name string

	// UnicastRanges are the delegated unicast address ranges.
	UnicastRanges []address.AddressRange

	// GroupRanges are the delegated group address ranges.
	GroupRanges []address.AddressRange

	// SceneRanges are the delegated scene number ranges.
	SceneRanges []address.SceneRange
}

// NewProvisioner creates a provisioner with a random UUID.
func NewProvisioner(name string, unicast, group []address.AddressRange, scenes []address.SceneRange) *Provisioner {
	return &Provisioner{
		UUID:          uuid.New(),
		Name:          name,
		UnicastRanges: slices.Clone(unicast),
		GroupRanges:   slices.Clone(group),
		SceneRanges:   slices.Clone(scenes),
	}
}

// Clone returns a deep copy of the provisioner.
func (p *Provisioner) Clone() Provisioner {
	return Provisioner{
		UUID:          p.UUID,
		Name:          p.Name,
		UnicastRanges: slices.Clone(p.UnicastRanges),
		GroupRanges:   slices.Clone(p.GroupRanges),
		SceneRanges:   slices.Clone(p.SceneRanges),
	}
}

// IsAddressInAllocatedRange returns true if the block of count addresses
// starting at addr lies inside one of the provisioner's unicast ranges.
func (p *Provisioner) IsAddressInAllocatedRange(addr address.Address, count uint8) bool {
	block, ok := address.RangeFromElements(addr, count)
	if !ok {
		return false
	}
	for _, r := range p.UnicastRanges {
		if r.Contains(block.Low) && r.Contains(block.High) {
			return true
		}
	}
	return false
}

// HasOverlappingRanges returns true if any range of p overlaps a range of
// the same kind delegated to other.
func (p *Provisioner) HasOverlappingRanges(other *Provisioner) bool {
	return address.AnyOverlap(p.UnicastRanges, other.UnicastRanges) ||
		address.AnyOverlap(p.GroupRanges, other.GroupRanges) ||
		address.AnyOverlap(sceneRangesAsAddress(p.SceneRanges), sceneRangesAsAddress(other.SceneRanges))
}

// AllocateUnicastRange appends r to the unicast ranges.
func (p *Provisioner) AllocateUnicastRange(r address.AddressRange) {
	p.UnicastRanges = append(p.UnicastRanges, r)
}

// AllocateGroupRange appends r to the group ranges.
func (p *Provisioner) AllocateGroupRange(r address.AddressRange) {
	p.GroupRanges = append(p.GroupRanges, r)
}

// AllocateSceneRange appends r to the scene ranges.
func (p *Provisioner) AllocateSceneRange(r address.SceneRange) {
	p.SceneRanges = append(p.SceneRanges, r)
}

// Validate checks that every range is classified correctly for its kind.
func (p *Provisioner) Validate() error {
	for _, r := range p.UnicastRanges {
		if !r.IsUnicast() {
			return fmt.Errorf("%w: unicast range %s", ErrInvalidRange, r)
		}
	}
	for _, r := range p.GroupRanges {
		if !r.IsGroup() {
			return fmt.Errorf("%w: group range %s", ErrInvalidRange, r)
		}
	}
	for _, r := range p.SceneRanges {
		if !r.IsValid() {
			return fmt.Errorf("%w: scene range %s", ErrInvalidRange, r)
		}
	}
	return nil
}

func sceneRangesAsAddress(ranges []address.SceneRange) []address.AddressRange {
	out := make([]address.AddressRange, len(ranges))
	for i, r := range ranges {
		out[i] = r.AsAddressRange()
	}
	return out
}
