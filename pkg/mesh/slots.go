package mesh

import (
	"slices"

	"github.com/bits-and-blooms/bitset"

	"github.com/mash-protocol/mesh-go/pkg/address"
	"github.com/mash-protocol/mesh-go/pkg/log"
)

// spaceSize is the number of values in a 16-bit identifier space.
const spaceSize = 1 << 16

// NextAvailableGroupAddress returns the first group address in p's group
// ranges, in declaration order, that no group uses.
func (n *Network) NextAvailableGroupAddress(p *Provisioner) (address.Address, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	p = n.registered(p)
	return n.nextGroupAddress(p.GroupRanges, p)
}

// NextAvailableGroupAddressIn returns the first group address in r that no
// group uses.
func (n *Network) NextAvailableGroupAddressIn(r address.AddressRange) (address.Address, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.nextGroupAddress([]address.AddressRange{r}, nil)
}

// FreeGroupAddresses lists up to limit unused group addresses in p's group
// ranges, in search order.
func (n *Network) FreeGroupAddresses(p *Provisioner, limit int) []address.Address {
	n.mu.RLock()
	defer n.mu.RUnlock()

	p = n.registered(p)
	used := n.groupOccupancy()
	var out []address.Address
	for len(out) < limit {
		v, ok := firstClear(used, p.GroupRanges, address.AddressRange.IsGroup)
		if !ok {
			break
		}
		out = append(out, address.Address(v))
		used.Set(uint(v))
	}
	return out
}

// NextAvailableScene returns the first scene number in p's scene ranges, in
// declaration order, that no scene uses.
func (n *Network) NextAvailableScene(p *Provisioner) (address.SceneNumber, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	p = n.registered(p)
	return n.nextScene(p.SceneRanges, p)
}

// NextAvailableSceneIn returns the first scene number in r that no scene uses.
func (n *Network) NextAvailableSceneIn(r address.SceneRange) (address.SceneNumber, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.nextScene([]address.SceneRange{r}, nil)
}

// Must be called with the lock held.
func (n *Network) nextGroupAddress(ranges []address.AddressRange, p *Provisioner) (address.Address, bool) {
	v, ok := firstClear(n.groupOccupancy(), ranges, address.AddressRange.IsGroup)
	n.emitSlot(log.OpNextGroupAddress, log.SpaceGroup, ranges, len(n.groups), v, ok, p)
	return address.Address(v), ok
}

// Must be called with the lock held.
func (n *Network) nextScene(ranges []address.SceneRange, p *Provisioner) (address.SceneNumber, bool) {
	asAddress := sceneRangesAsAddress(ranges)
	v, ok := firstClear(n.sceneOccupancy(), asAddress, isSceneSpan)
	n.emitSlot(log.OpNextScene, log.SpaceScene, asAddress, len(n.scenes), v, ok, p)
	return address.SceneNumber(v), ok
}

func (n *Network) emitSlot(op log.Operation, space log.Space, ranges []address.AddressRange, used int, v uint16, ok bool, p *Provisioner) {
	outcome := log.OutcomeFound
	if !ok {
		outcome = log.OutcomeExhausted
	}
	n.emit(op, outcome, p, func(e *log.Event) {
		e.Allocation = &log.AllocationEvent{
			Space:    space,
			Ranges:   slices.Clone(ranges),
			Excluded: used,
			Result:   resultPtr(v, ok),
		}
	})
}

func (n *Network) groupOccupancy() *bitset.BitSet {
	used := bitset.New(spaceSize)
	for _, g := range n.groups {
		used.Set(uint(g.Address))
	}
	return used
}

func (n *Network) sceneOccupancy() *bitset.BitSet {
	used := bitset.New(spaceSize)
	for _, s := range n.scenes {
		used.Set(uint(s.Number))
	}
	return used
}

// firstClear returns the first value not set in used that lies inside one of
// the ranges accepted by valid, trying ranges in order.
func firstClear(used *bitset.BitSet, ranges []address.AddressRange, valid func(address.AddressRange) bool) (uint16, bool) {
	for _, r := range ranges {
		if !valid(r) {
			continue
		}
		i, ok := used.NextClear(uint(r.Low))
		if ok && i <= uint(r.High) {
			return uint16(i), true
		}
	}
	return 0, false
}

func isSceneSpan(r address.AddressRange) bool {
	return r.Low != 0 && r.Low <= r.High
}
