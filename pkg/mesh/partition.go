package mesh

import (
	"github.com/mash-protocol/mesh-go/pkg/address"
	"github.com/mash-protocol/mesh-go/pkg/log"
)

// Spaces partitioned between provisioners.
var (
	unicastSpace = address.NewRange(address.MinUnicast, address.MaxUnicast)
	groupSpace   = address.NewRange(address.MinGroup, address.MaxGroup)
	sceneSpace   = address.NewRange(address.Address(address.MinScene), address.Address(address.MaxScene))
)

// NextAvailableGroupAddressRange returns the first range of size group
// addresses that no provisioner has claimed.
//
// If no gap is large enough the largest unclaimed gap is returned whole, so
// the result may be smaller than size. ok is false if size is zero or every
// group address is claimed. Only group ranges are considered; groups that
// exist outside any provisioner's ranges do not block the result.
func (n *Network) NextAvailableGroupAddressRange(size uint16) (address.AddressRange, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.nextGroupRange(size)
}

// NextAvailableGroupAddressRangeMax returns the largest unclaimed gap of the
// group space.
func (n *Network) NextAvailableGroupAddressRangeMax() (address.AddressRange, bool) {
	return n.NextAvailableGroupAddressRange(0xFFFF)
}

// NextAvailableUnicastAddressRange is NextAvailableGroupAddressRange for the
// unicast space.
func (n *Network) NextAvailableUnicastAddressRange(size uint16) (address.AddressRange, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.nextUnicastRange(size)
}

// NextAvailableSceneRange is NextAvailableGroupAddressRange for the scene
// space.
func (n *Network) NextAvailableSceneRange(size uint16) (address.SceneRange, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.nextSceneRange(size)
}

func (n *Network) nextGroupRange(size uint16) (address.AddressRange, bool) {
	var claimed []address.AddressRange
	for _, p := range n.provisioners {
		claimed = append(claimed, p.GroupRanges...)
	}
	return n.partition(log.OpNextGroupRange, log.SpaceGroup, groupSpace, claimed, size)
}

func (n *Network) nextUnicastRange(size uint16) (address.AddressRange, bool) {
	var claimed []address.AddressRange
	for _, p := range n.provisioners {
		claimed = append(claimed, p.UnicastRanges...)
	}
	return n.partition(log.OpNextUnicastRange, log.SpaceUnicast, unicastSpace, claimed, size)
}

func (n *Network) nextSceneRange(size uint16) (address.SceneRange, bool) {
	var claimed []address.AddressRange
	for _, p := range n.provisioners {
		claimed = append(claimed, sceneRangesAsAddress(p.SceneRanges)...)
	}
	r, ok := n.partition(log.OpNextSceneRange, log.SpaceScene, sceneSpace, claimed, size)
	return address.SceneRange{Low: address.SceneNumber(r.Low), High: address.SceneNumber(r.High)}, ok
}

// Must be called with the lock held.
func (n *Network) partition(op log.Operation, space log.Space, within address.AddressRange, claimed []address.AddressRange, size uint16) (address.AddressRange, bool) {
	merged := address.MergeRanges(claimed)
	r, ok := findGap(within, merged, size)

	outcome := log.OutcomeFound
	switch {
	case size == 0:
		outcome = log.OutcomeInvalid
	case !ok:
		outcome = log.OutcomeExhausted
	}
	n.emit(op, outcome, nil, func(e *log.Event) {
		e.Partition = &log.PartitionEvent{Space: space, Size: size, Claimed: len(merged)}
		if ok {
			e.Partition.Result = &r
		}
	})
	return r, ok
}

// findGap scans within from its low bound, skipping the sorted disjoint
// claimed ranges, and returns the first gap that holds size values, trimmed
// to size. Without such a gap the largest gap is returned whole; among gaps
// of equal length the lowest wins.
func findGap(within address.AddressRange, claimed []address.AddressRange, size uint16) (address.AddressRange, bool) {
	if size == 0 {
		return address.AddressRange{}, false
	}
	var (
		largest    address.AddressRange
		hasLargest bool
	)
	high := uint32(within.High)
	cursor := uint32(within.Low)

	try := func(end uint32) (address.AddressRange, bool) {
		if end-cursor+1 >= uint32(size) {
			return address.AddressRange{Low: address.Address(cursor), High: address.Address(cursor + uint32(size) - 1)}, true
		}
		gap := address.AddressRange{Low: address.Address(cursor), High: address.Address(end)}
		if !hasLargest || gap.Len() > largest.Len() {
			largest = gap
			hasLargest = true
		}
		return address.AddressRange{}, false
	}

	for _, c := range claimed {
		if uint32(c.High) < cursor {
			continue
		}
		if uint32(c.Low) > high {
			break
		}
		if uint32(c.Low) > cursor {
			if r, ok := try(uint32(c.Low) - 1); ok {
				return r, true
			}
		}
		cursor = uint32(c.High) + 1
		if cursor > high {
			break
		}
	}
	if cursor <= high {
		if r, ok := try(high); ok {
			return r, true
		}
	}
	return largest, hasLargest
}
