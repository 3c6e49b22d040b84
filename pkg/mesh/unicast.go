package mesh

import (
	"slices"

	"github.com/mash-protocol/mesh-go/pkg/address"
	"github.com/mash-protocol/mesh-go/pkg/log"
)

// NextAvailableUnicastAddress returns the lowest address of the first block
// of elementsCount consecutive unicast addresses that lies inside one of p's
// unicast ranges and contains no node element or excluded address.
//
// Ranges are tried in p's declaration order. In the range containing offset
// the search starts at offset; other ranges are searched from their low
// bound. ok is false if elementsCount is zero or no block fits.
func (n *Network) NextAvailableUnicastAddress(offset address.Address, elementsCount uint8, p *Provisioner) (address.Address, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.nextUnicastAddress(offset, elementsCount, n.registered(p))
}

// NextAvailableUnicastAddressFor is NextAvailableUnicastAddress for a single
// element searched from the start of p's ranges.
func (n *Network) NextAvailableUnicastAddressFor(p *Provisioner) (address.Address, bool) {
	return n.NextAvailableUnicastAddress(address.MinUnicast, 1, p)
}

// FreeUnicastBlocks lists the first addresses of up to limit disjoint free
// blocks of elementsCount addresses in p's ranges, in search order.
func (n *Network) FreeUnicastBlocks(p *Provisioner, elementsCount uint8, limit int) []address.Address {
	n.mu.RLock()
	defer n.mu.RUnlock()

	p = n.registered(p)
	if elementsCount == 0 {
		return nil
	}
	used := n.unavailableAddresses()
	size := uint32(elementsCount)

	var (
		out    []address.Address
		walked []address.AddressRange
	)
	for _, r := range p.UnicastRanges {
		if len(out) >= limit {
			break
		}
		if !r.IsUnicast() {
			continue
		}
		// Blocks from an earlier overlapping range may already cover part of r.
		shared := address.AnyOverlap([]address.AddressRange{r}, walked)
		walked = append(walked, r)

		cursor := uint32(r.Low)
		for len(out) < limit {
			addr, ok := blockIn(used, r, cursor, size)
			if !ok {
				break
			}
			cursor = uint32(addr) + size
			if shared {
				if end, hit := listedBlockEnd(out, size, addr); hit {
					cursor = end + 1
					continue
				}
			}
			out = append(out, addr)
		}
	}
	return out
}

// listedBlockEnd reports the last address of a listed block that collides
// with the block starting at addr.
func listedBlockEnd(listed []address.Address, size uint32, addr address.Address) (uint32, bool) {
	low, high := uint32(addr), uint32(addr)+size-1
	for _, a := range listed {
		if uint32(a) <= high && low <= uint32(a)+size-1 {
			return uint32(a) + size - 1, true
		}
	}
	return 0, false
}

// Must be called with the lock held.
func (n *Network) nextUnicastAddress(offset address.Address, elementsCount uint8, p *Provisioner) (address.Address, bool) {
	used := n.unavailableAddresses()
	addr, ok := findUnicastBlock(used, p.UnicastRanges, offset, elementsCount)

	outcome := log.OutcomeFound
	switch {
	case elementsCount == 0:
		outcome = log.OutcomeInvalid
	case !ok:
		outcome = log.OutcomeExhausted
	}
	n.emit(log.OpNextUnicastAddress, outcome, p, func(e *log.Event) {
		e.Allocation = &log.AllocationEvent{
			Space:         log.SpaceUnicast,
			Ranges:        slices.Clone(p.UnicastRanges),
			Offset:        &offset,
			ElementsCount: elementsCount,
			Excluded:      len(used),
			Result:        resultPtr(uint16(addr), ok),
		}
	})
	return addr, ok
}

// findUnicastBlock returns the first free block of count addresses in
// ranges, trying them in order. In the range containing offset the search
// starts at offset.
func findUnicastBlock(used []address.Address, ranges []address.AddressRange, offset address.Address, count uint8) (address.Address, bool) {
	if count == 0 {
		return 0, false
	}
	for _, r := range ranges {
		if !r.IsUnicast() {
			continue
		}
		cursor := uint32(r.Low)
		if r.Contains(offset) && uint32(offset) > cursor {
			cursor = uint32(offset)
		}
		if addr, ok := blockIn(used, r, cursor, uint32(count)); ok {
			return addr, true
		}
	}
	return 0, false
}

// blockIn walks the sorted used addresses once from cursor. The cursor only
// moves forward, past each used address that collides with the candidate
// block, until the block fits before the next used address or runs off the
// end of r.
func blockIn(used []address.Address, r address.AddressRange, cursor, size uint32) (address.Address, bool) {
	high := uint32(r.High)
	if cursor+size-1 > high {
		return 0, false
	}
	start, _ := slices.BinarySearch(used, address.Address(cursor))
	for _, u := range used[start:] {
		if cursor+size-1 < uint32(u) {
			break
		}
		cursor = uint32(u) + 1
		if cursor+size-1 > high {
			return 0, false
		}
	}
	return address.Address(cursor), true
}

func resultPtr(v uint16, ok bool) *uint16 {
	if !ok {
		return nil
	}
	return &v
}
