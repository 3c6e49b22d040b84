package mesh

import (
	"slices"

	"github.com/mash-protocol/mesh-go/pkg/address"
	"github.com/mash-protocol/mesh-go/pkg/log"
)

// IsAddressRangeValid returns true if the block of count addresses starting
// at addr holds only unicast addresses.
func IsAddressRangeValid(addr address.Address, count uint8) bool {
	r, ok := address.RangeFromElements(addr, count)
	return ok && r.IsUnicast()
}

// IsAddressRangeAvailable returns true if r is a unicast range that overlaps
// no node's elements and holds no excluded address.
func (n *Network) IsAddressRangeAvailable(r address.AddressRange) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.checkAvailable(log.OpRangeAvailable, r, nil)
}

// IsAddressAvailable returns true if the block of count addresses starting
// at addr is valid and available. The elements of excluding, if not nil, are
// ignored so a node can be checked against its own block.
func (n *Network) IsAddressAvailable(addr address.Address, count uint8, excluding *Node) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()

	r, ok := address.RangeFromElements(addr, count)
	if !ok {
		n.emitPredicate(log.OpAddressAvailable, address.AddressRange{Low: addr, High: addr}, excluding, false)
		return false
	}
	return n.checkAvailable(log.OpAddressAvailable, r, excluding)
}

// IsAddressAvailableFor returns true if node could be moved to addr without
// colliding with any other node or excluded address.
func (n *Network) IsAddressAvailableFor(addr address.Address, node Node) bool {
	return n.IsAddressAvailable(addr, node.ElementsCount, &node)
}

// Must be called with the lock held.
func (n *Network) checkAvailable(op log.Operation, r address.AddressRange, excluding *Node) bool {
	ok := n.isRangeAvailable(r, excluding)
	n.emitPredicate(op, r, excluding, ok)
	return ok
}

func (n *Network) isRangeAvailable(r address.AddressRange, excluding *Node) bool {
	if !r.IsUnicast() {
		return false
	}
	for _, node := range n.nodes {
		if excluding != nil && node.UUID == excluding.UUID {
			continue
		}
		if node.Overlaps(r) {
			return false
		}
	}
	return !slices.ContainsFunc(n.excludedAt(n.ivIndex), r.Contains)
}

func (n *Network) emitPredicate(op log.Operation, r address.AddressRange, excluding *Node, result bool) {
	excludingNode := ""
	if excluding != nil {
		excludingNode = excluding.UUID.String()
	}
	outcome := log.OutcomeFound
	if !result {
		outcome = log.OutcomeExhausted
	}
	n.emit(op, outcome, nil, func(e *log.Event) {
		e.Predicate = &log.PredicateEvent{Range: r, ExcludingNode: excludingNode, Result: result}
	})
}
