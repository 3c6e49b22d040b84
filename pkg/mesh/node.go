package mesh

import (
	"iter"

	"github.com/google/uuid"

	"github.com/mash-protocol/mesh-go/pkg/address"
)

// Node is a provisioned device. Its elements occupy the consecutive unicast
// addresses starting at UnicastAddress.
type Node struct {
	UUID           uuid.UUID
	Name           string
	UnicastAddress address.Address
	ElementsCount  uint8
}

// Range returns the unicast block occupied by the node's elements.
// ok is false if the node has no elements or the block overflows the
// address space.
func (n Node) Range() (r address.AddressRange, ok bool) {
	return address.RangeFromElements(n.UnicastAddress, n.ElementsCount)
}

// Overlaps returns true if any of the node's element addresses lies in r.
func (n Node) Overlaps(r address.AddressRange) bool {
	nr, ok := n.Range()
	return ok && nr.Overlaps(r)
}

// HasAddress returns true if addr is one of the node's element addresses.
func (n Node) HasAddress(addr address.Address) bool {
	r, ok := n.Range()
	return ok && r.Contains(addr)
}

// ElementAddresses yields the node's element addresses in order.
func (n Node) ElementAddresses() iter.Seq[address.Address] {
	r, ok := n.Range()
	if !ok {
		return func(func(address.Address) bool) {}
	}
	return r.Values()
}
