package mesh

import (
	"slices"

	"github.com/mash-protocol/mesh-go/pkg/address"
	"github.com/mash-protocol/mesh-go/pkg/log"
)

// ExclusionList records unicast addresses freed while the network was at a
// given IV index. Such addresses may not be reassigned until the IV index
// has moved on by two.
type ExclusionList struct {
	IVIndex   IVIndex
	Addresses []address.Address
}

// ExcludedAddresses returns the sorted addresses that may not be assigned
// at IV index iv: those recorded at iv and at iv-1.
func (n *Network) ExcludedAddresses(iv IVIndex) []address.Address {
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := n.excludedAt(iv)
	slices.Sort(out)
	return slices.Compact(out)
}

// ExclusionsContain returns true if any address of r is excluded at iv.
func (n *Network) ExclusionsContain(r address.AddressRange, iv IVIndex) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.ContainsFunc(n.excludedAt(iv), r.Contains)
}

// ExclusionLists returns copies of all recorded exclusion lists.
func (n *Network) ExclusionLists() []ExclusionList {
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := make([]ExclusionList, len(n.exclusions))
	for i, l := range n.exclusions {
		out[i] = ExclusionList{IVIndex: l.IVIndex, Addresses: slices.Clone(l.Addresses)}
	}
	return out
}

// Exclude records addrs as freed at the current IV index.
func (n *Network) Exclude(addrs ...address.Address) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.exclude(addrs...)
}

// CleanUpExclusions drops lists recorded before the previous IV index.
func (n *Network) CleanUpExclusions() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cleanUpExclusions()
}

// SetIVIndex updates the IV index and drops exclusion lists that no longer
// apply to it.
func (n *Network) SetIVIndex(iv IVIndex) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.ivIndex = iv
	n.cleanUpExclusions()
	n.emit(log.OpSetIVIndex, log.OutcomeCommitted, nil, func(e *log.Event) {
		e.Mutation = &log.MutationEvent{Value: uint32(iv)}
	})
}

// appliesTo returns true if addresses recorded at IV index list apply to iv.
func appliesTo(list, iv IVIndex) bool {
	return list == iv || (iv > 0 && list == iv-1)
}

// excludedAt returns the unsorted excluded addresses for iv.
// Must be called with the lock held.
func (n *Network) excludedAt(iv IVIndex) []address.Address {
	var out []address.Address
	for _, l := range n.exclusions {
		if appliesTo(l.IVIndex, iv) {
			out = append(out, l.Addresses...)
		}
	}
	return out
}

func (n *Network) exclude(addrs ...address.Address) {
	i := slices.IndexFunc(n.exclusions, func(l ExclusionList) bool { return l.IVIndex == n.ivIndex })
	if i < 0 {
		n.exclusions = append(n.exclusions, ExclusionList{IVIndex: n.ivIndex})
		i = len(n.exclusions) - 1
	}
	for _, a := range addrs {
		if !slices.Contains(n.exclusions[i].Addresses, a) {
			n.exclusions[i].Addresses = append(n.exclusions[i].Addresses, a)
		}
	}
}

func (n *Network) cleanUpExclusions() {
	n.exclusions = slices.DeleteFunc(n.exclusions, func(l ExclusionList) bool {
		return l.IVIndex < n.ivIndex && !appliesTo(l.IVIndex, n.ivIndex)
	})
}

// unavailableAddresses returns the sorted, deduplicated unicast addresses
// that may not be handed out: every node element address plus the
// addresses excluded at the current IV index.
func (n *Network) unavailableAddresses() []address.Address {
	used := n.excludedAt(n.ivIndex)
	for _, node := range n.nodes {
		for a := range node.ElementAddresses() {
			used = append(used, a)
		}
	}
	slices.Sort(used)
	return slices.Compact(used)
}
