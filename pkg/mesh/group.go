package mesh

import (
	"github.com/google/uuid"

	"github.com/mash-protocol/mesh-go/pkg/address"
)

// Group is a named group or virtual address nodes may subscribe or publish to.
type Group struct {
	Name    string
	Address address.Address

	// VirtualLabel is set for groups backed by a virtual address.
	VirtualLabel *uuid.UUID
}

// IsVirtual returns true for groups backed by a virtual address.
func (g Group) IsVirtual() bool {
	return g.Address.IsVirtual()
}
