package mesh

import (
	"slices"

	"github.com/google/uuid"

	"github.com/mash-protocol/mesh-go/pkg/address"
)

// Scene is a named scene number together with the nodes that store it.
type Scene struct {
	Number address.SceneNumber
	Name   string

	// Nodes lists the UUIDs of nodes that have the scene stored.
	Nodes []uuid.UUID
}

// IsUsed returns true if at least one node stores the scene.
func (s Scene) IsUsed() bool {
	return len(s.Nodes) > 0
}

// Clone returns a deep copy of the scene.
func (s Scene) Clone() Scene {
	s.Nodes = slices.Clone(s.Nodes)
	return s
}
