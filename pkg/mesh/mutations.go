package mesh

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/mash-protocol/mesh-go/pkg/address"
	"github.com/mash-protocol/mesh-go/pkg/log"
)

// AddProvisioner adds p to the network. Its ranges must be correctly
// classified and must not overlap ranges of any other provisioner.
func (n *Network) AddProvisioner(p Provisioner) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	err := n.addProvisioner(p)
	n.emitMutation(log.OpAddProvisioner, p.UUID.String(), 0, 0, err)
	return err
}

func (n *Network) addProvisioner(p Provisioner) error {
	if n.findProvisioner(p.UUID) != nil {
		return ErrProvisionerAlreadyExists
	}
	if err := p.Validate(); err != nil {
		return err
	}
	for _, other := range n.provisioners {
		if p.HasOverlappingRanges(other) {
			return fmt.Errorf("%w: with %s", ErrOverlappingProvisionerRanges, other.Name)
		}
	}
	cp := p.Clone()
	n.provisioners = append(n.provisioners, &cp)
	return nil
}

// RemoveProvisioner removes the provisioner with the given UUID. Entities
// allocated from its ranges are kept.
func (n *Network) RemoveProvisioner(id uuid.UUID) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	var err error
	i := slices.IndexFunc(n.provisioners, func(p *Provisioner) bool { return p.UUID == id })
	if i < 0 {
		err = ErrProvisionerNotFound
	} else {
		n.provisioners = slices.Delete(n.provisioners, i, i+1)
	}
	n.emitMutation(log.OpRemoveProvisioner, id.String(), 0, 0, err)
	return err
}

// AddNode adds node to the network. Its element block must be a valid
// unicast range that is not used by another node nor excluded.
func (n *Network) AddNode(node Node) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.addNode(node)
}

func (n *Network) addNode(node Node) error {
	err := n.validateNode(node)
	if err == nil {
		n.nodes = append(n.nodes, node)
	}
	n.emitMutation(log.OpAddNode, node.UUID.String(), uint32(node.UnicastAddress), node.ElementsCount, err)
	return err
}

func (n *Network) validateNode(node Node) error {
	if n.nodeIndex(node.UUID) >= 0 {
		return ErrNodeAlreadyExists
	}
	r, ok := node.Range()
	if !ok || !r.IsUnicast() {
		return fmt.Errorf("%w: %s with %d elements", ErrInvalidAddressRange, node.UnicastAddress, node.ElementsCount)
	}
	if !n.isRangeAvailable(r, nil) {
		return fmt.Errorf("%w: %s", ErrAddressNotAvailable, r)
	}
	return nil
}

// RemoveNode removes the node with the given UUID. Its element addresses
// are excluded at the current IV index and it is unregistered from every
// scene.
func (n *Network) RemoveNode(id uuid.UUID) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	i := n.nodeIndex(id)
	if i < 0 {
		n.emitMutation(log.OpRemoveNode, id.String(), 0, 0, ErrNodeNotFound)
		return ErrNodeNotFound
	}
	node := n.nodes[i]
	n.nodes = slices.Delete(n.nodes, i, i+1)
	n.exclude(slices.Collect(node.ElementAddresses())...)
	for j := range n.scenes {
		n.scenes[j].Nodes = slices.DeleteFunc(n.scenes[j].Nodes, func(u uuid.UUID) bool { return u == id })
	}
	n.emitMutation(log.OpRemoveNode, id.String(), uint32(node.UnicastAddress), node.ElementsCount, nil)
	return nil
}

// AddGroup adds g to the network. Its address must be a group or virtual
// address not used by another group.
func (n *Network) AddGroup(g Group) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.addGroup(g)
}

func (n *Network) addGroup(g Group) error {
	var err error
	switch {
	case !g.Address.IsGroup() && !g.Address.IsVirtual():
		err = fmt.Errorf("%w: %s", ErrInvalidGroupAddress, g.Address)
	case n.groupIndex(g.Address) >= 0:
		err = fmt.Errorf("%w: %s", ErrGroupAlreadyExists, g.Address)
	default:
		n.groups = append(n.groups, g)
	}
	n.emitMutation(log.OpAddGroup, g.Name, uint32(g.Address), 0, err)
	return err
}

// RemoveGroup removes the group with the given address.
func (n *Network) RemoveGroup(addr address.Address) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	var err error
	if i := n.groupIndex(addr); i >= 0 {
		n.groups = slices.Delete(n.groups, i, i+1)
	} else {
		err = fmt.Errorf("%w: %s", ErrGroupNotFound, addr)
	}
	n.emitMutation(log.OpRemoveGroup, "", uint32(addr), 0, err)
	return err
}

// AddScene adds a scene with the given number and name.
func (n *Network) AddScene(number address.SceneNumber, name string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.addScene(number, name)
}

func (n *Network) addScene(number address.SceneNumber, name string) error {
	var err error
	switch {
	case !number.IsValid():
		err = ErrInvalidSceneNumber
	case n.sceneIndex(number) >= 0:
		err = fmt.Errorf("%w: %s", ErrSceneAlreadyExists, number)
	default:
		n.scenes = append(n.scenes, Scene{Number: number, Name: name})
	}
	n.emitMutation(log.OpAddScene, name, uint32(number), 0, err)
	return err
}

// RemoveScene removes the scene with the given number. A scene stored on any
// node cannot be removed. Removing an unknown scene is a no-op.
func (n *Network) RemoveScene(number address.SceneNumber) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	var err error
	if i := n.sceneIndex(number); i >= 0 {
		if n.scenes[i].IsUsed() {
			err = fmt.Errorf("%w: %s", ErrSceneInUse, number)
		} else {
			n.scenes = slices.Delete(n.scenes, i, i+1)
		}
	}
	n.emitMutation(log.OpRemoveScene, "", uint32(number), 0, err)
	return err
}

// RegisterScene records that the node stores the scene.
func (n *Network) RegisterScene(number address.SceneNumber, nodeID uuid.UUID) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	i := n.sceneIndex(number)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSceneNotFound, number)
	}
	if n.nodeIndex(nodeID) < 0 {
		return ErrNodeNotFound
	}
	if !slices.Contains(n.scenes[i].Nodes, nodeID) {
		n.scenes[i].Nodes = append(n.scenes[i].Nodes, nodeID)
	}
	return nil
}

// UnregisterScene records that the node no longer stores the scene.
func (n *Network) UnregisterScene(number address.SceneNumber, nodeID uuid.UUID) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	i := n.sceneIndex(number)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSceneNotFound, number)
	}
	n.scenes[i].Nodes = slices.DeleteFunc(n.scenes[i].Nodes, func(u uuid.UUID) bool { return u == nodeID })
	return nil
}

// NodesRegisteredTo returns the nodes that store the scene.
func (n *Network) NodesRegisteredTo(number address.SceneNumber) []Node {
	n.mu.RLock()
	defer n.mu.RUnlock()

	i := n.sceneIndex(number)
	if i < 0 {
		return nil
	}
	var out []Node
	for _, id := range n.scenes[i].Nodes {
		if j := n.nodeIndex(id); j >= 0 {
			out = append(out, n.nodes[j])
		}
	}
	return out
}
