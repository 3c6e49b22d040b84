package mesh

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mash-protocol/mesh-go/pkg/address"
)

// ProvisionNode assigns the next free block of elementsCount unicast
// addresses from p's ranges to a new node and adds it, under one lock.
func (n *Network) ProvisionNode(id uuid.UUID, name string, elementsCount uint8, p *Provisioner) (Node, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	p = n.registered(p)
	addr, ok := n.nextUnicastAddress(address.MinUnicast, elementsCount, p)
	if !ok {
		if elementsCount == 0 {
			return Node{}, fmt.Errorf("%w: no elements", ErrInvalidAddressRange)
		}
		return Node{}, fmt.Errorf("%w: %d elements for %s", ErrNoAddressAvailable, elementsCount, p.Name)
	}
	node := Node{UUID: id, Name: name, UnicastAddress: addr, ElementsCount: elementsCount}
	if err := n.addNode(node); err != nil {
		return Node{}, err
	}
	return node, nil
}

// CreateGroup assigns the next free group address from p's ranges to a new
// group and adds it, under one lock.
func (n *Network) CreateGroup(name string, p *Provisioner) (Group, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	p = n.registered(p)
	addr, ok := n.nextGroupAddress(p.GroupRanges, p)
	if !ok {
		return Group{}, fmt.Errorf("%w: group for %s", ErrNoAddressAvailable, p.Name)
	}
	g := Group{Name: name, Address: addr}
	if err := n.addGroup(g); err != nil {
		return Group{}, err
	}
	return g, nil
}

// CreateScene assigns the next free scene number from p's ranges to a new
// scene and adds it, under one lock.
func (n *Network) CreateScene(name string, p *Provisioner) (Scene, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	p = n.registered(p)
	number, ok := n.nextScene(p.SceneRanges, p)
	if !ok {
		return Scene{}, fmt.Errorf("%w: for %s", ErrNoSceneAvailable, p.Name)
	}
	if err := n.addScene(number, name); err != nil {
		return Scene{}, err
	}
	return Scene{Number: number, Name: name}, nil
}

// ClaimGroupRange delegates the next unclaimed range of up to size group
// addresses to the provisioner with the given UUID.
func (n *Network) ClaimGroupRange(provisionerID uuid.UUID, size uint16) (address.AddressRange, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	p := n.findProvisioner(provisionerID)
	if p == nil {
		return address.AddressRange{}, ErrProvisionerNotFound
	}
	r, ok := n.nextGroupRange(size)
	if !ok {
		return address.AddressRange{}, ErrNoRangeAvailable
	}
	p.AllocateGroupRange(r)
	return r, nil
}

// ClaimUnicastRange delegates the next unclaimed range of up to size unicast
// addresses to the provisioner with the given UUID.
func (n *Network) ClaimUnicastRange(provisionerID uuid.UUID, size uint16) (address.AddressRange, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	p := n.findProvisioner(provisionerID)
	if p == nil {
		return address.AddressRange{}, ErrProvisionerNotFound
	}
	r, ok := n.nextUnicastRange(size)
	if !ok {
		return address.AddressRange{}, ErrNoRangeAvailable
	}
	p.AllocateUnicastRange(r)
	return r, nil
}

// ClaimSceneRange delegates the next unclaimed range of up to size scene
// numbers to the provisioner with the given UUID.
func (n *Network) ClaimSceneRange(provisionerID uuid.UUID, size uint16) (address.SceneRange, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	p := n.findProvisioner(provisionerID)
	if p == nil {
		return address.SceneRange{}, ErrProvisionerNotFound
	}
	r, ok := n.nextSceneRange(size)
	if !ok {
		return address.SceneRange{}, ErrNoRangeAvailable
	}
	p.AllocateSceneRange(r)
	return r, nil
}
