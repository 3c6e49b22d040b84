package mesh

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/mash-protocol/mesh-go/pkg/persistence"
)

// SetStateStore sets the state store for persistence.
func (n *Network) SetStateStore(store *persistence.NetworkStateStore) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stateStore = store
}

// SaveState persists the current network state.
// It is a no-op if no store is configured.
func (n *Network) SaveState() error {
	n.mu.RLock()
	store := n.stateStore
	if store == nil {
		n.mu.RUnlock()
		return nil
	}
	state := n.snapshot()
	n.mu.RUnlock()

	return store.Save(state)
}

// LoadState replaces the network's content with the saved state.
// It is a no-op if no store is configured or nothing was saved.
func (n *Network) LoadState() error {
	n.mu.RLock()
	store := n.stateStore
	n.mu.RUnlock()

	if store == nil {
		return nil
	}

	state, err := store.Load()
	if err != nil {
		return err
	}
	if state == nil {
		return nil
	}
	return n.Restore(state)
}

// Snapshot returns the network's content in its persisted form.
func (n *Network) Snapshot() *persistence.NetworkState {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.snapshot()
}

func (n *Network) snapshot() *persistence.NetworkState {
	state := &persistence.NetworkState{
		SavedAt:   n.now(),
		NetworkID: n.id.String(),
		Name:      n.name,
		IVIndex:   uint32(n.ivIndex),
	}
	for _, p := range n.provisioners {
		state.Provisioners = append(state.Provisioners, persistence.ProvisionerRecord{
			UUID:          p.UUID.String(),
			Name:          p.Name,
			UnicastRanges: slices.Clone(p.UnicastRanges),
			GroupRanges:   slices.Clone(p.GroupRanges),
			SceneRanges:   slices.Clone(p.SceneRanges),
		})
	}
	for _, node := range n.nodes {
		state.Nodes = append(state.Nodes, persistence.NodeRecord{
			UUID:           node.UUID.String(),
			Name:           node.Name,
			UnicastAddress: node.UnicastAddress,
			ElementsCount:  node.ElementsCount,
		})
	}
	for _, g := range n.groups {
		rec := persistence.GroupRecord{Name: g.Name, Address: g.Address}
		if g.VirtualLabel != nil {
			rec.VirtualLabel = g.VirtualLabel.String()
		}
		state.Groups = append(state.Groups, rec)
	}
	for _, s := range n.scenes {
		rec := persistence.SceneRecord{Number: s.Number, Name: s.Name}
		for _, id := range s.Nodes {
			rec.Nodes = append(rec.Nodes, id.String())
		}
		state.Scenes = append(state.Scenes, rec)
	}
	for _, l := range n.exclusions {
		state.Exclusions = append(state.Exclusions, persistence.ExclusionRecord{
			IVIndex:   uint32(l.IVIndex),
			Addresses: slices.Clone(l.Addresses),
		})
	}
	return state
}

// Restore replaces the network's content with state. Every entity is
// validated as if it were added through the mutation methods; on error the
// network is left unchanged.
func (n *Network) Restore(state *persistence.NetworkState) error {
	restored, err := networkFromState(state)
	if err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.id = restored.id
	n.name = restored.name
	n.ivIndex = restored.ivIndex
	n.provisioners = restored.provisioners
	n.nodes = restored.nodes
	n.groups = restored.groups
	n.scenes = restored.scenes
	n.exclusions = restored.exclusions
	return nil
}

func networkFromState(state *persistence.NetworkState) (*Network, error) {
	net := NewNetwork(state.Name)
	if state.NetworkID != "" {
		id, err := uuid.Parse(state.NetworkID)
		if err != nil {
			return nil, fmt.Errorf("restore network id: %w", err)
		}
		net.id = id
	}
	net.ivIndex = IVIndex(state.IVIndex)

	for _, rec := range state.Provisioners {
		id, err := uuid.Parse(rec.UUID)
		if err != nil {
			return nil, fmt.Errorf("restore provisioner %q: %w", rec.Name, err)
		}
		p := Provisioner{
			UUID:          id,
			Name:          rec.Name,
			UnicastRanges: rec.UnicastRanges,
			GroupRanges:   rec.GroupRanges,
			SceneRanges:   rec.SceneRanges,
		}
		if err := net.addProvisioner(p); err != nil {
			return nil, fmt.Errorf("restore provisioner %q: %w", rec.Name, err)
		}
	}
	for _, rec := range state.Nodes {
		id, err := uuid.Parse(rec.UUID)
		if err != nil {
			return nil, fmt.Errorf("restore node %q: %w", rec.Name, err)
		}
		node := Node{UUID: id, Name: rec.Name, UnicastAddress: rec.UnicastAddress, ElementsCount: rec.ElementsCount}
		if err := net.addNode(node); err != nil {
			return nil, fmt.Errorf("restore node %q: %w", rec.Name, err)
		}
	}
	for _, rec := range state.Groups {
		g := Group{Name: rec.Name, Address: rec.Address}
		if rec.VirtualLabel != "" {
			label, err := uuid.Parse(rec.VirtualLabel)
			if err != nil {
				return nil, fmt.Errorf("restore group %q: %w", rec.Name, err)
			}
			g.VirtualLabel = &label
		}
		if err := net.addGroup(g); err != nil {
			return nil, fmt.Errorf("restore group %q: %w", rec.Name, err)
		}
	}
	for _, rec := range state.Scenes {
		if err := net.addScene(rec.Number, rec.Name); err != nil {
			return nil, fmt.Errorf("restore scene %q: %w", rec.Name, err)
		}
		scene := &net.scenes[len(net.scenes)-1]
		for _, s := range rec.Nodes {
			id, err := uuid.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("restore scene %q: %w", rec.Name, err)
			}
			if net.nodeIndex(id) < 0 {
				return nil, fmt.Errorf("restore scene %q: %w: %s", rec.Name, ErrNodeNotFound, id)
			}
			scene.Nodes = append(scene.Nodes, id)
		}
	}
	for _, rec := range state.Exclusions {
		net.exclusions = append(net.exclusions, ExclusionList{
			IVIndex:   IVIndex(rec.IVIndex),
			Addresses: slices.Clone(rec.Addresses),
		})
	}
	net.cleanUpExclusions()
	return net, nil
}
