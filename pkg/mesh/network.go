package mesh

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mash-protocol/mesh-go/pkg/address"
	"github.com/mash-protocol/mesh-go/pkg/log"
	"github.com/mash-protocol/mesh-go/pkg/persistence"
)

// IVIndex is the network's IV index. Exclusion lists are keyed by it.
type IVIndex uint32

// Network holds the entities of one mesh network and allocates identifiers
// for them. All methods are safe for concurrent use.
type Network struct {
	mu sync.RWMutex

	id      uuid.UUID
	name    string
	ivIndex IVIndex

	provisioners []*Provisioner
	nodes        []Node
	groups       []Group
	scenes       []Scene
	exclusions   []ExclusionList

	logger     log.Logger
	stateStore *persistence.NetworkStateStore
	now        func() time.Time
}

// NewNetwork creates an empty network with a random UUID.
func NewNetwork(name string) *Network {
	return &Network{
		id:   uuid.New(),
		name: name,
		now:  time.Now,
	}
}

// ID returns the network UUID.
func (n *Network) ID() uuid.UUID {
	return n.id
}

// Name returns the network name.
func (n *Network) Name() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.name
}

// SetLogger sets the allocation event logger. Pass nil to disable logging.
func (n *Network) SetLogger(logger log.Logger) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.logger = logger
}

// IVIndex returns the current IV index.
func (n *Network) IVIndex() IVIndex {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.ivIndex
}

// Provisioners returns copies of all provisioners in the order they were added.
func (n *Network) Provisioners() []Provisioner {
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := make([]Provisioner, len(n.provisioners))
	for i, p := range n.provisioners {
		out[i] = p.Clone()
	}
	return out
}

// Provisioner returns a copy of the provisioner with the given UUID.
func (n *Network) Provisioner(id uuid.UUID) (Provisioner, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	p := n.findProvisioner(id)
	if p == nil {
		return Provisioner{}, false
	}
	return p.Clone(), true
}

// LocalProvisioner returns the first provisioner added to the network.
func (n *Network) LocalProvisioner() (Provisioner, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if len(n.provisioners) == 0 {
		return Provisioner{}, false
	}
	return n.provisioners[0].Clone(), true
}

// Nodes returns all nodes.
func (n *Network) Nodes() []Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Clone(n.nodes)
}

// Node returns the node with the given UUID.
func (n *Network) Node(id uuid.UUID) (Node, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if i := n.nodeIndex(id); i >= 0 {
		return n.nodes[i], true
	}
	return Node{}, false
}

// NodeWithAddress returns the node that has an element with the given address.
func (n *Network) NodeWithAddress(addr address.Address) (Node, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for _, node := range n.nodes {
		if node.HasAddress(addr) {
			return node, true
		}
	}
	return Node{}, false
}

// Groups returns all groups.
func (n *Network) Groups() []Group {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Clone(n.groups)
}

// Group returns the group with the given address.
func (n *Network) Group(addr address.Address) (Group, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if i := n.groupIndex(addr); i >= 0 {
		return n.groups[i], true
	}
	return Group{}, false
}

// Scenes returns all scenes.
func (n *Network) Scenes() []Scene {
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := make([]Scene, len(n.scenes))
	for i, s := range n.scenes {
		out[i] = s.Clone()
	}
	return out
}

// Scene returns the scene with the given number.
func (n *Network) Scene(number address.SceneNumber) (Scene, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if i := n.sceneIndex(number); i >= 0 {
		return n.scenes[i].Clone(), true
	}
	return Scene{}, false
}

func (n *Network) findProvisioner(id uuid.UUID) *Provisioner {
	for _, p := range n.provisioners {
		if p.UUID == id {
			return p
		}
	}
	return nil
}

// registered returns the network's own copy of p when p is registered, so
// allocations see ranges claimed after the caller took its copy. Unregistered
// provisioners are used as given.
func (n *Network) registered(p *Provisioner) *Provisioner {
	if p == nil {
		return nil
	}
	if own := n.findProvisioner(p.UUID); own != nil {
		return own
	}
	return p
}

func (n *Network) nodeIndex(id uuid.UUID) int {
	return slices.IndexFunc(n.nodes, func(node Node) bool { return node.UUID == id })
}

func (n *Network) groupIndex(addr address.Address) int {
	return slices.IndexFunc(n.groups, func(g Group) bool { return g.Address == addr })
}

func (n *Network) sceneIndex(number address.SceneNumber) int {
	return slices.IndexFunc(n.scenes, func(s Scene) bool { return s.Number == number })
}

// emit sends one event to the logger. fill sets the payload.
// Must be called with the lock held.
func (n *Network) emit(op log.Operation, outcome log.Outcome, p *Provisioner, fill func(*log.Event)) {
	if n.logger == nil {
		return
	}
	event := log.Event{
		Timestamp: n.now(),
		RequestID: uuid.NewString(),
		Category:  op.Category(),
		Operation: op,
		Outcome:   outcome,
		NetworkID: n.id.String(),
		IVIndex:   uint32(n.ivIndex),
	}
	if p != nil {
		event.ProvisionerID = p.UUID.String()
	}
	if fill != nil {
		fill(&event)
	}
	n.logger.Log(event)
}

// emitMutation logs the result of a mutation. A nil err means it was committed.
func (n *Network) emitMutation(op log.Operation, entity string, value uint32, count uint8, err error) {
	outcome := log.OutcomeCommitted
	errText := ""
	if err != nil {
		outcome = log.OutcomeRejected
		errText = err.Error()
	}
	n.emit(op, outcome, nil, func(e *log.Event) {
		e.Mutation = &log.MutationEvent{Entity: entity, Value: value, Count: count, Error: errText}
	})
}
