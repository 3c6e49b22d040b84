// Package scenario loads and runs YAML allocation scenarios against a
// mesh network.
//
// A scenario describes a starting network (provisioners, nodes, groups,
// scenes and excluded addresses) and a list of steps. Each step calls one
// allocator, predicate or mutation and checks its result.
package scenario

import "github.com/mash-protocol/mesh-go/pkg/address"

// Scenario represents a single scenario loaded from YAML.
type Scenario struct {
	// ID is the unique scenario identifier (e.g., "SC-GROUP-001").
	ID string `yaml:"id"`

	// Name is a human-readable name.
	Name string `yaml:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description"`

	// Network is the starting state.
	Network NetworkSetup `yaml:"network"`

	// Steps are the operations to run in order.
	Steps []Step `yaml:"steps"`

	// Tags for categorizing scenarios.
	Tags []string `yaml:"tags,omitempty"`
}

// NetworkSetup describes the network a scenario starts from.
type NetworkSetup struct {
	IVIndex      uint32                `yaml:"iv_index"`
	Provisioners []ProvisionerSetup    `yaml:"provisioners"`
	Nodes        []NodeSetup           `yaml:"nodes"`
	Groups       []address.Address     `yaml:"groups"`
	Scenes       []address.SceneNumber `yaml:"scenes"`

	// Excluded addresses are recorded at IVIndex.
	Excluded []address.Address `yaml:"excluded"`
}

// ProvisionerSetup describes a provisioner and its delegated ranges.
type ProvisionerSetup struct {
	Name    string                 `yaml:"name"`
	Unicast []address.AddressRange `yaml:"unicast"`
	Group   []address.AddressRange `yaml:"group"`
	Scenes  []address.SceneRange   `yaml:"scenes"`

	// Detached provisioners are usable by steps but not added to the
	// network, so their ranges are not claimed.
	Detached bool `yaml:"detached,omitempty"`
}

// NodeSetup describes a node already in the network.
type NodeSetup struct {
	Name     string          `yaml:"name"`
	Address  address.Address `yaml:"address"`
	Elements uint8           `yaml:"elements"`
}

// Step represents a single operation in a scenario.
type Step struct {
	// Action is the operation to run (e.g., "next_unicast", "add_group").
	Action string `yaml:"action"`

	// Provisioner names the provisioner the operation is made for.
	Provisioner string `yaml:"provisioner,omitempty"`

	// Node names a node, for node and scene registration actions.
	Node string `yaml:"node,omitempty"`

	// Name is the name given to created entities.
	Name string `yaml:"name,omitempty"`

	Address    *address.Address      `yaml:"address,omitempty"`
	Offset     *address.Address      `yaml:"offset,omitempty"`
	Range      *address.AddressRange `yaml:"range,omitempty"`
	Scene      *address.SceneNumber  `yaml:"scene,omitempty"`
	SceneRange *address.SceneRange   `yaml:"scene_range,omitempty"`
	Elements   uint8                 `yaml:"elements,omitempty"`
	Size       *uint16               `yaml:"size,omitempty"`
	IVIndex    *uint32               `yaml:"iv_index,omitempty"`

	// Expect defines the expected outcome.
	Expect Expect `yaml:"expect"`

	// Description explains what this step does.
	Description string `yaml:"description,omitempty"`
}

// Expect defines the expected outcome of a step. Unset fields are not
// checked.
type Expect struct {
	// None expects the allocator to find nothing.
	None bool `yaml:"none,omitempty"`

	Address    *address.Address      `yaml:"address,omitempty"`
	Range      *address.AddressRange `yaml:"range,omitempty"`
	Scene      *address.SceneNumber  `yaml:"scene,omitempty"`
	SceneRange *address.SceneRange   `yaml:"scene_range,omitempty"`

	// Available is the expected predicate result.
	Available *bool `yaml:"available,omitempty"`

	// Error is a substring the mutation error must contain.
	Error string `yaml:"error,omitempty"`
}

// LoadError provides details about a scenario loading error.
type LoadError struct {
	// File is the path to the file that failed to load.
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.File == "" {
		return msg
	}
	return e.File + ": " + msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
