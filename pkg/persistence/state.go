package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mash-protocol/mesh-go/pkg/address"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// NetworkState is a snapshot of a mesh network.
type NetworkState struct {
	// Version is the state file format version.
	Version int `json:"version" yaml:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at" yaml:"saved_at"`

	// NetworkID is the network UUID.
	NetworkID string `json:"network_id" yaml:"network_id"`

	// Name is the network name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// IVIndex is the current IV index.
	IVIndex uint32 `json:"iv_index" yaml:"iv_index"`

	Provisioners []ProvisionerRecord `json:"provisioners,omitempty" yaml:"provisioners,omitempty"`
	Nodes        []NodeRecord        `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Groups       []GroupRecord       `json:"groups,omitempty" yaml:"groups,omitempty"`
	Scenes       []SceneRecord       `json:"scenes,omitempty" yaml:"scenes,omitempty"`

	// Exclusions are the recently freed unicast addresses by IV index.
	Exclusions []ExclusionRecord `json:"exclusions,omitempty" yaml:"exclusions,omitempty"`
}

// ProvisionerRecord is a provisioner and its delegated ranges, in
// declaration order.
type ProvisionerRecord struct {
	UUID          string                 `json:"uuid" yaml:"uuid"`
	Name          string                 `json:"name,omitempty" yaml:"name,omitempty"`
	UnicastRanges []address.AddressRange `json:"unicast_ranges,omitempty" yaml:"unicast_ranges,omitempty"`
	GroupRanges   []address.AddressRange `json:"group_ranges,omitempty" yaml:"group_ranges,omitempty"`
	SceneRanges   []address.SceneRange   `json:"scene_ranges,omitempty" yaml:"scene_ranges,omitempty"`
}

// NodeRecord is a provisioned node.
type NodeRecord struct {
	UUID           string          `json:"uuid" yaml:"uuid"`
	Name           string          `json:"name,omitempty" yaml:"name,omitempty"`
	UnicastAddress address.Address `json:"unicast_address" yaml:"unicast_address"`
	ElementsCount  uint8           `json:"elements_count" yaml:"elements_count"`
}

// GroupRecord is a group. VirtualLabel is set for virtual addresses.
type GroupRecord struct {
	Name         string          `json:"name,omitempty" yaml:"name,omitempty"`
	Address      address.Address `json:"address" yaml:"address"`
	VirtualLabel string          `json:"virtual_label,omitempty" yaml:"virtual_label,omitempty"`
}

// SceneRecord is a scene and the UUIDs of the nodes that store it.
type SceneRecord struct {
	Number address.SceneNumber `json:"number" yaml:"number"`
	Name   string              `json:"name,omitempty" yaml:"name,omitempty"`
	Nodes  []string            `json:"nodes,omitempty" yaml:"nodes,omitempty"`
}

// ExclusionRecord lists the addresses freed at one IV index.
type ExclusionRecord struct {
	IVIndex   uint32            `json:"iv_index" yaml:"iv_index"`
	Addresses []address.Address `json:"addresses" yaml:"addresses"`
}

// Format is the encoding of a state file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatForPath picks the encoding from the file extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// NetworkStateStore manages persistence of network state to a file.
type NetworkStateStore struct {
	mu     sync.Mutex
	path   string
	format Format
}

// NewNetworkStateStore creates a new network state store. The encoding is
// chosen by the file extension.
func NewNetworkStateStore(path string) *NetworkStateStore {
	return &NetworkStateStore{path: path, format: FormatForPath(path)}
}

// Path returns the file the store writes to.
func (s *NetworkStateStore) Path() string {
	return s.path
}

// Save persists the network state to disk.
func (s *NetworkStateStore) Save(state *NetworkState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now()
	}

	data, err := s.marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	return os.WriteFile(s.path, data, 0644)
}

// Load reads the network state from disk.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *NetworkStateStore) Load() (*NetworkState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &NetworkState{}
	if err := s.unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if state.Version > StateVersion {
		return nil, fmt.Errorf("decode %s: unsupported version %d", s.path, state.Version)
	}

	return state, nil
}

// Clear removes the state file.
func (s *NetworkStateStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *NetworkStateStore) marshal(state *NetworkState) ([]byte, error) {
	if s.format == FormatYAML {
		return yaml.Marshal(state)
	}
	return json.MarshalIndent(state, "", "  ")
}

func (s *NetworkStateStore) unmarshal(data []byte, state *NetworkState) error {
	if s.format == FormatYAML {
		return yaml.Unmarshal(data, state)
	}
	return json.Unmarshal(data, state)
}
