package mesh

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/mesh-go/pkg/address"
)

func TestProvisionerMutations(t *testing.T) {
	t.Run("AddAndLookup", func(t *testing.T) {
		net := NewNetwork("test")
		p := NewProvisioner("phone", ranges(address.NewRange(0x0001, 0x00FF)), nil, nil)
		require.NoError(t, net.AddProvisioner(*p))

		got, ok := net.Provisioner(p.UUID)
		require.True(t, ok)
		assert.Equal(t, "phone", got.Name)

		local, ok := net.LocalProvisioner()
		require.True(t, ok)
		assert.Equal(t, p.UUID, local.UUID)
	})

	t.Run("Duplicate", func(t *testing.T) {
		net := NewNetwork("test")
		p := unicastProvisioner(address.NewRange(0x0001, 0x00FF))
		require.NoError(t, net.AddProvisioner(*p))
		assert.ErrorIs(t, net.AddProvisioner(*p), ErrProvisionerAlreadyExists)
	})

	t.Run("Overlapping", func(t *testing.T) {
		net := NewNetwork("test")
		require.NoError(t, net.AddProvisioner(*groupProvisioner(address.NewRange(0xC000, 0xC0FF))))

		err := net.AddProvisioner(*groupProvisioner(address.NewRange(0xC0FF, 0xC1FF)))
		assert.ErrorIs(t, err, ErrOverlappingProvisionerRanges)

		// Same values in different spaces do not overlap.
		err = net.AddProvisioner(*NewProvisioner("scenes", nil, nil, []address.SceneRange{address.NewSceneRange(0xC000, 0xC0FF)}))
		assert.NoError(t, err)
	})

	t.Run("InvalidRanges", func(t *testing.T) {
		net := NewNetwork("test")
		assert.ErrorIs(t, net.AddProvisioner(*unicastProvisioner(address.NewRange(0x7FFF, 0x8000))), ErrInvalidRange)
		assert.ErrorIs(t, net.AddProvisioner(*groupProvisioner(address.NewRange(0x0001, 0x0002))), ErrInvalidRange)
		assert.ErrorIs(t, net.AddProvisioner(*NewProvisioner("s", nil, nil, []address.SceneRange{{Low: 0, High: 1}})), ErrInvalidRange)
	})

	t.Run("Remove", func(t *testing.T) {
		net := NewNetwork("test")
		p := unicastProvisioner(address.NewRange(0x0001, 0x00FF))
		require.NoError(t, net.AddProvisioner(*p))
		require.NoError(t, net.RemoveProvisioner(p.UUID))
		assert.ErrorIs(t, net.RemoveProvisioner(p.UUID), ErrProvisionerNotFound)
		assert.Empty(t, net.Provisioners())
	})

	t.Run("ReturnedCopiesAreDetached", func(t *testing.T) {
		net := NewNetwork("test")
		p := groupProvisioner(address.NewRange(0xC000, 0xC0FF))
		require.NoError(t, net.AddProvisioner(*p))

		got, _ := net.Provisioner(p.UUID)
		got.GroupRanges[0] = address.NewRange(0xD000, 0xD0FF)

		again, _ := net.Provisioner(p.UUID)
		assert.Equal(t, address.NewRange(0xC000, 0xC0FF), again.GroupRanges[0])
	})
}

func TestNodeMutations(t *testing.T) {
	t.Run("Duplicate", func(t *testing.T) {
		net := NewNetwork("test")
		node := addNode(t, net, 0x0001, 1)
		node.UnicastAddress = 0x0010
		assert.ErrorIs(t, net.AddNode(node), ErrNodeAlreadyExists)
	})

	t.Run("Overlapping", func(t *testing.T) {
		net := NewNetwork("test")
		addNode(t, net, 0x0001, 3)
		err := net.AddNode(Node{UUID: uuid.New(), UnicastAddress: 0x0003, ElementsCount: 1})
		assert.ErrorIs(t, err, ErrAddressNotAvailable)
	})

	t.Run("InvalidRange", func(t *testing.T) {
		net := NewNetwork("test")
		assert.ErrorIs(t, net.AddNode(Node{UUID: uuid.New(), UnicastAddress: 0x7FFF, ElementsCount: 2}), ErrInvalidAddressRange)
		assert.ErrorIs(t, net.AddNode(Node{UUID: uuid.New(), UnicastAddress: 0x0001}), ErrInvalidAddressRange)
	})

	t.Run("RemoveExcludesAddresses", func(t *testing.T) {
		net := NewNetwork("test")
		net.SetIVIndex(5)
		node := addNode(t, net, 0x0010, 2)
		require.NoError(t, net.RemoveNode(node.UUID))

		assert.Equal(t, []address.Address{0x0010, 0x0011}, net.ExcludedAddresses(5))
		assert.Equal(t, []address.Address{0x0010, 0x0011}, net.ExcludedAddresses(6))
		assert.Empty(t, net.ExcludedAddresses(7))
		assert.True(t, net.ExclusionsContain(address.NewRange(0x0011, 0x0020), 5))

		err := net.AddNode(Node{UUID: uuid.New(), UnicastAddress: 0x0010, ElementsCount: 1})
		assert.ErrorIs(t, err, ErrAddressNotAvailable)

		assert.ErrorIs(t, net.RemoveNode(node.UUID), ErrNodeNotFound)
	})

	t.Run("RemoveUnregistersScenes", func(t *testing.T) {
		net := NewNetwork("test")
		node := addNode(t, net, 0x0001, 1)
		require.NoError(t, net.AddScene(1, "evening"))
		require.NoError(t, net.RegisterScene(1, node.UUID))

		require.NoError(t, net.RemoveNode(node.UUID))
		require.NoError(t, net.RemoveScene(1))
	})

	t.Run("Lookup", func(t *testing.T) {
		net := NewNetwork("test")
		node := addNode(t, net, 0x0020, 4)

		got, ok := net.NodeWithAddress(0x0023)
		require.True(t, ok)
		assert.Equal(t, node.UUID, got.UUID)

		_, ok = net.NodeWithAddress(0x0024)
		assert.False(t, ok)

		got, ok = net.Node(node.UUID)
		require.True(t, ok)
		assert.Equal(t, node, got)
	})
}

func TestExclusionCleanUp(t *testing.T) {
	net := NewNetwork("test")
	net.Exclude(0x0001)
	net.SetIVIndex(1)
	net.Exclude(0x0002)

	assert.Equal(t, []address.Address{0x0001, 0x0002}, net.ExcludedAddresses(1))
	assert.Len(t, net.ExclusionLists(), 2)

	net.SetIVIndex(2)
	assert.Equal(t, []address.Address{0x0002}, net.ExcludedAddresses(2))
	assert.Len(t, net.ExclusionLists(), 1)

	net.SetIVIndex(10)
	net.CleanUpExclusions()
	assert.Empty(t, net.ExclusionLists())
}

func TestGroupMutations(t *testing.T) {
	net := NewNetwork("test")
	require.NoError(t, net.AddGroup(Group{Name: "kitchen", Address: 0xC000}))

	assert.ErrorIs(t, net.AddGroup(Group{Name: "again", Address: 0xC000}), ErrGroupAlreadyExists)
	assert.ErrorIs(t, net.AddGroup(Group{Name: "unicast", Address: 0x0001}), ErrInvalidGroupAddress)
	assert.ErrorIs(t, net.AddGroup(Group{Name: "all-nodes", Address: address.AllNodes}), ErrInvalidGroupAddress)

	label := uuid.New()
	require.NoError(t, net.AddGroup(Group{Name: "virtual", Address: 0x8123, VirtualLabel: &label}))
	g, ok := net.Group(0x8123)
	require.True(t, ok)
	assert.True(t, g.IsVirtual())

	require.NoError(t, net.RemoveGroup(0xC000))
	assert.ErrorIs(t, net.RemoveGroup(0xC000), ErrGroupNotFound)
	assert.Len(t, net.Groups(), 1)
}

func TestSceneMutations(t *testing.T) {
	net := NewNetwork("test")
	node := addNode(t, net, 0x0001, 1)

	require.NoError(t, net.AddScene(1, "evening"))
	assert.ErrorIs(t, net.AddScene(1, "again"), ErrSceneAlreadyExists)
	assert.ErrorIs(t, net.AddScene(address.InvalidScene, "zero"), ErrInvalidSceneNumber)

	t.Run("InUse", func(t *testing.T) {
		require.NoError(t, net.RegisterScene(1, node.UUID))
		require.NoError(t, net.RegisterScene(1, node.UUID))

		assert.Equal(t, []Node{node}, net.NodesRegisteredTo(1))
		assert.ErrorIs(t, net.RemoveScene(1), ErrSceneInUse)

		require.NoError(t, net.UnregisterScene(1, node.UUID))
		assert.Empty(t, net.NodesRegisteredTo(1))
		require.NoError(t, net.RemoveScene(1))
	})

	t.Run("Unknown", func(t *testing.T) {
		assert.ErrorIs(t, net.RegisterScene(9, node.UUID), ErrSceneNotFound)
		assert.ErrorIs(t, net.UnregisterScene(9, node.UUID), ErrSceneNotFound)
		assert.NoError(t, net.RemoveScene(9))

		require.NoError(t, net.AddScene(2, "two"))
		assert.ErrorIs(t, net.RegisterScene(2, uuid.New()), ErrNodeNotFound)
	})
}
