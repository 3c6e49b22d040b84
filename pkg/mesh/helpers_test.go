package mesh

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/mesh-go/pkg/address"
)

func ranges(rs ...address.AddressRange) []address.AddressRange {
	return rs
}

func unicastProvisioner(rs ...address.AddressRange) *Provisioner {
	return NewProvisioner("test", rs, nil, nil)
}

func groupProvisioner(rs ...address.AddressRange) *Provisioner {
	return NewProvisioner("test", nil, rs, nil)
}

func addNode(t *testing.T, net *Network, addr address.Address, count uint8) Node {
	t.Helper()
	node := Node{UUID: uuid.New(), Name: addr.String(), UnicastAddress: addr, ElementsCount: count}
	require.NoError(t, net.AddNode(node))
	return node
}

func addGroups(t *testing.T, net *Network, addrs ...address.Address) {
	t.Helper()
	for _, a := range addrs {
		require.NoError(t, net.AddGroup(Group{Name: a.String(), Address: a}))
	}
}
