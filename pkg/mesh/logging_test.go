package mesh

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/mesh-go/pkg/address"
	"github.com/mash-protocol/mesh-go/pkg/log"
	"github.com/mash-protocol/mesh-go/pkg/log/mocks"
)

func TestAllocatorsLogOneEventEach(t *testing.T) {
	net := NewNetwork("test")
	p := NewProvisioner("phone",
		ranges(address.NewRange(0x0001, 0x00FF)),
		ranges(address.NewRange(0xC000, 0xC0FF)),
		[]address.SceneRange{address.NewSceneRange(1, 0x10)},
	)
	require.NoError(t, net.AddProvisioner(*p))

	calls := []struct {
		op   log.Operation
		call func()
	}{
		{log.OpNextUnicastAddress, func() { net.NextAvailableUnicastAddress(address.MinUnicast, 2, p) }},
		{log.OpNextGroupAddress, func() { net.NextAvailableGroupAddress(p) }},
		{log.OpNextGroupAddress, func() { net.NextAvailableGroupAddressIn(address.NewRange(0, 1)) }},
		{log.OpNextScene, func() { net.NextAvailableScene(p) }},
		{log.OpNextGroupRange, func() { net.NextAvailableGroupAddressRange(4) }},
		{log.OpNextUnicastRange, func() { net.NextAvailableUnicastAddressRange(4) }},
		{log.OpNextSceneRange, func() { net.NextAvailableSceneRange(4) }},
		{log.OpRangeAvailable, func() { net.IsAddressRangeAvailable(address.NewRange(1, 2)) }},
		{log.OpAddressAvailable, func() { net.IsAddressAvailable(1, 2, nil) }},
	}

	for _, tt := range calls {
		t.Run(tt.op.String(), func(t *testing.T) {
			logger := mocks.NewMockLogger(t)
			logger.EXPECT().Log(mock.MatchedBy(func(e log.Event) bool {
				return e.Operation == tt.op && e.Category == tt.op.Category() && e.NetworkID == net.ID().String()
			})).Return().Once()
			net.SetLogger(logger)
			defer net.SetLogger(nil)

			tt.call()
		})
	}
}

func TestAllocationEventPayload(t *testing.T) {
	net := NewNetwork("test")
	addNode(t, net, 0x0001, 2)
	p := unicastProvisioner(address.NewRange(0x0001, 0x00FF))

	var got log.Event
	logger := mocks.NewMockLogger(t)
	logger.EXPECT().Log(mock.Anything).Run(func(e log.Event) { got = e }).Return().Once()
	net.SetLogger(logger)

	addr, ok := net.NextAvailableUnicastAddress(0x0001, 3, p)
	require.True(t, ok)

	assert.Equal(t, log.OutcomeFound, got.Outcome)
	assert.Equal(t, p.UUID.String(), got.ProvisionerID)
	require.NotNil(t, got.Allocation)
	assert.Equal(t, log.SpaceUnicast, got.Allocation.Space)
	assert.Equal(t, uint8(3), got.Allocation.ElementsCount)
	assert.Equal(t, 2, got.Allocation.Excluded)
	require.NotNil(t, got.Allocation.Result)
	assert.Equal(t, uint16(addr), *got.Allocation.Result)
	_, err := uuid.Parse(got.RequestID)
	assert.NoError(t, err)
}

func TestMutationEvents(t *testing.T) {
	net := NewNetwork("test")
	var events []log.Event
	logger := mocks.NewMockLogger(t)
	logger.EXPECT().Log(mock.Anything).Run(func(e log.Event) { events = append(events, e) }).Return()
	net.SetLogger(logger)

	require.NoError(t, net.AddGroup(Group{Name: "kitchen", Address: 0xC000}))
	require.Error(t, net.AddGroup(Group{Name: "kitchen", Address: 0xC000}))

	require.Len(t, events, 2)
	assert.Equal(t, log.OutcomeCommitted, events[0].Outcome)
	assert.Equal(t, log.OutcomeRejected, events[1].Outcome)
	require.NotNil(t, events[1].Mutation)
	assert.Contains(t, events[1].Mutation.Error, "group already exists")
	assert.Equal(t, uint32(0xC000), events[1].Mutation.Value)
}

func TestExhaustedAndInvalidOutcomes(t *testing.T) {
	net := NewNetwork("test")
	var events []log.Event
	logger := mocks.NewMockLogger(t)
	logger.EXPECT().Log(mock.Anything).Run(func(e log.Event) { events = append(events, e) }).Return()
	net.SetLogger(logger)

	p := unicastProvisioner(address.NewRange(0x0001, 0x0001))
	net.NextAvailableUnicastAddress(address.MinUnicast, 0, p)
	net.NextAvailableUnicastAddress(address.MinUnicast, 2, p)
	net.NextAvailableGroupAddressRange(0)

	require.Len(t, events, 3)
	assert.Equal(t, log.OutcomeInvalid, events[0].Outcome)
	assert.Equal(t, log.OutcomeExhausted, events[1].Outcome)
	assert.Nil(t, events[1].Allocation.Result)
	assert.Equal(t, log.OutcomeInvalid, events[2].Outcome)
}

func TestStreamLoggingRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewStreamLogger(&buf)

	net := NewNetwork("test")
	net.SetLogger(logger)
	p := groupProvisioner(address.NewRange(0xC000, 0xC0FF))
	require.NoError(t, net.AddProvisioner(*p))
	_, err := net.CreateGroup("kitchen", p)
	require.NoError(t, err)
	require.NoError(t, logger.Close())

	events, err := log.DecodeAll(&buf)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, log.OpAddProvisioner, events[0].Operation)
	assert.Equal(t, log.OpNextGroupAddress, events[1].Operation)
	assert.Equal(t, log.OpAddGroup, events[2].Operation)
	require.NotNil(t, events[1].Allocation.Result)
	assert.Equal(t, uint16(0xC000), *events[1].Allocation.Result)
}
