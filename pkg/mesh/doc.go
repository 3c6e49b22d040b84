// Package mesh models a mesh network's address space and allocates
// identifiers from it.
//
// A [Network] owns nodes, groups, scenes, provisioners and the exclusion
// lists of recently freed unicast addresses. Each [Provisioner] is delegated
// one or more ranges of the unicast, group and scene spaces; allocators only
// hand out identifiers from the ranges of the provisioner they are asked for.
//
// # Allocators
//
//   - [Network.NextAvailableUnicastAddress]: first block of N free unicast
//     addresses in the provisioner's ranges, skipping node elements and
//     excluded addresses.
//   - [Network.NextAvailableGroupAddress], [Network.NextAvailableScene]:
//     first free single slot.
//   - [Network.NextAvailableGroupAddressRange] and friends: first unclaimed
//     range of a given size, for delegating to a provisioner.
//
// Ranges are always searched in the order the provisioner declares them;
// that order is the provisioner's preference. Exhaustion and invalid
// requests are reported as a false second return value, never as an error.
//
// # Concurrency
//
// Every allocator call takes a read lock and works on the state as it was
// at that moment. Finding a free slot and then adding an entity with it are
// two separate critical sections; use [Network.ProvisionNode],
// [Network.CreateGroup] or [Network.CreateScene] to do both atomically.
package mesh
