// Package address defines the 16-bit address and scene number spaces of a
// mesh network and the inclusive interval types used to delegate parts of
// those spaces to provisioners.
//
// # Address Classification
//
// Every 16-bit value belongs to exactly one class:
//
//   - 0x0000: unassigned
//   - 0x0001-0x7FFF: unicast (one per node element)
//   - 0x8000-0xBFFF: virtual (derived from a 128-bit label)
//   - 0xC000-0xFEFF: group (allocatable to groups)
//   - 0xFF00-0xFFFF: fixed group addresses (all-proxies, all-friends,
//     all-relays, all-nodes, and a block reserved for future use)
//
// Scene numbers share the 16-bit width; 0x0000 is the only invalid scene number.
//
// # Ranges
//
// [AddressRange] and [SceneRange] are inclusive intervals. They marshal to
// and from text as "0xLLLL-0xHHHH", which is how they appear in JSON and
// YAML network snapshots.
//
// Addresses and scene numbers are always hexadecimal, with or without a 0x
// prefix. This holds for unquoted YAML integers too: "scene: 10" is scene
// 0x0010, not ten.
package address
