package address

import "fmt"

// Address is a 16-bit mesh address.
type Address uint16

// Address space boundaries.
const (
	// Unassigned is the unassigned address.
	Unassigned Address = 0x0000

	// MinUnicast is the lowest unicast address.
	MinUnicast Address = 0x0001
	// MaxUnicast is the highest unicast address.
	MaxUnicast Address = 0x7FFF

	// MinVirtual is the lowest virtual address.
	MinVirtual Address = 0x8000
	// MaxVirtual is the highest virtual address.
	MaxVirtual Address = 0xBFFF

	// MinGroup is the lowest group address that may be assigned to a group.
	MinGroup Address = 0xC000
	// MaxGroup is the highest group address that may be assigned to a group.
	MaxGroup Address = 0xFEFF
)

// Fixed group addresses.
const (
	AllProxies Address = 0xFFFC
	AllFriends Address = 0xFFFD
	AllRelays  Address = 0xFFFE
	AllNodes   Address = 0xFFFF
)

// IsUnassigned returns true for 0x0000.
func (a Address) IsUnassigned() bool {
	return a == Unassigned
}

// IsUnicast returns true if the address is in the unicast range.
func (a Address) IsUnicast() bool {
	return a >= MinUnicast && a <= MaxUnicast
}

// IsVirtual returns true if the address is in the virtual range.
func (a Address) IsVirtual() bool {
	return a >= MinVirtual && a <= MaxVirtual
}

// IsGroup returns true if the address can be assigned to a group.
func (a Address) IsGroup() bool {
	return a >= MinGroup && a <= MaxGroup
}

// IsFixedGroup returns true for the 0xFF00-0xFFFF block.
func (a Address) IsFixedGroup() bool {
	return a > MaxGroup
}

// IsSpecialGroup returns true for fixed group addresses reserved for future use.
func (a Address) IsSpecialGroup() bool {
	return a.IsFixedGroup() && a < AllProxies
}

// Class returns the name of the address class.
func (a Address) Class() string {
	switch {
	case a.IsUnassigned():
		return "unassigned"
	case a.IsUnicast():
		return "unicast"
	case a.IsVirtual():
		return "virtual"
	case a.IsGroup():
		return "group"
	case a.IsSpecialGroup():
		return "reserved"
	}
	switch a {
	case AllProxies:
		return "all-proxies"
	case AllFriends:
		return "all-friends"
	case AllRelays:
		return "all-relays"
	default:
		return "all-nodes"
	}
}

// String returns the address as 0xXXXX.
func (a Address) String() string {
	return fmt.Sprintf("0x%04X", uint16(a))
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	v, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
