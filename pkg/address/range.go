package address

import (
	"fmt"
	"iter"
	"slices"
)

// AddressRange is an inclusive interval of addresses.
type AddressRange struct {
	Low  Address
	High Address
}

// NewRange returns the range [low, high]. The bounds are swapped if given
// in reverse order.
func NewRange(low, high Address) AddressRange {
	if low > high {
		low, high = high, low
	}
	return AddressRange{Low: low, High: high}
}

// RangeFromElements returns the block of count consecutive addresses
// starting at addr. It returns false if count is zero or the block would
// run past 0xFFFF.
func RangeFromElements(addr Address, count uint8) (AddressRange, bool) {
	if count == 0 {
		return AddressRange{}, false
	}
	high := uint32(addr) + uint32(count) - 1
	if high > 0xFFFF {
		return AddressRange{}, false
	}
	return AddressRange{Low: addr, High: Address(high)}, true
}

// Len returns the number of addresses in the range.
func (r AddressRange) Len() int {
	if r.High < r.Low {
		return 0
	}
	return int(r.High) - int(r.Low) + 1
}

// IsUnicast returns true if every address in the range is a unicast address.
func (r AddressRange) IsUnicast() bool {
	return r.Low <= r.High && r.Low.IsUnicast() && r.High.IsUnicast()
}

// IsGroup returns true if every address in the range can be assigned to a group.
func (r AddressRange) IsGroup() bool {
	return r.Low <= r.High && r.Low.IsGroup() && r.High.IsGroup()
}

// Contains returns true if addr lies within the range.
func (r AddressRange) Contains(addr Address) bool {
	return addr >= r.Low && addr <= r.High
}

// Overlaps returns true if the two ranges share at least one address.
func (r AddressRange) Overlaps(other AddressRange) bool {
	return r.Low <= other.High && other.Low <= r.High
}

// Values yields the addresses of the range in ascending order.
func (r AddressRange) Values() iter.Seq[Address] {
	return func(yield func(Address) bool) {
		if r.High < r.Low {
			return
		}
		for a := uint32(r.Low); a <= uint32(r.High); a++ {
			if !yield(Address(a)) {
				return
			}
		}
	}
}

// String returns the range as 0xLLLL-0xHHHH.
func (r AddressRange) String() string {
	return fmt.Sprintf("%s-%s", r.Low, r.High)
}

// MarshalText implements encoding.TextMarshaler.
func (r AddressRange) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *AddressRange) UnmarshalText(text []byte) error {
	v, err := ParseRange(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// SortRanges returns a copy of ranges ordered by their low bound.
// Ranges with equal low bounds keep their relative order.
func SortRanges(ranges []AddressRange) []AddressRange {
	sorted := slices.Clone(ranges)
	slices.SortStableFunc(sorted, func(a, b AddressRange) int {
		return int(a.Low) - int(b.Low)
	})
	return sorted
}

// MergeRanges returns the union of ranges as a sorted list of disjoint,
// non-adjacent ranges.
func MergeRanges(ranges []AddressRange) []AddressRange {
	sorted := SortRanges(ranges)
	merged := make([]AddressRange, 0, len(sorted))
	for _, r := range sorted {
		if r.High < r.Low {
			continue
		}
		if n := len(merged); n > 0 && uint32(r.Low) <= uint32(merged[n-1].High)+1 {
			if r.High > merged[n-1].High {
				merged[n-1].High = r.High
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// AnyOverlap returns true if any range in a overlaps any range in b.
func AnyOverlap(a, b []AddressRange) bool {
	for _, x := range a {
		for _, y := range b {
			if x.Overlaps(y) {
				return true
			}
		}
	}
	return false
}
