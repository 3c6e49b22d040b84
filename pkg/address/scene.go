package address

import (
	"fmt"
	"iter"
)

// SceneNumber identifies a stored scene. Zero is invalid.
type SceneNumber uint16

// Scene number space boundaries.
const (
	InvalidScene SceneNumber = 0x0000
	MinScene     SceneNumber = 0x0001
	MaxScene     SceneNumber = 0xFFFF
)

// IsValid returns true for any non-zero scene number.
func (s SceneNumber) IsValid() bool {
	return s != InvalidScene
}

// String returns the scene number as 0xXXXX.
func (s SceneNumber) String() string {
	return fmt.Sprintf("0x%04X", uint16(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s SceneNumber) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SceneNumber) UnmarshalText(text []byte) error {
	v, err := parseUint16(string(text))
	if err != nil {
		return err
	}
	*s = SceneNumber(v)
	return nil
}

// SceneRange is an inclusive interval of scene numbers.
type SceneRange struct {
	Low  SceneNumber
	High SceneNumber
}

// NewSceneRange returns the range [low, high], swapping reversed bounds.
func NewSceneRange(low, high SceneNumber) SceneRange {
	if low > high {
		low, high = high, low
	}
	return SceneRange{Low: low, High: high}
}

// IsValid returns true if the range holds only valid scene numbers.
func (r SceneRange) IsValid() bool {
	return r.Low.IsValid() && r.Low <= r.High
}

// Len returns the number of scene numbers in the range.
func (r SceneRange) Len() int {
	if r.High < r.Low {
		return 0
	}
	return int(r.High) - int(r.Low) + 1
}

// Contains returns true if n lies within the range.
func (r SceneRange) Contains(n SceneNumber) bool {
	return n >= r.Low && n <= r.High
}

// Overlaps returns true if the two ranges share at least one number.
func (r SceneRange) Overlaps(other SceneRange) bool {
	return r.Low <= other.High && other.Low <= r.High
}

// Values yields the scene numbers of the range in ascending order.
func (r SceneRange) Values() iter.Seq[SceneNumber] {
	return func(yield func(SceneNumber) bool) {
		if r.High < r.Low {
			return
		}
		for n := uint32(r.Low); n <= uint32(r.High); n++ {
			if !yield(SceneNumber(n)) {
				return
			}
		}
	}
}

// AsAddressRange reinterprets the scene range over the shared 16-bit space.
func (r SceneRange) AsAddressRange() AddressRange {
	return AddressRange{Low: Address(r.Low), High: Address(r.High)}
}

// String returns the range as 0xLLLL-0xHHHH.
func (r SceneRange) String() string {
	return fmt.Sprintf("%s-%s", r.Low, r.High)
}

// MarshalText implements encoding.TextMarshaler.
func (r SceneRange) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *SceneRange) UnmarshalText(text []byte) error {
	v, err := ParseSceneRange(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
