package address

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned when an address, scene number or range
// cannot be parsed.
var ErrInvalidFormat = errors.New("invalid address format")

// ParseAddress parses a hexadecimal address with or without a 0x prefix,
// e.g. "0xC000", "c000" or "1".
func ParseAddress(s string) (Address, error) {
	v, err := parseUint16(s)
	if err != nil {
		return 0, err
	}
	return Address(v), nil
}

// ParseRange parses an address range written as "LOW-HIGH" or "LOW..HIGH".
// A single address is parsed as a one-element range.
func ParseRange(s string) (AddressRange, error) {
	low, high, err := parseBounds(s)
	if err != nil {
		return AddressRange{}, err
	}
	return NewRange(Address(low), Address(high)), nil
}

// ParseSceneRange parses a scene range in the same formats as ParseRange.
func ParseSceneRange(s string) (SceneRange, error) {
	low, high, err := parseBounds(s)
	if err != nil {
		return SceneRange{}, err
	}
	return NewSceneRange(SceneNumber(low), SceneNumber(high)), nil
}

// ParseSceneNumber parses a hexadecimal scene number.
func ParseSceneNumber(s string) (SceneNumber, error) {
	v, err := parseUint16(s)
	if err != nil {
		return 0, err
	}
	return SceneNumber(v), nil
}

func parseBounds(s string) (uint16, uint16, error) {
	s = strings.TrimSpace(s)
	lowStr, highStr, found := strings.Cut(s, "..")
	if !found {
		lowStr, highStr, found = strings.Cut(s, "-")
	}
	low, err := parseUint16(lowStr)
	if err != nil {
		return 0, 0, err
	}
	if !found {
		return low, low, nil
	}
	high, err := parseUint16(highStr)
	if err != nil {
		return 0, 0, err
	}
	return low, high, nil
}

func parseUint16(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	digits := s
	if len(digits) > 2 && (digits[:2] == "0x" || digits[:2] == "0X") {
		digits = digits[2:]
	}
	if digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	v, err := strconv.ParseUint(digits, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return uint16(v), nil
}
