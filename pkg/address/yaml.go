package address

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// decodeYAMLUint16 parses a scalar as hexadecimal text. Plain YAML
// integers are read the same way, so 1000, "1000" and 0x1000 agree.
func decodeYAMLUint16(value *yaml.Node) (uint16, error) {
	if value.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("%w: line %d: expected scalar", ErrInvalidFormat, value.Line)
	}
	v, err := parseUint16(value.Value)
	if err != nil {
		return 0, fmt.Errorf("line %d: %w", value.Line, err)
	}
	return v, nil
}

// MarshalYAML implements yaml.Marshaler.
func (a Address) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Address) UnmarshalYAML(value *yaml.Node) error {
	v, err := decodeYAMLUint16(value)
	if err != nil {
		return err
	}
	*a = Address(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (s SceneNumber) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *SceneNumber) UnmarshalYAML(value *yaml.Node) error {
	v, err := decodeYAMLUint16(value)
	if err != nil {
		return err
	}
	*s = SceneNumber(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (r AddressRange) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *AddressRange) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: expected scalar", ErrInvalidFormat, value.Line)
	}
	return r.UnmarshalText([]byte(value.Value))
}

// MarshalYAML implements yaml.Marshaler.
func (r SceneRange) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *SceneRange) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: expected scalar", ErrInvalidFormat, value.Line)
	}
	return r.UnmarshalText([]byte(value.Value))
}
