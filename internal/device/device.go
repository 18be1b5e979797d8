// Package device models audio endpoints and keeps the last known snapshot of
// the endpoints the operating system exposes.
package device

import (
	"errors"
	"fmt"
	"strings"
)

// Type is the direction of an audio endpoint.
type Type uint8

const (
	Output Type = iota + 1
	Input
)

// Types lists every device type in switch order.
var Types = []Type{Output, Input}

func (t Type) String() string {
	switch t {
	case Output:
		return "output"
	case Input:
		return "input"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// ParseType parses "output" or "input" (case insensitive).
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "output", "out", "playback":
		return Output, nil
	case "input", "in", "capture":
		return Input, nil
	default:
		return 0, fmt.Errorf("unknown device type: %q (must be one of: output, input)", s)
	}
}

var typeDisplayNames = map[Type]string{
	Output: "Output",
	Input:  "Input",
}

// TypeDisplayName returns the label used when presenting t to a user.
func TypeDisplayName(t Type) string {
	if name, ok := typeDisplayNames[t]; ok {
		return name
	}
	return t.String()
}

// AudioDevice is an immutable snapshot of one endpoint.
type AudioDevice struct {
	id        string
	name      string
	typ       Type
	isDefault bool
	isEnabled bool
}

// New validates and returns an AudioDevice. id and name must be non-empty.
func New(id, name string, typ Type, isDefault, isEnabled bool) (AudioDevice, error) {
	if id == "" {
		return AudioDevice{}, errors.New("device ID cannot be empty")
	}
	if name == "" {
		return AudioDevice{}, errors.New("device name cannot be empty")
	}
	if typ != Output && typ != Input {
		return AudioDevice{}, fmt.Errorf("invalid device type for %s: %v", id, typ)
	}
	return AudioDevice{
		id:        id,
		name:      name,
		typ:       typ,
		isDefault: isDefault,
		isEnabled: isEnabled,
	}, nil
}

func (d AudioDevice) ID() string      { return d.id }
func (d AudioDevice) Name() string    { return d.name }
func (d AudioDevice) Type() Type      { return d.typ }
func (d AudioDevice) IsDefault() bool { return d.isDefault }
func (d AudioDevice) IsEnabled() bool { return d.isEnabled }

// WithDefault returns a copy of d with the default flag set to isDefault.
func (d AudioDevice) WithDefault(isDefault bool) AudioDevice {
	d.isDefault = isDefault
	return d
}

// DisplayName formats d's name with its status, e.g. "Speakers (Default)".
func DisplayName(d AudioDevice) string {
	var status []string
	if d.isDefault {
		status = append(status, "Default")
	}
	if !d.isEnabled {
		status = append(status, "Disabled")
	}
	if len(status) == 0 {
		return d.name
	}
	return fmt.Sprintf("%s (%s)", d.name, strings.Join(status, ", "))
}
