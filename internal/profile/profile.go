// Package profile holds audio profiles: named pairings of a preferred output
// and input device, plus the lifecycle rules that keep profile names unique.
package profile

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile is a named pairing of device ids. The ids are not checked against
// the live devices until the profile is applied.
type Profile struct {
	ID             uuid.UUID
	Name           string
	OutputDeviceID *string
	InputDeviceID  *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Patch lists the fields to change on a profile. Nil fields are left as they
// are. A device id set to "" clears that slot.
type Patch struct {
	Name           *string
	OutputDeviceID *string
	InputDeviceID  *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.OutputDeviceID == nil && p.InputDeviceID == nil
}

var errEmptyName = errors.New("profile name cannot be empty")

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errEmptyName
	}
	return nil
}

// Apply merges patch into p and stamps UpdatedAt with now.
func (p *Profile) Apply(patch Patch, now time.Time) error {
	if patch.Name != nil {
		if err := validateName(*patch.Name); err != nil {
			return err
		}
		p.Name = *patch.Name
	}
	if patch.OutputDeviceID != nil {
		p.OutputDeviceID = optional(*patch.OutputDeviceID)
	}
	if patch.InputDeviceID != nil {
		p.InputDeviceID = optional(*patch.InputDeviceID)
	}
	p.UpdatedAt = now
	return nil
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	p.OutputDeviceID = clonePtr(p.OutputDeviceID)
	p.InputDeviceID = clonePtr(p.InputDeviceID)
	return p
}

func (p Profile) HasOutput() bool  { return p.OutputDeviceID != nil }
func (p Profile) HasInput() bool   { return p.InputDeviceID != nil }
func (p Profile) IsComplete() bool { return p.HasOutput() && p.HasInput() }

// Slots describes which device slots are configured, e.g. "Output + Input".
func (p Profile) Slots() string {
	var parts []string
	if p.HasOutput() {
		parts = append(parts, "Output")
	}
	if p.HasInput() {
		parts = append(parts, "Input")
	}
	if len(parts) == 0 {
		return "Empty"
	}
	return strings.Join(parts, " + ")
}

// Summary formats the profile for listings, e.g. "Gaming (Output + Input)".
func (p Profile) Summary() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Slots())
}

// ParseID parses the string form of a profile id.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid profile id %q: %w", s, err)
	}
	return id, nil
}

// optional maps "" to nil.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
