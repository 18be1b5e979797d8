// Package switcher applies an audio profile: it resolves the profile's device
// references against the live device registry and activates them.
package switcher

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/777genius/audiodeck/internal/deckerr"
	"github.com/777genius/audiodeck/internal/device"
	"github.com/777genius/audiodeck/internal/profile"
)

// Step names a stage of a switch.
type Step string

const (
	StepRefresh  Step = "refresh"
	StepOutput   Step = "output"
	StepInput    Step = "input"
	StepFinalize Step = "finalize"
)

// Error reports the step a switch stopped at and the devices that had
// already been activated by then. Activations are not rolled back.
type Error struct {
	Step    Step
	Applied []device.AudioDevice
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s step failed: %v", e.Step, e.Err)
	if len(e.Applied) > 0 {
		names := make([]string, 0, len(e.Applied))
		for _, d := range e.Applied {
			names = append(names, fmt.Sprintf("%s %q", d.Type(), d.Name()))
		}
		fmt.Fprintf(&b, " (already applied: %s)", strings.Join(names, ", "))
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Result describes a successful switch.
type Result struct {
	Profile profile.Profile
	// Applied lists the activated devices, output first.
	Applied []device.AudioDevice
}

// Switcher applies profiles.
type Switcher struct {
	profiles   profile.Store
	registry   device.Registry
	controller device.Controller
}

// New returns a Switcher.
func New(profiles profile.Store, registry device.Registry, controller device.Controller) *Switcher {
	return &Switcher{
		profiles:   profiles,
		registry:   registry,
		controller: controller,
	}
}

// SwitchTo activates the devices of the profile with the given id. The
// output slot is always handled before the input slot. A profile with no
// devices is a successful no-op.
func (s *Switcher) SwitchTo(id uuid.UUID) (Result, error) {
	p, ok, err := s.profiles.ByID(id)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, deckerr.New(deckerr.ProfileNotFound, "profile with ID %s not found", id)
	}

	res := Result{Profile: p}

	if err := s.registry.Refresh(); err != nil {
		return res, &Error{Step: StepRefresh, Err: controlErr(err, "failed to refresh devices")}
	}

	slots := []struct {
		step     Step
		typ      device.Type
		deviceID *string
	}{
		{StepOutput, device.Output, p.OutputDeviceID},
		{StepInput, device.Input, p.InputDeviceID},
	}
	for _, slot := range slots {
		if slot.deviceID == nil {
			continue
		}
		d, err := s.activate(*slot.deviceID, slot.typ)
		if err != nil {
			return res, &Error{Step: slot.step, Applied: res.Applied, Err: err}
		}
		res.Applied = append(res.Applied, d)
	}

	if len(res.Applied) == 0 {
		return res, nil
	}

	if err := s.controller.Refresh(); err != nil {
		return res, &Error{Step: StepFinalize, Applied: res.Applied, Err: controlErr(err, "device controller refresh failed")}
	}
	if err := s.registry.Refresh(); err != nil {
		return res, &Error{Step: StepFinalize, Applied: res.Applied, Err: controlErr(err, "failed to refresh devices")}
	}
	return res, nil
}

func (s *Switcher) activate(id string, want device.Type) (device.AudioDevice, error) {
	d, err := s.resolve(id, want)
	if err != nil {
		return device.AudioDevice{}, err
	}
	if err := s.controller.SetDefault(id, want); err != nil {
		return device.AudioDevice{}, controlErr(err, "failed to set %s as default %s device", d.Name(), want)
	}
	return d.WithDefault(true), nil
}

// resolve finds id among the devices of type want. Duplex endpoints may
// share one id across both types, so a mismatch is only reported when the id
// exists solely under the other type.
func (s *Switcher) resolve(id string, want device.Type) (device.AudioDevice, error) {
	for _, d := range s.registry.ByType(want) {
		if d.ID() == id {
			return d, nil
		}
	}
	if d, ok := s.registry.ByID(id); ok {
		return device.AudioDevice{}, deckerr.New(deckerr.DeviceTypeMismatch,
			"device %s (%s) is not an %s device", id, d.Name(), want)
	}
	return device.AudioDevice{}, deckerr.New(deckerr.DeviceNotFound, "%s device %s not found", want, id)
}

// controlErr tags err as DeviceControlFailed unless it already has a kind.
func controlErr(err error, format string, args ...any) error {
	if deckerr.KindOf(err) != deckerr.Unknown {
		return err
	}
	return deckerr.Wrap(deckerr.DeviceControlFailed, err, format, args...)
}
