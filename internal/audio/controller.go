package audio

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/777genius/audiodeck/internal/deckerr"
	"github.com/777genius/audiodeck/internal/device"
	"github.com/777genius/audiodeck/internal/logging"
	"github.com/777genius/audiodeck/internal/platform"
)

// Runner runs an external command and returns its combined output.
type Runner interface {
	Run(name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// Backend describes how one platform tool activates a default endpoint.
type Backend struct {
	Name string
	Tool string
	// Roles lists the platform roles set for each device type, in order.
	Roles map[device.Type][]string
	// Args builds the tool arguments for one role.
	Args func(id string, t device.Type, role string) []string
}

var (
	// SoundVolumeView sets the Windows default endpoint per role:
	// 0 console, 1 multimedia, 2 communications.
	SoundVolumeView = Backend{
		Name: "soundvolumeview",
		Tool: "SoundVolumeView.exe",
		Roles: map[device.Type][]string{
			device.Output: {"0", "1", "2"},
			device.Input:  {"0", "1", "2"},
		},
		Args: func(id string, _ device.Type, role string) []string {
			return []string{"/SetDefault", id, role}
		},
	}

	// Pactl sets the PulseAudio / PipeWire default sink or source.
	Pactl = Backend{
		Name: "pactl",
		Tool: "pactl",
		Roles: map[device.Type][]string{
			device.Output: {"default"},
			device.Input:  {"default"},
		},
		Args: func(id string, t device.Type, _ string) []string {
			if t == device.Input {
				return []string{"set-default-source", id}
			}
			return []string{"set-default-sink", id}
		},
	}

	// SwitchAudio drives the macOS SwitchAudioSource tool. Output devices are
	// also made the system (alert) output.
	SwitchAudio = Backend{
		Name: "switchaudio",
		Tool: "SwitchAudioSource",
		Roles: map[device.Type][]string{
			device.Output: {"output", "system"},
			device.Input:  {"input"},
		},
		Args: func(id string, _ device.Type, role string) []string {
			return []string{"-t", role, "-u", id}
		},
	}
)

var backends = map[string]Backend{
	SoundVolumeView.Name: SoundVolumeView,
	Pactl.Name:           Pactl,
	SwitchAudio.Name:     SwitchAudio,
}

// BackendNames lists the accepted backend names, "auto" included.
func BackendNames() []string {
	return []string{"auto", SoundVolumeView.Name, Pactl.Name, SwitchAudio.Name}
}

// BackendFor returns the named backend. "auto" and "" pick one from the
// operating system.
func BackendFor(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		switch {
		case platform.IsWindows():
			return SoundVolumeView, nil
		case platform.IsMacOS():
			return SwitchAudio, nil
		default:
			return Pactl, nil
		}
	}
	b, ok := backends[name]
	if !ok {
		return Backend{}, fmt.Errorf("unknown controller backend: %s (must be one of: %s)",
			name, strings.Join(BackendNames(), ", "))
	}
	return b, nil
}

// CommandController is a device.Controller that shells out to a backend tool
// once per role.
type CommandController struct {
	backend Backend
	tool    string
	runner  Runner
}

var _ device.Controller = (*CommandController)(nil)

// NewCommandController returns a controller for backend. toolPath overrides
// the backend's executable when non-empty; a nil runner uses ExecRunner.
func NewCommandController(backend Backend, toolPath string, runner Runner) *CommandController {
	if runner == nil {
		runner = ExecRunner{}
	}
	tool := backend.Tool
	if toolPath != "" {
		tool = toolPath
	}
	return &CommandController{backend: backend, tool: tool, runner: runner}
}

// SetDefault activates id for every role of t. Failing roles are tolerated
// as long as one role succeeds.
func (c *CommandController) SetDefault(id string, t device.Type) error {
	roles := c.backend.Roles[t]
	if len(roles) == 0 {
		return deckerr.New(deckerr.DeviceControlFailed, "%s backend cannot set %s devices", c.backend.Name, t)
	}

	var errs []error
	succeeded := 0
	for _, role := range roles {
		out, err := c.runner.Run(c.tool, c.backend.Args(id, t, role)...)
		if err != nil {
			msg := strings.TrimSpace(string(out))
			if msg != "" {
				err = fmt.Errorf("%w: %s", err, msg)
			}
			logging.Warn("Failed to set %s role %s for %s: %v", t, role, id, err)
			errs = append(errs, fmt.Errorf("role %s: %w", role, err))
			continue
		}
		succeeded++
		logging.Debug("Set %s role %s: %s", t, role, id)
	}

	if succeeded == 0 {
		return deckerr.Wrap(deckerr.DeviceControlFailed, errors.Join(errs...),
			"failed to set device %s as default for any role", id)
	}
	logging.Info("Set %s as default %s device for %d/%d roles", id, t, succeeded, len(roles))
	return nil
}

// Refresh is a no-op: every supported platform re-syncs its defaults itself.
func (c *CommandController) Refresh() error {
	return nil
}
