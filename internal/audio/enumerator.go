//go:build cgo && !noaudio

package audio

import (
	"fmt"

	"github.com/gen2brain/malgo"

	"github.com/777genius/audiodeck/internal/device"
	"github.com/777genius/audiodeck/internal/logging"
	"github.com/777genius/audiodeck/internal/platform"
)

// Enumerator lists endpoints through miniaudio. A fresh context is opened on
// every call so that the list reflects changes made by other programs.
type Enumerator struct{}

var _ device.Enumerator = Enumerator{}

// NewEnumerator returns a malgo backed Enumerator.
func NewEnumerator() Enumerator {
	return Enumerator{}
}

func malgoType(t device.Type) (malgo.DeviceType, error) {
	switch t {
	case device.Output:
		return malgo.Playback, nil
	case device.Input:
		return malgo.Capture, nil
	default:
		return 0, fmt.Errorf("unsupported device type: %v", t)
	}
}

func withContext(fn func(ctx *malgo.AllocatedContext) error) error {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to init audio context: %w", err)
	}
	defer func() {
		_ = ctx.Uninit()
		ctx.Free()
	}()
	return fn(ctx)
}

// Devices returns the active endpoints of type t.
func (Enumerator) Devices(t device.Type) ([]device.AudioDevice, error) {
	typ, err := malgoType(t)
	if err != nil {
		return nil, err
	}

	var result []device.AudioDevice
	err = withContext(func(ctx *malgo.AllocatedContext) error {
		infos, err := ctx.Devices(typ)
		if err != nil {
			return fmt.Errorf("failed to enumerate devices: %w", err)
		}

		result = make([]device.AudioDevice, 0, len(infos))
		for _, info := range infos {
			id := DecodeDeviceID(info.ID[:], platform.IsWindows())
			d, err := device.New(id, info.Name(), t, info.IsDefault != 0, true)
			if err != nil {
				logging.Warn("Skipping %s device %q: %v", t, info.Name(), err)
				continue
			}
			result = append(result, d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Debug("Enumerated %d %s devices", len(result), t)
	return result, nil
}

// findDeviceID returns the raw miniaudio id of the endpoint whose decoded id
// is id.
func findDeviceID(ctx *malgo.AllocatedContext, typ malgo.DeviceType, id string) (malgo.DeviceID, bool, error) {
	infos, err := ctx.Devices(typ)
	if err != nil {
		return malgo.DeviceID{}, false, fmt.Errorf("failed to enumerate devices: %w", err)
	}
	for _, info := range infos {
		if DecodeDeviceID(info.ID[:], platform.IsWindows()) == id {
			return info.ID, true, nil
		}
	}
	return malgo.DeviceID{}, false, nil
}
