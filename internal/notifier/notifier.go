package notifier

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/777genius/audiodeck/internal/audio"
	"github.com/777genius/audiodeck/internal/config"
	"github.com/777genius/audiodeck/internal/device"
	"github.com/777genius/audiodeck/internal/logging"
	"github.com/777genius/audiodeck/internal/platform"
	"github.com/777genius/audiodeck/internal/switcher"
)

const notificationTitle = "Audio profile switched"

// Notifier announces successful profile switches
type Notifier struct {
	cfg    *config.Config
	notify func(title, message, appIcon string) error
	play   func(deviceID, soundPath string, volume float64) error
}

// New creates a new notifier
func New(cfg *config.Config) *Notifier {
	return &Notifier{
		cfg:    cfg,
		notify: sendWithBeeep,
		play:   playOnDevice,
	}
}

// SwitchCompleted sends the desktop notification and plays the confirmation
// sound on the newly activated output device. Both are best effort; the
// returned error only reports what could not be delivered.
func (n *Notifier) SwitchCompleted(res switcher.Result) error {
	var errs []error

	if n.cfg.IsDesktopEnabled() {
		appIcon := n.cfg.Notifications.Desktop.AppIcon
		if appIcon != "" && !platform.FileExists(appIcon) {
			logging.Warn("App icon not found: %s, using default", appIcon)
			appIcon = ""
		}
		if err := n.notify(notificationTitle, buildMessage(res), appIcon); err != nil {
			logging.Error("Failed to send desktop notification: %v", err)
			errs = append(errs, fmt.Errorf("desktop notification: %w", err))
		} else {
			logging.Debug("Desktop notification sent: profile=%s", res.Profile.Name)
		}
	} else {
		logging.Debug("Desktop notifications disabled, skipping")
	}

	if n.cfg.IsSoundEnabled() {
		soundPath := n.cfg.Notifications.Desktop.SoundPath
		if err := n.play(outputID(res), soundPath, n.cfg.Notifications.Desktop.VolumeLevel()); err != nil {
			logging.Warn("Failed to play confirmation sound %s: %v", soundPath, err)
			errs = append(errs, fmt.Errorf("confirmation sound: %w", err))
		}
	}

	return errors.Join(errs...)
}

// buildMessage renders "Switched to Gaming" followed by one line per device
func buildMessage(res switcher.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Switched to %s", res.Profile.Name)
	for _, d := range res.Applied {
		fmt.Fprintf(&b, "\n%s: %s", device.TypeDisplayName(d.Type()), d.Name())
	}
	return b.String()
}

// outputID returns the applied output device, or "" for the system default
func outputID(res switcher.Result) string {
	for _, d := range res.Applied {
		if d.Type() == device.Output {
			return d.ID()
		}
	}
	return ""
}

// sendWithBeeep sends notification via beeep (cross-platform)
func sendWithBeeep(title, message, appIcon string) error {
	// Windows keeps a registry entry per AppName, so it gets a fixed one.
	// Elsewhere a unique name stops consecutive switches replacing each other.
	originalAppName := beeep.AppName
	if platform.IsWindows() {
		beeep.AppName = "AudioDeck"
	} else {
		beeep.AppName = fmt.Sprintf("audiodeck-%d", time.Now().UnixNano())
	}
	defer func() {
		beeep.AppName = originalAppName
	}()

	return beeep.Notify(title, message, appIcon)
}

func playOnDevice(deviceID, soundPath string, volume float64) error {
	player, err := audio.NewPlayer(deviceID, volume)
	if err != nil {
		return err
	}
	defer player.Close()

	return player.Play(soundPath)
}
