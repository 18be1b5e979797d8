package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/777genius/audiodeck/internal/platform"
)

// EnvConfigPath overrides the location of the config file.
const EnvConfigPath = "AUDIODECK_CONFIG"

// Config represents the audiodeck configuration
type Config struct {
	ProfilesPath   string              `json:"profilesPath"`   // Profiles JSON file (empty = <dataDir>/profiles.json)
	Backend        string              `json:"backend"`        // Device control backend: "auto", "pactl", "switchaudio", "soundvolumeview"
	ControllerPath string              `json:"controllerPath"` // Path to the backend tool (empty = look up in PATH)
	Logging        LoggingConfig       `json:"logging"`
	Notifications  NotificationsConfig `json:"notifications"`
}

// LoggingConfig represents log file settings
type LoggingConfig struct {
	Level    string `json:"level"`    // trace, debug, info, warn, error, critical, off
	Dir      string `json:"dir"`      // Log directory (empty = data dir)
	MaxFiles int    `json:"maxFiles"` // Rotated log files to keep
}

// NotificationsConfig represents what happens after a successful switch
type NotificationsConfig struct {
	Desktop DesktopConfig `json:"desktop"`
}

// DesktopConfig represents desktop notification settings
type DesktopConfig struct {
	Enabled   bool     `json:"enabled"`
	Sound     bool     `json:"sound"`     // Play SoundPath on the new output device
	SoundPath string   `json:"soundPath"` // Confirmation sound (mp3, wav, flac, ogg, aiff)
	Volume    *float64 `json:"volume"`    // Volume level 0.0-1.0, unset = 1.0 (full volume)
	AppIcon   string   `json:"appIcon"`   // Path to app icon
}

// VolumeLevel returns the configured volume. An explicit 0 mutes the sound.
func (d DesktopConfig) VolumeLevel() float64 {
	if d.Volume == nil {
		return 1.0
	}
	return *d.Volume
}

var validBackends = map[string]bool{
	"":                true, // empty means auto
	"auto":            true,
	"pactl":           true,
	"switchaudio":     true,
	"soundvolumeview": true,
}

var validLevels = map[string]bool{
	"trace":    true,
	"debug":    true,
	"info":     true,
	"warn":     true,
	"error":    true,
	"critical": true,
	"off":      true,
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ProfilesPath: filepath.Join(platform.DataDir(), "profiles.json"),
		Backend:      "auto",
		Logging: LoggingConfig{
			Level:    "info",
			Dir:      platform.DataDir(),
			MaxFiles: 3,
		},
		Notifications: NotificationsConfig{
			Desktop: DesktopConfig{
				Enabled: false,
				Sound:   false,
			},
		},
	}
}

// DefaultPath returns the config file location, honouring AUDIODECK_CONFIG
func DefaultPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return platform.ExpandEnv(path)
	}
	return filepath.Join(platform.ConfigDir(), "config.json")
}

// Load loads configuration from a file
// If the file doesn't exist, returns default config
func Load(path string) (*Config, error) {
	if !platform.FileExists(path) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Expand environment variables in paths
	config.ProfilesPath = platform.ExpandEnv(config.ProfilesPath)
	config.ControllerPath = platform.ExpandEnv(config.ControllerPath)
	config.Logging.Dir = platform.ExpandEnv(config.Logging.Dir)
	config.Notifications.Desktop.SoundPath = platform.ExpandEnv(config.Notifications.Desktop.SoundPath)
	config.Notifications.Desktop.AppIcon = platform.ExpandEnv(config.Notifications.Desktop.AppIcon)

	config.ApplyDefaults()

	return config, nil
}

// ApplyDefaults fills in missing fields with default values
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()

	if c.ProfilesPath == "" {
		c.ProfilesPath = defaults.ProfilesPath
	}
	if c.Backend == "" {
		c.Backend = defaults.Backend
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Logging.Dir == "" {
		c.Logging.Dir = defaults.Logging.Dir
	}
	if c.Logging.MaxFiles == 0 {
		c.Logging.MaxFiles = defaults.Logging.MaxFiles
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !validBackends[c.Backend] {
		return fmt.Errorf("invalid backend: %s (must be one of: auto, pactl, switchaudio, soundvolumeview)", c.Backend)
	}

	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be one of: trace, debug, info, warn, error, critical, off)", c.Logging.Level)
	}

	if c.Logging.MaxFiles < 0 {
		return fmt.Errorf("logging maxFiles must be >= 0")
	}

	if v := c.Notifications.Desktop.VolumeLevel(); v < 0.0 || v > 1.0 {
		return fmt.Errorf("desktop volume must be between 0.0 and 1.0 (got %.2f)", v)
	}

	if c.Notifications.Desktop.Sound && c.Notifications.Desktop.SoundPath == "" {
		return fmt.Errorf("soundPath is required when the confirmation sound is enabled")
	}

	return nil
}

// IsDesktopEnabled returns true if desktop notifications are enabled
func (c *Config) IsDesktopEnabled() bool {
	return c.Notifications.Desktop.Enabled
}

// IsSoundEnabled returns true if the confirmation sound is enabled
func (c *Config) IsSoundEnabled() bool {
	return c.Notifications.Desktop.Sound && c.Notifications.Desktop.SoundPath != ""
}
