package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/777genius/audiodeck/internal/audio"
	"github.com/777genius/audiodeck/internal/cli"
	"github.com/777genius/audiodeck/internal/config"
	"github.com/777genius/audiodeck/internal/device"
	"github.com/777genius/audiodeck/internal/errorhandler"
	"github.com/777genius/audiodeck/internal/logging"
	"github.com/777genius/audiodeck/internal/notifier"
	"github.com/777genius/audiodeck/internal/profile"
	"github.com/777genius/audiodeck/internal/storage"
	"github.com/777genius/audiodeck/internal/switcher"
)

const version = "0.3.0"

func main() {
	// logToConsole=true, exitOnCritical=false (each caller exits itself),
	// recoveryEnabled=true
	errorhandler.Init(true, false, true)
	defer errorhandler.HandlePanic()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch {
	case command == "version" || command == "--version" || command == "-v":
		fmt.Printf("audiodeck v%s\n", version)
	case command == "help" || command == "--help" || command == "-h":
		printUsage()
	case command == "preview":
		os.Exit(errorhandler.Run(func() int { return previewSound(args) }))
	case cli.IsCommand(command):
		os.Exit(errorhandler.Run(func() int { return runCommand(command, args) }))
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runCommand(command string, args []string) int {
	cfg, err := loadConfig()
	if err != nil {
		errorhandler.HandleCriticalError(err, "Failed to load config")
		return 1
	}

	if _, err := logging.InitLogger(cfg.Logging.Dir, cfg.Logging.MaxFiles); err != nil {
		errorhandler.HandleCriticalError(err, "Failed to initialize logger")
		return 1
	}
	defer logging.Close()
	if err := logging.SetLevel(cfg.Logging.Level); err != nil {
		logging.Warn("Ignoring logging level: %v", err)
	}
	logging.SetPrefix(fmt.Sprintf("PID:%d", os.Getpid()))

	handler, err := newHandler(cfg)
	if err != nil {
		errorhandler.HandleCriticalError(err, "Failed to create handler")
		return 1
	}
	return handler.Run(command, args)
}

func loadConfig() (*config.Config, error) {
	path := config.DefaultPath()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func newHandler(cfg *config.Config) (*cli.Handler, error) {
	store, err := storage.NewJSONStore(cfg.ProfilesPath)
	if err != nil {
		return nil, err
	}

	backend, err := audio.BackendFor(cfg.Backend)
	if err != nil {
		return nil, err
	}
	logging.Debug("Using %s backend, profiles at %s", backend.Name, store.Path())

	registry := device.NewCache(audio.NewEnumerator())
	controller := audio.NewCommandController(backend, cfg.ControllerPath, audio.ExecRunner{})

	return cli.NewHandler(
		profile.NewManager(store),
		registry,
		switcher.New(store, registry, controller),
		notifier.New(cfg),
	), nil
}

func previewSound(args []string) int {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	volumeFlag := fs.Float64("volume", 1.0, "Volume level (0.0 to 1.0)")
	deviceFlag := fs.String("device", "", "Output device id (empty = system default)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: audiodeck preview [options] [path-to-audio-file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSupported formats: %s\n", strings.Join(audio.SupportedFormats, ", "))
		fmt.Fprintf(os.Stderr, "Without a path the configured confirmation sound is played.\n")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}

	if *volumeFlag < 0.0 || *volumeFlag > 1.0 {
		fmt.Fprintf(os.Stderr, "Error: Volume must be between 0.0 and 1.0 (got %.2f)\n", *volumeFlag)
		return 1
	}

	soundPath := fs.Arg(0)
	if soundPath == "" {
		cfg, err := loadConfig()
		if err != nil {
			errorhandler.HandleCriticalError(err, "Failed to load config")
			return 1
		}
		soundPath = cfg.Notifications.Desktop.SoundPath
	}
	if soundPath == "" {
		fs.Usage()
		return 1
	}

	if _, err := os.Stat(soundPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: Sound file not found: %s\n", soundPath)
		return 1
	}

	fmt.Printf("Playing: %s (volume: %d%%)\n", filepath.Base(soundPath), int(*volumeFlag*100))

	player, err := audio.NewPlayer(*deviceFlag, *volumeFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating audio player: %v\n", err)
		return 1
	}
	defer player.Close()

	if err := player.Play(soundPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error playing sound: %v\n", err)
		return 1
	}

	fmt.Println("Playback completed")
	return 0
}

func printUsage() {
	fmt.Printf(`audiodeck - switch audio input/output devices with one command

Usage:
  audiodeck <command> [arguments]

Commands:
  list                              List saved profiles
  switch <name|id>                  Activate a profile's devices (also: --profile <name>)
  devices [-type output|input]      List audio devices and their ids
  current                           Show the current default devices
  create <name> [-output ID] [-input ID]
                                    Create a profile
  update <name|id> [-name N] [-output ID] [-input ID]
                                    Change a profile (an empty ID clears the slot)
  delete <name|id>                  Delete a profile
  preview [-device ID] [-volume V] [file]
                                    Play a sound on a device
  version                           Show version information
  help                              Show this help message

Configuration:
  %s (override with %s)

Examples:
  audiodeck devices -type output
  audiodeck create Gaming -output <headset-id> -input <headset-mic-id>
  audiodeck switch Gaming
`, config.DefaultPath(), config.EnvConfigPath)
}
