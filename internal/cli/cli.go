package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/777genius/audiodeck/internal/deckerr"
	"github.com/777genius/audiodeck/internal/device"
	"github.com/777genius/audiodeck/internal/logging"
	"github.com/777genius/audiodeck/internal/profile"
	"github.com/777genius/audiodeck/internal/switcher"
)

const staleDeviceHint = "The profile may reference devices that are no longer available. " +
	"Please update the profile (see 'audiodeck devices' for current ids)."

// switcherInterface defines the interface for applying a profile
type switcherInterface interface {
	SwitchTo(id uuid.UUID) (switcher.Result, error)
}

// notifierInterface defines the interface for announcing a completed switch
type notifierInterface interface {
	SwitchCompleted(res switcher.Result) error
}

// Handler runs audiodeck commands
type Handler struct {
	profiles    *profile.Manager
	registry    device.Registry
	switcherSvc switcherInterface
	notifierSvc notifierInterface
	stdout      io.Writer
	stderr      io.Writer
}

// NewHandler creates a new command handler writing to stdout and stderr
func NewHandler(profiles *profile.Manager, registry device.Registry, sw switcherInterface, n notifierInterface) *Handler {
	return &Handler{
		profiles:    profiles,
		registry:    registry,
		switcherSvc: sw,
		notifierSvc: n,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
	}
}

// SetOutput redirects command output
func (h *Handler) SetOutput(stdout, stderr io.Writer) {
	h.stdout = stdout
	h.stderr = stderr
}

// Commands lists the commands Run understands
var Commands = []string{"list", "switch", "devices", "current", "create", "update", "delete"}

// IsCommand reports whether Run handles command
func IsCommand(command string) bool {
	switch command {
	case "--list", "--profile":
		return true
	}
	for _, c := range Commands {
		if c == command {
			return true
		}
	}
	return false
}

// Run executes command and returns the process exit code
func (h *Handler) Run(command string, args []string) int {
	logging.Debug("=== Command: %s %s ===", command, strings.Join(args, " "))

	var err error
	switch command {
	case "list", "--list":
		err = h.list()
	case "switch", "--profile":
		err = h.switchProfile(args)
	case "devices":
		err = h.devices(args)
	case "current":
		err = h.current()
	case "create":
		err = h.create(args)
	case "update":
		err = h.update(args)
	case "delete":
		err = h.deleteProfile(args)
	default:
		err = fmt.Errorf("unknown command: %s", command)
	}

	if err == nil {
		return 0
	}
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	logging.Error("Command %s failed: %v", command, err)
	fmt.Fprintf(h.stderr, "Error: %v\n", err)
	if errors.Is(err, deckerr.DeviceNotFound) || errors.Is(err, deckerr.DeviceTypeMismatch) {
		fmt.Fprintln(h.stderr, staleDeviceHint)
	}
	if errors.Is(err, deckerr.ProfileNotFound) {
		h.printAvailable(h.stderr)
	}
	return 1
}

func (h *Handler) list() error {
	profiles, err := h.profiles.List()
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Fprintln(h.stdout, "No profiles found.")
		fmt.Fprintln(h.stdout, "Create one with: audiodeck create <name> -output <device-id> -input <device-id>")
		fmt.Fprintln(h.stdout, "List device ids with: audiodeck devices")
		return nil
	}

	fmt.Fprintln(h.stdout, "Available profiles:")
	for _, p := range profiles {
		fmt.Fprintf(h.stdout, "  %s  [%s]\n", p.Summary(), p.ID)
	}
	return nil
}

func (h *Handler) printAvailable(w io.Writer) {
	profiles, err := h.profiles.List()
	if err != nil || len(profiles) == 0 {
		return
	}
	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	fmt.Fprintf(w, "Available profiles: %s\n", strings.Join(names, ", "))
}

// resolve finds a profile by exact name, then by id
func (h *Handler) resolve(ref string) (profile.Profile, error) {
	p, ok, err := h.profiles.GetByName(ref)
	if err != nil {
		return profile.Profile{}, err
	}
	if ok {
		return p, nil
	}
	if id, err := profile.ParseID(ref); err == nil {
		return h.profiles.Get(id)
	}
	return profile.Profile{}, deckerr.New(deckerr.ProfileNotFound, "profile '%s' not found", ref)
}

func (h *Handler) switchProfile(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: audiodeck switch <name|id>")
	}
	p, err := h.resolve(args[0])
	if err != nil {
		return err
	}

	res, err := h.switcherSvc.SwitchTo(p.ID)
	if err != nil {
		return fmt.Errorf("failed to switch to profile '%s': %w", p.Name, err)
	}

	if len(res.Applied) == 0 {
		fmt.Fprintf(h.stdout, "Profile '%s' has no devices, nothing to switch\n", res.Profile.Name)
		return nil
	}

	fmt.Fprintf(h.stdout, "Switched to profile '%s'\n", res.Profile.Name)
	for _, d := range res.Applied {
		fmt.Fprintf(h.stdout, "  %s: %s\n", device.TypeDisplayName(d.Type()), d.Name())
	}
	logging.Info("Switched to profile %s (%s)", res.Profile.Name, res.Profile.ID)

	if h.notifierSvc != nil {
		if err := h.notifierSvc.SwitchCompleted(res); err != nil {
			logging.Warn("Switch notification incomplete: %v", err)
		}
	}
	return nil
}

func (h *Handler) devices(args []string) error {
	fs := h.flagSet("devices", "[-type output|input]")
	typeFlag := fs.String("type", "", "Only list devices of this type (output or input)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	types := device.Types
	var filter *device.Type
	if *typeFlag != "" {
		t, err := device.ParseType(*typeFlag)
		if err != nil {
			return err
		}
		filter = &t
		types = []device.Type{t}
	}

	devices, err := device.List(h.registry, filter, true)
	if err != nil {
		return err
	}

	for i, t := range types {
		if i > 0 {
			fmt.Fprintln(h.stdout)
		}
		fmt.Fprintf(h.stdout, "%s devices:\n", device.TypeDisplayName(t))
		n := 0
		for _, d := range devices {
			if d.Type() != t {
				continue
			}
			n++
			fmt.Fprintf(h.stdout, "  %s  [%s]\n", device.DisplayName(d), d.ID())
		}
		if n == 0 {
			fmt.Fprintln(h.stdout, "  (none)")
		}
	}
	return nil
}

func (h *Handler) current() error {
	defaults, err := device.Current(h.registry)
	if err != nil {
		return err
	}
	for _, t := range device.Types {
		label := device.TypeDisplayName(t) + ":"
		d, ok := defaults[t]
		if !ok {
			fmt.Fprintf(h.stdout, "%-7s none\n", label)
			continue
		}
		fmt.Fprintf(h.stdout, "%-7s %s  [%s]\n", label, d.Name(), d.ID())
	}
	return nil
}

func (h *Handler) create(args []string) error {
	name, rest := splitTarget(args)
	fs := h.flagSet("create", "<name> [-output <device-id>] [-input <device-id>]")
	output := fs.String("output", "", "Output device id")
	input := fs.String("input", "", "Input device id")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	name, err := positional(name, fs)
	if err != nil {
		return err
	}
	if name == "" {
		return errors.New("usage: audiodeck create <name> [-output <device-id>] [-input <device-id>]")
	}

	p, err := h.profiles.Create(name, nonEmpty(*output), nonEmpty(*input))
	if err != nil {
		return err
	}
	fmt.Fprintf(h.stdout, "Created profile %s  [%s]\n", p.Summary(), p.ID)
	logging.Info("Created profile %s (%s)", p.Name, p.ID)
	return nil
}

func (h *Handler) update(args []string) error {
	ref, rest := splitTarget(args)
	fs := h.flagSet("update", "<name|id> [-name <new-name>] [-output <device-id>] [-input <device-id>]")
	fs.String("name", "", "New profile name")
	fs.String("output", "", "Output device id (empty clears the slot)")
	fs.String("input", "", "Input device id (empty clears the slot)")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	ref, err := positional(ref, fs)
	if err != nil {
		return err
	}
	if ref == "" {
		return errors.New("usage: audiodeck update <name|id> [-name <new-name>] [-output <device-id>] [-input <device-id>]")
	}

	// Only flags given on the command line become part of the patch.
	var patch profile.Patch
	fs.Visit(func(f *flag.Flag) {
		v := f.Value.String()
		switch f.Name {
		case "name":
			patch.Name = &v
		case "output":
			patch.OutputDeviceID = &v
		case "input":
			patch.InputDeviceID = &v
		}
	})
	if patch.IsEmpty() {
		return errors.New("nothing to update: pass -name, -output or -input")
	}

	p, err := h.resolve(ref)
	if err != nil {
		return err
	}
	updated, err := h.profiles.Update(p.ID, patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(h.stdout, "Updated profile %s\n", updated.Summary())
	logging.Info("Updated profile %s (%s)", updated.Name, updated.ID)
	return nil
}

func (h *Handler) deleteProfile(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: audiodeck delete <name|id>")
	}
	p, err := h.resolve(args[0])
	if err != nil {
		return err
	}
	if err := h.profiles.Delete(p.ID); err != nil {
		return err
	}
	fmt.Fprintf(h.stdout, "Deleted profile '%s'\n", p.Name)
	logging.Info("Deleted profile %s (%s)", p.Name, p.ID)
	return nil
}

func (h *Handler) flagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(h.stderr)
	fs.Usage = func() {
		fmt.Fprintf(h.stderr, "Usage: audiodeck %s %s\n\nOptions:\n", name, usage)
		fs.PrintDefaults()
	}
	return fs
}

// positional returns the one positional argument of a command: peeled by
// splitTarget, or else the first argument left after the flags. Anything
// beyond it is rejected.
func positional(peeled string, fs *flag.FlagSet) (string, error) {
	extra := fs.Args()
	if peeled == "" && len(extra) > 0 {
		peeled, extra = extra[0], extra[1:]
	}
	if len(extra) > 0 {
		return "", fmt.Errorf("unexpected arguments: %s", strings.Join(extra, " "))
	}
	return peeled, nil
}

// splitTarget peels a leading positional argument off args so flags may
// follow it.
func splitTarget(args []string) (string, []string) {
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		return args[0], args[1:]
	}
	return "", args
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
