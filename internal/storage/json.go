package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/777genius/audiodeck/internal/deckerr"
	"github.com/777genius/audiodeck/internal/logging"
	"github.com/777genius/audiodeck/internal/platform"
	"github.com/777genius/audiodeck/internal/profile"
)

// record is the on-disk form of a profile.
type record struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	OutputDeviceID *string `json:"output_device_id"`
	InputDeviceID  *string `json:"input_device_id"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// timeLayouts are tried in order when reading timestamps. The second accepts
// ISO-8601 without a zone, with or without fractional seconds.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// JSONStore keeps every profile in a single JSON array. The whole file is
// read on every lookup and rewritten on every mutation.
type JSONStore struct {
	path string
	mu   sync.Mutex
}

var _ profile.Store = (*JSONStore)(nil)

// NewJSONStore opens the store at path, creating an empty file (and its
// directory) when it does not exist yet.
func NewJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{path: path}
	if !platform.FileExists(path) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, deckerr.Wrap(deckerr.StorageFailure, err, "failed to create profiles directory")
		}
		if err := s.write(nil); err != nil {
			return nil, err
		}
		logging.Info("Created empty profiles file: %s", path)
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *JSONStore) Path() string {
	return s.path
}

func (s *JSONStore) Save(p profile.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.read()
	if err != nil {
		return err
	}
	return s.write(upsert(profiles, p.Clone()))
}

func (s *JSONStore) ByID(id uuid.UUID) (profile.Profile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.read()
	if err != nil {
		return profile.Profile{}, false, err
	}
	p, ok := findByID(profiles, id)
	return p, ok, nil
}

func (s *JSONStore) ByName(name string) (profile.Profile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.read()
	if err != nil {
		return profile.Profile{}, false, err
	}
	p, ok := findByName(profiles, name)
	return p, ok, nil
}

func (s *JSONStore) All() ([]profile.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *JSONStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.read()
	if err != nil {
		return err
	}
	return s.write(remove(profiles, id))
}

func (s *JSONStore) Exists(id uuid.UUID) (bool, error) {
	_, ok, err := s.ByID(id)
	return ok, err
}

func (s *JSONStore) read() ([]profile.Profile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, deckerr.Wrap(deckerr.StorageFailure, err, "failed to read profiles")
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, deckerr.Wrap(deckerr.StorageFailure, err, "failed to parse profiles file %s", s.path)
	}

	profiles := make([]profile.Profile, 0, len(records))
	for i, r := range records {
		p, err := r.toProfile()
		if err != nil {
			return nil, deckerr.Wrap(deckerr.StorageFailure, err, "invalid profile record %d in %s", i, s.path)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// write replaces the file atomically through a temp file in the same
// directory.
func (s *JSONStore) write(profiles []profile.Profile) error {
	records := make([]record, 0, len(profiles))
	for _, p := range profiles {
		records = append(records, fromProfile(p))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return deckerr.Wrap(deckerr.StorageFailure, err, "failed to encode profiles")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".profiles-*.json")
	if err != nil {
		return deckerr.Wrap(deckerr.StorageFailure, err, "failed to write profiles")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return deckerr.Wrap(deckerr.StorageFailure, err, "failed to write profiles")
	}
	if err := tmp.Close(); err != nil {
		return deckerr.Wrap(deckerr.StorageFailure, err, "failed to write profiles")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return deckerr.Wrap(deckerr.StorageFailure, err, "failed to replace profiles file")
	}

	logging.Debug("Wrote %d profiles to %s", len(records), s.path)
	return nil
}

func fromProfile(p profile.Profile) record {
	return record{
		ID:             p.ID.String(),
		Name:           p.Name,
		OutputDeviceID: p.OutputDeviceID,
		InputDeviceID:  p.InputDeviceID,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:      p.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func (r record) toProfile() (profile.Profile, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("invalid id %q: %w", r.ID, err)
	}
	if r.Name == "" {
		return profile.Profile{}, fmt.Errorf("profile %s has an empty name", r.ID)
	}
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("invalid created_at: %w", err)
	}
	updatedAt, err := parseTime(r.UpdatedAt)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("invalid updated_at: %w", err)
	}
	return profile.Profile{
		ID:             id,
		Name:           r.Name,
		OutputDeviceID: r.OutputDeviceID,
		InputDeviceID:  r.InputDeviceID,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}, nil
}

func parseTime(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
