// Package storage implements profile.Store on top of a JSON file and in
// memory.
package storage

import (
	"sync"

	"github.com/google/uuid"

	"github.com/777genius/audiodeck/internal/profile"
)

// MemoryStore keeps profiles in a slice, in insertion order.
type MemoryStore struct {
	mu       sync.Mutex
	profiles []profile.Profile
}

var _ profile.Store = (*MemoryStore)(nil)

// NewMemoryStore returns a store seeded with profiles.
func NewMemoryStore(profiles ...profile.Profile) *MemoryStore {
	s := &MemoryStore{}
	for _, p := range profiles {
		s.profiles = append(s.profiles, p.Clone())
	}
	return s
}

func (s *MemoryStore) Save(p profile.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = upsert(s.profiles, p.Clone())
	return nil
}

func (s *MemoryStore) ByID(id uuid.UUID) (profile.Profile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := findByID(s.profiles, id)
	return p, ok, nil
}

func (s *MemoryStore) ByName(name string) (profile.Profile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := findByName(s.profiles, name)
	return p, ok, nil
}

func (s *MemoryStore) All() ([]profile.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.profiles), nil
}

func (s *MemoryStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = remove(s.profiles, id)
	return nil
}

func (s *MemoryStore) Exists(id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := findByID(s.profiles, id)
	return ok, nil
}

// upsert replaces the profile with p's id or appends p.
func upsert(profiles []profile.Profile, p profile.Profile) []profile.Profile {
	for i := range profiles {
		if profiles[i].ID == p.ID {
			profiles[i] = p
			return profiles
		}
	}
	return append(profiles, p)
}

func remove(profiles []profile.Profile, id uuid.UUID) []profile.Profile {
	out := profiles[:0]
	for _, p := range profiles {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

func findByID(profiles []profile.Profile, id uuid.UUID) (profile.Profile, bool) {
	for _, p := range profiles {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return profile.Profile{}, false
}

func findByName(profiles []profile.Profile, name string) (profile.Profile, bool) {
	for _, p := range profiles {
		if p.Name == name {
			return p.Clone(), true
		}
	}
	return profile.Profile{}, false
}

func cloneAll(profiles []profile.Profile) []profile.Profile {
	out := make([]profile.Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.Clone())
	}
	return out
}
