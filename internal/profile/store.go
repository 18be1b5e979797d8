package profile

import "github.com/google/uuid"

// Store persists profiles. Save is an upsert keyed by ID. The store does not
// enforce name uniqueness; Manager does.
type Store interface {
	Save(p Profile) error
	ByID(id uuid.UUID) (Profile, bool, error)
	ByName(name string) (Profile, bool, error)
	All() ([]Profile, error)
	Delete(id uuid.UUID) error
	Exists(id uuid.UUID) (bool, error)
}
