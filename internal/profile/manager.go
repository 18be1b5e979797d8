package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/777genius/audiodeck/internal/deckerr"
)

// Manager implements create, update, delete and read operations on profiles
// on top of a Store.
type Manager struct {
	store Store
	now   func() time.Time
	newID func() uuid.UUID
}

// NewManager returns a Manager over store.
func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		now:   time.Now,
		newID: uuid.New,
	}
}

// Create stores a new profile. It fails with DuplicateName when a profile
// called name already exists. Empty device ids are treated as unset.
func (m *Manager) Create(name string, outputID, inputID *string) (Profile, error) {
	if err := validateName(name); err != nil {
		return Profile{}, err
	}

	_, exists, err := m.store.ByName(name)
	if err != nil {
		return Profile{}, err
	}
	if exists {
		return Profile{}, deckerr.New(deckerr.DuplicateName, "profile with name '%s' already exists", name)
	}

	now := m.now()
	p := Profile{
		ID:        m.newID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if outputID != nil {
		p.OutputDeviceID = optional(*outputID)
	}
	if inputID != nil {
		p.InputDeviceID = optional(*inputID)
	}

	if err := m.store.Save(p); err != nil {
		return Profile{}, err
	}
	return p.Clone(), nil
}

// Update applies patch to the profile with the given id. Renaming a profile to
// its own current name is allowed.
func (m *Manager) Update(id uuid.UUID, patch Patch) (Profile, error) {
	p, err := m.Get(id)
	if err != nil {
		return Profile{}, err
	}

	if patch.Name != nil && *patch.Name != p.Name {
		other, exists, err := m.store.ByName(*patch.Name)
		if err != nil {
			return Profile{}, err
		}
		if exists && other.ID != id {
			return Profile{}, deckerr.New(deckerr.DuplicateName, "profile with name '%s' already exists", *patch.Name)
		}
	}

	if err := p.Apply(patch, m.now()); err != nil {
		return Profile{}, err
	}
	if err := m.store.Save(p); err != nil {
		return Profile{}, err
	}
	return p.Clone(), nil
}

// Delete removes the profile with the given id.
func (m *Manager) Delete(id uuid.UUID) error {
	exists, err := m.store.Exists(id)
	if err != nil {
		return err
	}
	if !exists {
		return notFound(id)
	}
	return m.store.Delete(id)
}

// List returns every profile in store order.
func (m *Manager) List() ([]Profile, error) {
	return m.store.All()
}

// Get returns the profile with the given id or a ProfileNotFound error.
func (m *Manager) Get(id uuid.UUID) (Profile, error) {
	p, ok, err := m.store.ByID(id)
	if err != nil {
		return Profile{}, err
	}
	if !ok {
		return Profile{}, notFound(id)
	}
	return p, nil
}

// GetByName returns the profile called name. A missing profile is reported
// through ok, not as an error.
func (m *Manager) GetByName(name string) (p Profile, ok bool, err error) {
	return m.store.ByName(name)
}

func notFound(id uuid.UUID) error {
	return deckerr.New(deckerr.ProfileNotFound, "profile with ID %s not found", id)
}
