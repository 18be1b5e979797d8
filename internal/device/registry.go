package device

import (
	"sync"
	"sync/atomic"

	"github.com/777genius/audiodeck/internal/deckerr"
)

// Enumerator lists the active endpoints of one type.
type Enumerator interface {
	Devices(t Type) ([]AudioDevice, error)
}

// Registry is read access to the device snapshot plus a way to re-sync it.
type Registry interface {
	All() []AudioDevice
	ByType(t Type) []AudioDevice
	Default(t Type) (AudioDevice, bool)
	ByID(id string) (AudioDevice, bool)
	Refresh() error
}

// Controller activates endpoints on the platform.
type Controller interface {
	// SetDefault makes id the default endpoint of type t for every role the
	// platform knows for t. It succeeds when at least one role was set.
	SetDefault(id string, t Type) error
	// Refresh is a hook for platforms that do not re-sync on their own.
	Refresh() error
}

// Cache is a Registry backed by an Enumerator. The snapshot is only ever
// replaced as a whole, so readers never see a partially refreshed list.
type Cache struct {
	enum     Enumerator
	snapshot atomic.Pointer[[]AudioDevice]

	// refreshMu serializes refreshes; reads never take it.
	refreshMu sync.Mutex
}

var _ Registry = (*Cache)(nil)

// NewCache returns an empty Cache. Call Refresh to populate it.
func NewCache(enum Enumerator) *Cache {
	c := &Cache{enum: enum}
	c.snapshot.Store(&[]AudioDevice{})
	return c
}

func (c *Cache) load() []AudioDevice {
	return *c.snapshot.Load()
}

// All returns a copy of the snapshot.
func (c *Cache) All() []AudioDevice {
	devices := c.load()
	out := make([]AudioDevice, len(devices))
	copy(out, devices)
	return out
}

// ByType returns the devices of type t.
func (c *Cache) ByType(t Type) []AudioDevice {
	var out []AudioDevice
	for _, d := range c.load() {
		if d.typ == t {
			out = append(out, d)
		}
	}
	return out
}

// Default returns the device of type t flagged as default. When none is
// flagged the first device of that type is returned instead.
//
// TODO: the fallback can report a non-default device as the default; switch
// to ok=false once `audiodeck current` can print "no default" instead.
func (c *Cache) Default(t Type) (AudioDevice, bool) {
	devices := c.ByType(t)
	for _, d := range devices {
		if d.isDefault {
			return d, true
		}
	}
	if len(devices) == 0 {
		return AudioDevice{}, false
	}
	return devices[0], true
}

// ByID looks up a device by id.
func (c *Cache) ByID(id string) (AudioDevice, bool) {
	for _, d := range c.load() {
		if d.id == id {
			return d, true
		}
	}
	return AudioDevice{}, false
}

// Refresh re-enumerates every device type. On failure the previous snapshot
// is kept and the error is returned.
func (c *Cache) Refresh() error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	var next []AudioDevice
	for _, t := range Types {
		devices, err := c.enum.Devices(t)
		if err != nil {
			return deckerr.Wrap(deckerr.DeviceControlFailed, err, "failed to enumerate %s devices", t)
		}
		seen := make(map[string]struct{}, len(devices))
		for _, d := range devices {
			if d.typ != t {
				continue
			}
			if _, ok := seen[d.id]; ok {
				continue
			}
			seen[d.id] = struct{}{}
			next = append(next, d)
		}
	}

	c.snapshot.Store(&next)
	return nil
}

// List returns the devices known to r, limited to *filter when it is set.
// With refresh the registry is re-synced first.
func List(r Registry, filter *Type, refresh bool) ([]AudioDevice, error) {
	if refresh {
		if err := r.Refresh(); err != nil {
			return nil, err
		}
	}
	if filter != nil {
		return r.ByType(*filter), nil
	}
	return r.All(), nil
}

// Current re-syncs r and returns its default device for each type that
// has any device at all.
func Current(r Registry) (map[Type]AudioDevice, error) {
	if err := r.Refresh(); err != nil {
		return nil, err
	}
	defaults := make(map[Type]AudioDevice, len(Types))
	for _, t := range Types {
		if d, ok := r.Default(t); ok {
			defaults[t] = d
		}
	}
	return defaults, nil
}
