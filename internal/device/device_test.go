package device

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/777genius/audiodeck/internal/deckerr"
)

type fakeEnumerator struct {
	devices map[Type][]AudioDevice
	err     error
	calls   int
}

func (f *fakeEnumerator) Devices(t Type) ([]AudioDevice, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.devices[t], nil
}

func mustDevice(t *testing.T, id, name string, typ Type, isDefault bool) AudioDevice {
	t.Helper()
	d, err := New(id, name, typ, isDefault, true)
	require.NoError(t, err)
	return d
}

func TestNewValidates(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		devName string
		typ     Type
		wantErr bool
	}{
		{"valid output", "out1", "Speakers", Output, false},
		{"valid input", "in1", "Microphone", Input, false},
		{"empty id", "", "Speakers", Output, true},
		{"empty name", "out1", "", Output, true},
		{"zero type", "out1", "Speakers", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.id, tt.devName, tt.typ, false, true)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWithDefaultReturnsNewValue(t *testing.T) {
	d := mustDevice(t, "out1", "Speakers", Output, false)
	updated := d.WithDefault(true)

	assert.False(t, d.IsDefault())
	assert.True(t, updated.IsDefault())
	assert.Equal(t, d.ID(), updated.ID())
	assert.Equal(t, d.Name(), updated.Name())
}

func TestDisplayName(t *testing.T) {
	plain := mustDevice(t, "a", "Speakers", Output, false)
	def := mustDevice(t, "b", "Headset", Output, true)
	disabled, err := New("c", "HDMI", Output, true, false)
	require.NoError(t, err)

	assert.Equal(t, "Speakers", DisplayName(plain))
	assert.Equal(t, "Headset (Default)", DisplayName(def))
	assert.Equal(t, "HDMI (Default, Disabled)", DisplayName(disabled))
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("Output")
	require.NoError(t, err)
	assert.Equal(t, Output, typ)

	typ, err = ParseType("capture")
	require.NoError(t, err)
	assert.Equal(t, Input, typ)

	_, err = ParseType("speaker")
	assert.Error(t, err)

	assert.Equal(t, "Output", TypeDisplayName(Output))
	assert.Equal(t, "Input", TypeDisplayName(Input))
}

func TestCacheLookups(t *testing.T) {
	enum := &fakeEnumerator{devices: map[Type][]AudioDevice{
		Output: {
			mustDevice(t, "out1", "Speakers", Output, false),
			mustDevice(t, "out2", "Headset", Output, true),
		},
		Input: {
			mustDevice(t, "in1", "Microphone", Input, false),
		},
	}}
	c := NewCache(enum)
	assert.Empty(t, c.All(), "cache is empty before the first refresh")

	require.NoError(t, c.Refresh())
	assert.Len(t, c.All(), 3)
	assert.Len(t, c.ByType(Output), 2)
	assert.Len(t, c.ByType(Input), 1)

	d, ok := c.ByID("in1")
	require.True(t, ok)
	assert.Equal(t, Input, d.Type())

	_, ok = c.ByID("missing")
	assert.False(t, ok)

	def, ok := c.Default(Output)
	require.True(t, ok)
	assert.Equal(t, "out2", def.ID())
}

func TestCacheDefaultFallsBackToFirstDevice(t *testing.T) {
	enum := &fakeEnumerator{devices: map[Type][]AudioDevice{
		Input: {
			mustDevice(t, "in1", "Microphone", Input, false),
			mustDevice(t, "in2", "Line In", Input, false),
		},
	}}
	c := NewCache(enum)
	require.NoError(t, c.Refresh())

	def, ok := c.Default(Input)
	require.True(t, ok)
	assert.Equal(t, "in1", def.ID())
	assert.False(t, def.IsDefault())

	_, ok = c.Default(Output)
	assert.False(t, ok, "no output devices means no default")
}

func TestCacheRefreshFailureKeepsSnapshot(t *testing.T) {
	enum := &fakeEnumerator{devices: map[Type][]AudioDevice{
		Output: {mustDevice(t, "out1", "Speakers", Output, true)},
	}}
	c := NewCache(enum)
	require.NoError(t, c.Refresh())

	enum.err = errors.New("backend gone")
	err := c.Refresh()
	require.Error(t, err)
	assert.True(t, errors.Is(err, deckerr.DeviceControlFailed))

	_, ok := c.ByID("out1")
	assert.True(t, ok, "old snapshot must survive a failed refresh")
}

func TestCacheRefreshDropsDuplicates(t *testing.T) {
	enum := &fakeEnumerator{devices: map[Type][]AudioDevice{
		Output: {
			mustDevice(t, "out1", "Speakers", Output, true),
			mustDevice(t, "out1", "Speakers", Output, true),
		},
	}}
	c := NewCache(enum)
	require.NoError(t, c.Refresh())
	assert.Len(t, c.All(), 1)
}

func TestCacheAllReturnsCopy(t *testing.T) {
	enum := &fakeEnumerator{devices: map[Type][]AudioDevice{
		Output: {mustDevice(t, "out1", "Speakers", Output, true)},
	}}
	c := NewCache(enum)
	require.NoError(t, c.Refresh())

	all := c.All()
	all[0] = mustDevice(t, "other", "Other", Output, false)

	_, ok := c.ByID("out1")
	assert.True(t, ok)
}

func TestListFiltersAndRefreshes(t *testing.T) {
	enum := &fakeEnumerator{devices: map[Type][]AudioDevice{
		Output: {mustDevice(t, "o1", "Speakers", Output, true)},
		Input:  {mustDevice(t, "i1", "Mic", Input, true)},
	}}
	c := NewCache(enum)

	all, err := List(c, nil, false)
	require.NoError(t, err)
	assert.Empty(t, all, "no refresh means the empty initial snapshot")
	assert.Zero(t, enum.calls)

	all, err = List(c, nil, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	out := Output
	outputs, err := List(c, &out, false)
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, "o1", outputs[0].ID())
}

func TestListRefreshError(t *testing.T) {
	c := NewCache(&fakeEnumerator{err: errors.New("no backend")})

	_, err := List(c, nil, true)
	assert.True(t, errors.Is(err, deckerr.DeviceControlFailed))
}

func TestCurrent(t *testing.T) {
	enum := &fakeEnumerator{devices: map[Type][]AudioDevice{
		Output: {
			mustDevice(t, "o1", "Speakers", Output, false),
			mustDevice(t, "o2", "Headphones", Output, true),
		},
	}}

	defaults, err := Current(NewCache(enum))
	require.NoError(t, err)
	assert.Equal(t, "o2", defaults[Output].ID())
	_, hasInput := defaults[Input]
	assert.False(t, hasInput)
}

// flipEnumerator alternates between two generations of devices on every
// refresh. Both types of one refresh share a generation.
type flipEnumerator struct {
	gen int
}

func (e *flipEnumerator) Devices(t Type) ([]AudioDevice, error) {
	if t == Output {
		e.gen++
	}
	name := "even"
	if e.gen%2 == 1 {
		name = "odd"
	}
	d, err := New(name+"-"+t.String(), name, t, true, true)
	if err != nil {
		return nil, err
	}
	return []AudioDevice{d}, nil
}

func TestCacheReadersSeeWholeSnapshots(t *testing.T) {
	c := NewCache(&flipEnumerator{})
	require.NoError(t, c.Refresh())

	var (
		wg    sync.WaitGroup
		stop  atomic.Bool
		torn  atomic.Int32
		reads atomic.Int32
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				all := c.All()
				reads.Add(1)
				if len(all) != 2 || all[0].Name() != all[1].Name() {
					torn.Add(1)
				} else if d, ok := c.ByID(all[0].ID()); ok && d.Type() != Output {
					torn.Add(1)
				}
				if stop.Load() {
					return
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		require.NoError(t, c.Refresh())
	}
	stop.Store(true)
	wg.Wait()

	assert.Zero(t, torn.Load())
	assert.Positive(t, reads.Load())
}
