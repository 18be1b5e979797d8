package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/777genius/audiodeck/internal/deckerr"
	"github.com/777genius/audiodeck/internal/profile"
)

func strPtr(s string) *string { return &s }

func newProfile(name string, output, input *string) profile.Profile {
	now := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	return profile.Profile{
		ID:             uuid.New(),
		Name:           name,
		OutputDeviceID: output,
		InputDeviceID:  input,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestNewJSONStoreCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "profiles.json")

	s, err := NewJSONStore(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))

	all, err := s.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestJSONStoreSaveAndLookup(t *testing.T) {
	s, err := NewJSONStore(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, err)

	gaming := newProfile("Gaming", strPtr("out1"), strPtr("in1"))
	music := newProfile("Music", strPtr("out2"), nil)
	require.NoError(t, s.Save(gaming))
	require.NoError(t, s.Save(music))

	got, ok, err := s.ByID(gaming.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Gaming", got.Name)
	assert.Equal(t, "out1", *got.OutputDeviceID)
	assert.Equal(t, "in1", *got.InputDeviceID)
	assert.True(t, gaming.CreatedAt.Equal(got.CreatedAt))

	got, ok, err = s.ByName("Music")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, got.InputDeviceID)

	_, ok, err = s.ByName("Nope")
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := s.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Gaming", all[0].Name)
	assert.Equal(t, "Music", all[1].Name)
}

func TestJSONStoreSaveIsUpsert(t *testing.T) {
	s, err := NewJSONStore(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, err)

	p := newProfile("Work", strPtr("out1"), nil)
	require.NoError(t, s.Save(p))

	p.Name = "Office"
	require.NoError(t, s.Save(p))

	all, err := s.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Office", all[0].Name)
}

func TestJSONStoreDeleteAndExists(t *testing.T) {
	s, err := NewJSONStore(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, err)

	p := newProfile("Work", nil, strPtr("in1"))
	require.NoError(t, s.Save(p))

	exists, err := s.Exists(p.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.Delete(p.ID))

	exists, err = s.Exists(p.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestJSONStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	s, err := NewJSONStore(path)
	require.NoError(t, err)

	p := newProfile("Streaming", strPtr("out1"), strPtr("in1"))
	require.NoError(t, s.Save(p))

	reopened, err := NewJSONStore(path)
	require.NoError(t, err)
	got, ok, err := reopened.ByID(p.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Streaming", got.Name)
}

func TestJSONStoreParseFailureIsStorageError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := NewJSONStore(path)
	require.NoError(t, err)

	_, err = s.All()
	require.Error(t, err)
	assert.True(t, errors.Is(err, deckerr.StorageFailure))

	err = s.Save(newProfile("X", nil, nil))
	assert.True(t, errors.Is(err, deckerr.StorageFailure))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data), "a failed save must not clobber the file")
}

func TestJSONStoreReadsNaiveISOTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	content := `[
  {
    "id": "8d3c2f0e-5b7a-4c1e-9f00-1a2b3c4d5e6f",
    "name": "Legacy",
    "output_device_id": "{0.0.0.00000000}.{abc}",
    "input_device_id": null,
    "created_at": "2024-01-02T03:04:05.123456",
    "updated_at": "2024-01-02T03:04:05"
  }
]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := NewJSONStore(path)
	require.NoError(t, err)

	all, err := s.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	p := all[0]
	assert.Equal(t, "Legacy", p.Name)
	assert.Equal(t, "{0.0.0.00000000}.{abc}", *p.OutputDeviceID)
	assert.Nil(t, p.InputDeviceID)
	assert.Equal(t, 2024, p.CreatedAt.Year())
	assert.Equal(t, 123456000, p.CreatedAt.Nanosecond())
}

func TestJSONStoreRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad id", `[{"id":"nope","name":"A","created_at":"2024-01-02T03:04:05","updated_at":"2024-01-02T03:04:05"}]`},
		{"empty name", `[{"id":"8d3c2f0e-5b7a-4c1e-9f00-1a2b3c4d5e6f","name":"","created_at":"2024-01-02T03:04:05","updated_at":"2024-01-02T03:04:05"}]`},
		{"bad time", `[{"id":"8d3c2f0e-5b7a-4c1e-9f00-1a2b3c4d5e6f","name":"A","created_at":"yesterday","updated_at":"2024-01-02T03:04:05"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "profiles.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			s, err := NewJSONStore(path)
			require.NoError(t, err)

			_, err = s.All()
			assert.True(t, errors.Is(err, deckerr.StorageFailure))
		})
	}
}

func TestJSONStoreWritesSnakeCaseFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	s, err := NewJSONStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(newProfile("Gaming", strPtr("out1"), nil)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"output_device_id": "out1"`)
	assert.Contains(t, string(data), `"input_device_id": null`)
	assert.Contains(t, string(data), `"created_at": "2025-03-01T10:30:00Z"`)
}
