package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "Local", cfg.Decode.TimeZone)
	assert.Equal(t, "12:00", cfg.Decode.TimeOfDay)
	assert.Empty(t, cfg.Output.Dir)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finfeed.yaml")

	cfg := &Config{
		Decode: DecodeConfig{TimeZone: "America/New_York", TimeOfDay: "16:00"},
		Output: OutputConfig{Dir: "out", KeepRejects: true},
	}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finfeed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("decode: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	cfg := &Config{Decode: DecodeConfig{TimeZone: "America/Denver"}}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Denver", loc.String())
}

func TestLocationLocal(t *testing.T) {
	for _, name := range []string{"", "Local"} {
		cfg := &Config{Decode: DecodeConfig{TimeZone: name}}
		loc, err := cfg.Location()
		require.NoError(t, err)
		assert.Same(t, time.Local, loc)
	}
}

func TestLocationUnknown(t *testing.T) {
	cfg := &Config{Decode: DecodeConfig{TimeZone: "Mars/Olympus_Mons"}}
	_, err := cfg.Location()
	assert.Error(t, err)
}
