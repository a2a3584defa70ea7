package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "behaviord.toml")
	body := `
[capture]
output_path = "session.csv"
move_sample_every = 1

[sink]
flush_lines = 25

[sampler]
interval_ms = 250

[storage]
enabled = false
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "session.csv", cfg.Capture.OutputPath)
	assert.Equal(t, 1, cfg.Capture.MoveSampleEvery)
	assert.Equal(t, 25, cfg.Sink.FlushLines)
	assert.Equal(t, 250, cfg.Sampler.IntervalMs)
	assert.False(t, cfg.Storage.Enabled)
	// Untouched sections keep their defaults.
	assert.Equal(t, Default().Ring.Capacity, cfg.Ring.Capacity)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"zero sampling", "[capture]\nmove_sample_every = 0\n"},
		{"empty output", "[capture]\noutput_path = \"\"\n"},
		{"zero flush", "[sink]\nflush_lines = 0\n"},
		{"zero interval", "[sampler]\ninterval_ms = 0\n"},
		{"tiny ring", "[ring]\ncapacity = 1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			require.NoError(t, os.WriteFile(path, []byte(tc.body), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("capture = {{"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestTOMLRoundTrip(t *testing.T) {
	text, err := Default().TOML()
	require.NoError(t, err)
	assert.True(t, strings.Contains(text, "move_sample_every"))
	assert.True(t, strings.Contains(text, "flush_lines"))
}
