package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDaemonConfig(t *testing.T) {
	cfg := DefaultDaemonConfig()

	assert.Equal(t, 300, cfg.Toast.Width)
	assert.Equal(t, 100, cfg.Toast.Height)
	assert.Equal(t, 20, cfg.Toast.Margin)
	assert.Equal(t, 10, cfg.Toast.Gap)
	assert.Equal(t, 0.1, cfg.Toast.FadeStep)
	assert.Equal(t, 20*time.Millisecond, cfg.Toast.FadeInterval.Duration())
	assert.Equal(t, 5*time.Second, cfg.Toast.DefaultDuration.Duration())
	assert.Equal(t, "ℹ️", cfg.Toast.DefaultIcon)
	assert.False(t, cfg.DBus.Enabled)
	assert.False(t, cfg.Audio.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadDaemonConfigFrom_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadDaemonConfigFrom("/nonexistent/path/goalnotifyd.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultDaemonConfig().Toast.Width, cfg.Toast.Width)
}

func TestLoadDaemonConfigFrom_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "goalnotifyd.toml")

	content := `
[toast]
width = 400
height = 120
margin = 30
gap = 5
fade_step = 0.2
fade_interval = "10ms"
default_duration = "3s"
default_icon = "⚽"

[queue]
socket = "/tmp/test.sock"

[dbus]
enabled = true

[audio]
enabled = true
volume = 50
chime = "/usr/share/sounds/chime.wav"
`
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadDaemonConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 400, cfg.Toast.Width)
	assert.Equal(t, 120, cfg.Toast.Height)
	assert.Equal(t, 30, cfg.Toast.Margin)
	assert.Equal(t, 5, cfg.Toast.Gap)
	assert.Equal(t, 0.2, cfg.Toast.FadeStep)
	assert.Equal(t, 10*time.Millisecond, cfg.Toast.FadeInterval.Duration())
	assert.Equal(t, 3*time.Second, cfg.Toast.DefaultDuration.Duration())
	assert.Equal(t, "⚽", cfg.Toast.DefaultIcon)
	assert.Equal(t, "/tmp/test.sock", cfg.Queue.Socket)
	assert.True(t, cfg.DBus.Enabled)
	assert.True(t, cfg.Audio.Enabled)
	assert.Equal(t, 50, cfg.Audio.Volume)
	assert.Equal(t, "/usr/share/sounds/chime.wav", cfg.Audio.Chime)
}

func TestLoadDaemonConfigFrom_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "goalnotifyd.toml")

	content := `
[toast]
width = 350
`
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadDaemonConfigFrom(path)
	require.NoError(t, err)

	// Changed field
	assert.Equal(t, 350, cfg.Toast.Width)

	// Unchanged fields should have defaults
	assert.Equal(t, 100, cfg.Toast.Height)
	assert.Equal(t, 20, cfg.Toast.Margin)
}

func TestLoadDaemonConfigFrom_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "goalnotifyd.toml")

	err := os.WriteFile(path, []byte(`this is not valid toml [`), 0644)
	require.NoError(t, err)

	_, err = LoadDaemonConfigFrom(path)
	assert.Error(t, err)
}

func TestSaveDaemonConfigTo_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "goalnotifyd.toml")

	cfg := DefaultDaemonConfig()
	cfg.Toast.Width = 420
	cfg.Audio.Enabled = true
	cfg.Audio.Volume = 30

	require.NoError(t, SaveDaemonConfigTo(path, cfg))

	loaded, err := LoadDaemonConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 420, loaded.Toast.Width)
	assert.True(t, loaded.Audio.Enabled)
	assert.Equal(t, 30, loaded.Audio.Volume)

	// No temp file left behind after the atomic rename.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestDaemonConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DaemonConfig)
	}{
		{"width too small", func(c *DaemonConfig) { c.Toast.Width = 10 }},
		{"width too large", func(c *DaemonConfig) { c.Toast.Width = 2000 }},
		{"height too small", func(c *DaemonConfig) { c.Toast.Height = 10 }},
		{"negative margin", func(c *DaemonConfig) { c.Toast.Margin = -1 }},
		{"fade step zero", func(c *DaemonConfig) { c.Toast.FadeStep = 0 }},
		{"fade step too large", func(c *DaemonConfig) { c.Toast.FadeStep = 1.5 }},
		{"fade interval zero", func(c *DaemonConfig) { c.Toast.FadeInterval = 0 }},
		{"default duration zero", func(c *DaemonConfig) { c.Toast.DefaultDuration = 0 }},
		{"volume out of range", func(c *DaemonConfig) { c.Audio.Volume = 150 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultDaemonConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDurationUnmarshalText(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"5s", 5 * time.Second},
		{"1m30s", 90 * time.Second},
		{"5000", 5 * time.Second}, // Raw milliseconds
		{"20", 20 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var d Duration
			require.NoError(t, d.UnmarshalText([]byte(tt.input)))
			assert.Equal(t, tt.want, d.Duration())
		})
	}

	var d Duration
	assert.Error(t, d.UnmarshalText([]byte("not a duration")))
}
