// Package config handles goalnotifyd configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "5s", "1m30s", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	// Integer means milliseconds, matching the producer API.
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m30s' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Milliseconds returns the duration in milliseconds.
func (d Duration) Milliseconds() int {
	return int(time.Duration(d).Milliseconds())
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DaemonConfig is the configuration for goalnotifyd.
// Loaded from ~/.config/goalnotify/goalnotifyd.toml
type DaemonConfig struct {
	Toast ToastConfig `toml:"toast"`
	Queue QueueConfig `toml:"queue"`
	DBus  DBusConfig  `toml:"dbus"`
	Audio AudioConfig `toml:"audio"`
}

// ToastConfig contains toast geometry and animation settings.
type ToastConfig struct {
	Width           int      `toml:"width"`            // Toast width in pixels
	Height          int      `toml:"height"`           // Toast height in pixels
	Margin          int      `toml:"margin"`           // Pixels from the screen edge
	Gap             int      `toml:"gap"`              // Gap between stacked toasts
	FadeStep        float64  `toml:"fade_step"`        // Opacity change per fade tick
	FadeInterval    Duration `toml:"fade_interval"`    // Time between fade ticks
	DefaultDuration Duration `toml:"default_duration"` // Hold time when the request has none
	DefaultIcon     string   `toml:"default_icon"`     // Icon glyph when the request has none
}

// QueueConfig contains request queue transport settings.
type QueueConfig struct {
	Socket string `toml:"socket"` // Socket path override, empty = runtime dir default
}

// DBusConfig controls the org.freedesktop.Notifications bridge.
type DBusConfig struct {
	Enabled bool `toml:"enabled"`
}

// AudioConfig contains chime playback settings.
type AudioConfig struct {
	Enabled bool   `toml:"enabled"`
	Volume  int    `toml:"volume"` // 0-100
	Chime   string `toml:"chime"`  // Sound file played when a toast appears
}

// DefaultDaemonConfig returns a new DaemonConfig with default values.
func DefaultDaemonConfig() *DaemonConfig {
	return &DaemonConfig{
		Toast: ToastConfig{
			Width:           300,
			Height:          100,
			Margin:          20,
			Gap:             10,
			FadeStep:        0.1,
			FadeInterval:    Duration(20 * time.Millisecond),
			DefaultDuration: Duration(5 * time.Second),
			DefaultIcon:     "ℹ️",
		},
		Queue: QueueConfig{},
		DBus:  DBusConfig{Enabled: false},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  80,
		},
	}
}

// DaemonConfigPath returns the path to the daemon config file.
func DaemonConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "goalnotify", "goalnotifyd.toml"), nil
}

// LoadDaemonConfig loads the daemon configuration from disk.
// If the file doesn't exist, returns the default configuration.
func LoadDaemonConfig() (*DaemonConfig, error) {
	path, err := DaemonConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadDaemonConfigFrom(path)
}

// LoadDaemonConfigFrom loads the daemon configuration from the given path.
func LoadDaemonConfigFrom(path string) (*DaemonConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultDaemonConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents.
	config := DefaultDaemonConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// SaveDaemonConfig saves the daemon configuration to the default path.
func SaveDaemonConfig(config *DaemonConfig) error {
	path, err := DaemonConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveDaemonConfigTo(path, config)
}

// SaveDaemonConfigTo saves the daemon configuration to the given path.
func SaveDaemonConfigTo(path string, config *DaemonConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *DaemonConfig) Validate() error {
	if c.Toast.Width < 100 || c.Toast.Width > 1000 {
		return fmt.Errorf("toast width must be between 100 and 1000, got %d", c.Toast.Width)
	}
	if c.Toast.Height < 40 || c.Toast.Height > 600 {
		return fmt.Errorf("toast height must be between 40 and 600, got %d", c.Toast.Height)
	}
	if c.Toast.Margin < 0 || c.Toast.Gap < 0 {
		return fmt.Errorf("toast margin and gap must not be negative")
	}
	if c.Toast.FadeStep <= 0 || c.Toast.FadeStep > 1 {
		return fmt.Errorf("fade_step must be in (0, 1], got %v", c.Toast.FadeStep)
	}
	if c.Toast.FadeInterval.Duration() <= 0 {
		return fmt.Errorf("fade_interval must be greater than 0")
	}
	if c.Toast.DefaultDuration.Duration() <= 0 {
		return fmt.Errorf("default_duration must be greater than 0")
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}
	return nil
}

// ChimePath returns the configured chime file with ~ expanded.
func (c *DaemonConfig) ChimePath() string {
	return expandPath(c.Audio.Chime)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
