package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/stickbind/internal/config/loader"
)

// Duration is a time.Duration written as a Go duration string ("1.5s").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the complete configuration.
type Config struct {
	Capture CaptureConfig `toml:"capture"`
	Paths   PathsConfig   `toml:"paths"`
	Log     LogConfig     `toml:"log"`
}

// CaptureConfig holds the capture session timings.
type CaptureConfig struct {
	// InitialTimeout is how long a session waits for the first input.
	InitialTimeout Duration `toml:"initial_timeout"`

	// CollectDuration is how long detection keeps collecting after the
	// first input.
	CollectDuration Duration `toml:"collect_duration"`

	// GraceWindow is how long a second distinct input may still arrive
	// after the first.
	GraceWindow Duration `toml:"grace_window"`

	// TimeoutDisplayDelay is how long the timed-out notice stays up.
	TimeoutDisplayDelay Duration `toml:"timeout_display_delay"`
}

// PathsConfig holds file locations.
type PathsConfig struct {
	Defaults       string `toml:"defaults"`
	Profile        string `toml:"profile"`
	Prefs          string `toml:"prefs"`
	DeviceDatabase string `toml:"device_database"`
	AxisScript     string `toml:"axis_script"`
	Replay         string `toml:"replay"`
}

// LogConfig selects log verbosity and destination.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Capture: CaptureConfig{
			InitialTimeout:      Duration(10 * time.Second),
			CollectDuration:     Duration(2 * time.Second),
			GraceWindow:         Duration(time.Second),
			TimeoutDisplayDelay: Duration(1500 * time.Millisecond),
		},
		Paths: PathsConfig{
			Prefs: filepath.Join(DefaultDir(), "prefs.json"),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultDir returns the per-user configuration directory.
func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "stickbind")
	}
	return ".stickbind"
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "stickbind.toml")
}

// Load builds the configuration from the defaults, the file at path
// (which may be missing) and the process environment.
func Load(path string) (Config, error) {
	return LoadFrom(loader.NewTOMLLoader(path), loader.NewEnvLoader(loader.DefaultEnvPrefix))
}

// LoadFrom builds the configuration from the defaults and the given
// sources, later sources winning.
func LoadFrom(sources ...loader.Loader) (Config, error) {
	merged := make(map[string]any)
	for _, src := range sources {
		m, err := src.Load()
		if err != nil {
			return Config{}, err
		}
		merged = loader.DeepMerge(merged, m)
	}

	cfg := Default()
	if len(merged) == 0 {
		return cfg, nil
	}

	data, err := toml.Marshal(merged)
	if err != nil {
		return Config{}, fmt.Errorf("encode merged config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that all capture timings are positive.
func (c Config) Validate() error {
	for name, d := range map[string]Duration{
		"capture.initial_timeout":       c.Capture.InitialTimeout,
		"capture.collect_duration":      c.Capture.CollectDuration,
		"capture.grace_window":          c.Capture.GraceWindow,
		"capture.timeout_display_delay": c.Capture.TimeoutDisplayDelay,
	} {
		if d <= 0 {
			return fmt.Errorf("%s: %w", name, ErrInvalidDuration)
		}
	}
	return nil
}
