// Package config loads the TOML configuration file, by default
// ~/.academy/config.toml. A missing file yields the defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration is a time.Duration written as a Go duration string ("800ms").
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", b, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type Storage struct {
	// Driver is sqlite, postgres, mysql or mongodb.
	Driver string `toml:"driver"`
	// DSN overrides the connection fields below when set. For sqlite it is a file path.
	DSN      string `toml:"dsn,omitempty"`
	Host     string `toml:"host,omitempty"`
	Port     int    `toml:"port,omitempty"`
	User     string `toml:"user,omitempty"`
	Password string `toml:"password,omitempty"`
	Database string `toml:"database,omitempty"`
	SSLMode  string `toml:"ssl_mode,omitempty"`
}

type Autosave struct {
	Debounce     Duration `toml:"debounce"`
	SavedDisplay Duration `toml:"saved_display"`
}

type Log struct {
	Verbose bool `toml:"verbose"`
}

type Render struct {
	Lang string `toml:"lang"`
}

type Config struct {
	DataDir  string   `toml:"data_dir"`
	Storage  Storage  `toml:"storage"`
	Autosave Autosave `toml:"autosave"`
	Log      Log      `toml:"log"`
	Render   Render   `toml:"render"`

	path string
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		DataDir:  filepath.Join(home, ".academy"),
		Storage:  Storage{Driver: "sqlite"},
		Autosave: Autosave{Debounce: Duration(800 * time.Millisecond), SavedDisplay: Duration(2 * time.Second)},
		Render:   Render{Lang: "en"},
	}
}

// DefaultPath returns ~/.academy/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".academy", "config.toml"), nil
}

// Load reads path over the defaults. An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no component can honor.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite", "postgres", "mysql", "mongodb":
	default:
		return fmt.Errorf("config: storage.driver %q: must be sqlite, postgres, mysql or mongodb", c.Storage.Driver)
	}
	if c.Autosave.Debounce < 0 || c.Autosave.SavedDisplay < 0 {
		return fmt.Errorf("config: autosave durations must not be negative")
	}
	if c.Render.Lang != "" && c.Render.Lang != "en" && c.Render.Lang != "ar" {
		return fmt.Errorf("config: render.lang %q: must be en or ar", c.Render.Lang)
	}
	return nil
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string { return c.path }

// DatabasePath is the local SQLite file inside the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "academy.db")
}

// Save writes the configuration back to the file it was loaded from.
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config: no path to save to")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(c.path, data, 0600)
}
