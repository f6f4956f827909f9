// Package file loads the service configuration from a TOML file.
package file

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/contargo/s3sync/internal/core/domain"
)

// Config is the full configuration surface of the service.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Storage  StorageConfig  `toml:"storage"`
	Sync     SyncConfig     `toml:"sync"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// StorageConfig configures the destination bucket.
type StorageConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	UseSSL    bool   `toml:"use_ssl"`
}

// SyncConfig configures the sync scheduler.
type SyncConfig struct {
	// ScheduleInterval is parsed from a Go duration string, e.g. "3h".
	ScheduleInterval duration `toml:"schedule_interval"`
	SchedulerEnabled bool     `toml:"scheduler_enabled"`
}

// duration wraps time.Duration for TOML string parsing.
type duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", string(text), err)
	}
	*d = duration(parsed)
	return nil
}

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		Server:   ServerConfig{ListenAddr: ":8080"},
		Database: DatabaseConfig{Path: "data/s3sync.db"},
		Storage: StorageConfig{
			Endpoint: "localhost:9000",
			Bucket:   "contargo-sync",
		},
		Sync: SyncConfig{
			ScheduleInterval: duration(3 * time.Hour),
			SchedulerEnabled: true,
		},
	}
}

// Load reads the configuration file at path, applying defaults for
// absent keys. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the loaded configuration for usable values.
func (c Config) Validate() error {
	if c.Schedule().Interval < time.Second {
		return fmt.Errorf("sync.schedule_interval must be at least 1 second")
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket must not be empty")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	return nil
}

// Schedule returns the scheduler configuration as a domain value.
func (c Config) Schedule() domain.Schedule {
	return domain.Schedule{
		Interval: time.Duration(c.Sync.ScheduleInterval),
		Enabled:  c.Sync.SchedulerEnabled,
	}
}
