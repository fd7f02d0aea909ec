// Package config loads the fileseek configuration file and supplies defaults
// for everything it omits.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the on-disk configuration, TOML-encoded. Zero values fall back to
// the defaults from Default().
type Config struct {
	// Roots are the directories covered by the background file index.
	Roots []string `toml:"roots"`
	// Interval is the incremental update cadence, e.g. "5m".
	Interval string `toml:"interval"`
	// ExcludePatterns are extra glob patterns skipped during index walks.
	ExcludePatterns []string `toml:"exclude_patterns"`
	// SnapshotPath is where the index snapshot is persisted.
	SnapshotPath string `toml:"snapshot_path"`
	// MaxFileSizeBytes bounds files fed to the full-text index.
	MaxFileSizeBytes int64 `toml:"max_file_size_bytes"`
	// MaxResults is the default query result limit.
	MaxResults int `toml:"max_results"`
	// EnableFulltext turns the in-memory content index on.
	EnableFulltext bool `toml:"enable_fulltext"`
	// EnableWatcher turns live index updates via fsnotify on.
	EnableWatcher bool `toml:"enable_watcher"`
	// LogLevel is one of debug|info|warn|error.
	LogLevel string `toml:"log_level"`
	// LogFile is the log destination; empty means stderr.
	LogFile string `toml:"log_file"`
}

// Default returns the configuration used when no file exists: index the user
// home directory, refresh every five minutes, persist under ~/.fileseek.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		Roots:            []string{home},
		Interval:         "5m",
		SnapshotPath:     filepath.Join(home, ".fileseek", "index.json"),
		MaxFileSizeBytes: 10 * 1024 * 1024,
		MaxResults:       50,
		LogLevel:         "info",
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".fileseek", "config.toml")
}

// Load reads the config file at path, layering it over the defaults.
// A missing file yields the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults restores defaults for fields the file set to zero values.
func (c *Config) fillDefaults() {
	def := Default()
	if len(c.Roots) == 0 {
		c.Roots = def.Roots
	}
	if c.Interval == "" {
		c.Interval = def.Interval
	}
	if c.SnapshotPath == "" {
		c.SnapshotPath = def.SnapshotPath
	}
	if c.MaxFileSizeBytes <= 0 {
		c.MaxFileSizeBytes = def.MaxFileSizeBytes
	}
	if c.MaxResults <= 0 {
		c.MaxResults = def.MaxResults
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// IntervalDuration parses Interval, falling back to five minutes when the
// value does not parse.
func (c *Config) IntervalDuration() time.Duration {
	d, err := time.ParseDuration(c.Interval)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}
