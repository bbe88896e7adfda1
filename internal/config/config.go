// Package config provides configuration management for StudyMate.
//
// The config file says where each storage backend keeps its data and how
// the application logs. Relative backend paths are resolved against
// data_dir.
//
// Config file locations (priority order):
//  1. $STUDYMATE_CONFIG
//  2. ./studymate.yaml
//  3. $XDG_CONFIG_HOME/studymate/config.yaml
//  4. ~/.config/studymate/config.yaml
//  5. /etc/studymate/config.yaml
//
// Environment variables STUDYMATE_DATA_DIR, STUDYMATE_DB_DRIVER,
// STUDYMATE_DB_DSN and STUDYMATE_LOG_LEVEL override the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment overrides
const (
	EnvDataDir  = "STUDYMATE_DATA_DIR"
	EnvDBDriver = "STUDYMATE_DB_DRIVER"
	EnvDBDSN    = "STUDYMATE_DB_DSN"
	EnvLogLevel = "STUDYMATE_LOG_LEVEL"
)

// Defaults for a new installation
const (
	DefaultDataDir         = "data"
	DefaultCoursesFile     = "courses.csv"
	DefaultAssignmentsFile = "assignments.csv"
	DefaultDocumentFile    = "studymate.json"
	DefaultDocumentFormat  = "json"
	DefaultBinaryFile      = "studymate.bin"
	DefaultLockTimeout     = 5 * time.Second
	DefaultDBDriver        = "sqlite"
	DefaultDBFile          = "studymate.db"
	DefaultLogLevel        = "info"
)

// Load finds and loads the config file, or returns defaults if none found.
// Environment overrides are applied in both cases.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := &Config{}
		cfg.applyEnv()
		cfg.applyDefaults()
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.FlatFile.Courses == "" {
		c.FlatFile.Courses = DefaultCoursesFile
	}
	if c.FlatFile.Assignments == "" {
		c.FlatFile.Assignments = DefaultAssignmentsFile
	}
	if c.Document.Format == "" {
		c.Document.Format = DefaultDocumentFormat
	}
	if c.Document.Path == "" {
		c.Document.Path = DefaultDocumentFile
		if f := strings.ToLower(c.Document.Format); f == "yaml" || f == "yml" {
			c.Document.Path = "studymate.yaml"
		}
	}
	if c.Binary.Path == "" {
		c.Binary.Path = DefaultBinaryFile
	}
	if c.Binary.LockTimeout <= 0 {
		c.Binary.LockTimeout = Duration(DefaultLockTimeout)
	}
	if c.Relational.Driver == "" {
		c.Relational.Driver = DefaultDBDriver
	}
	if c.Relational.DSN == "" && c.Relational.Driver == DefaultDBDriver {
		c.Relational.DSN = DefaultDBFile
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}

// applyEnv overlays environment variable overrides
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvDBDriver); v != "" {
		c.Relational.Driver = v
	}
	if v := os.Getenv(EnvDBDSN); v != "" {
		c.Relational.DSN = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// ResolvePath joins a relative path onto the data directory
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}

// RelationalDSN returns the DSN to open. Plain SQLite file names are
// resolved against the data directory; URIs and :memory: pass through.
func (c *Config) RelationalDSN() string {
	dsn := c.Relational.DSN
	if c.Relational.Driver != DefaultDBDriver {
		return dsn
	}
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return dsn
	}
	return c.ResolvePath(dsn)
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Data dir: %s\n", c.DataDir)
	fmt.Fprintf(&b, "Flat files: %s, %s\n",
		c.ResolvePath(c.FlatFile.Courses), c.ResolvePath(c.FlatFile.Assignments))
	fmt.Fprintf(&b, "Document: %s (%s)\n", c.ResolvePath(c.Document.Path), c.Document.Format)
	fmt.Fprintf(&b, "Binary: %s (lock timeout %s)\n",
		c.ResolvePath(c.Binary.Path), c.Binary.LockTimeout.Duration())
	fmt.Fprintf(&b, "Relational: %s %s\n", c.Relational.Driver, c.RelationalDSN())
	fmt.Fprintf(&b, "Logging: %s", c.Logging.Level)
	if c.Logging.Pretty {
		b.WriteString(" (pretty)")
	}
	return b.String()
}
