package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure
type Config struct {
	Version    int              `yaml:"version"`
	DataDir    string           `yaml:"data_dir"`
	FlatFile   FlatFileConfig   `yaml:"flatfile"`
	Document   DocumentConfig   `yaml:"document"`
	Binary     BinaryConfig     `yaml:"binary"`
	Relational RelationalConfig `yaml:"relational"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// FlatFileConfig locates the comma-separated course and assignment files.
// Relative paths are resolved against the data directory.
type FlatFileConfig struct {
	Courses     string `yaml:"courses"`
	Assignments string `yaml:"assignments"`
}

// DocumentConfig holds the structured-document backend settings
type DocumentConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"` // json or yaml
}

// BinaryConfig holds the bbolt-backed binary backend settings
type BinaryConfig struct {
	Path        string   `yaml:"path"`
	LockTimeout Duration `yaml:"lock_timeout"`
}

// RelationalConfig holds database settings
type RelationalConfig struct {
	Driver string `yaml:"driver"` // sqlite or postgres
	DSN    string `yaml:"dsn"`
}

// LoggingConfig controls the zerolog logger
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
