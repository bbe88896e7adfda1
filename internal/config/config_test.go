package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvConfigPath, EnvDataDir, EnvDBDriver, EnvDBDSN, EnvLogLevel} {
		t.Setenv(key, "")
	}
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.DataDir != DefaultDataDir {
		t.Errorf("DataDir = %s, want %s", cfg.DataDir, DefaultDataDir)
	}
	if cfg.FlatFile.Courses != DefaultCoursesFile || cfg.FlatFile.Assignments != DefaultAssignmentsFile {
		t.Errorf("FlatFile = %+v", cfg.FlatFile)
	}
	if cfg.Document.Format != "json" || cfg.Document.Path != DefaultDocumentFile {
		t.Errorf("Document = %+v", cfg.Document)
	}
	if cfg.Binary.LockTimeout.Duration() != DefaultLockTimeout {
		t.Errorf("LockTimeout = %s, want %s", cfg.Binary.LockTimeout.Duration(), DefaultLockTimeout)
	}
	if cfg.Relational.Driver != "sqlite" || cfg.Relational.DSN != DefaultDBFile {
		t.Errorf("Relational = %+v", cfg.Relational)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %s, want info", cfg.Logging.Level)
	}
}

func TestDocumentDefaultPathFollowsFormat(t *testing.T) {
	cfg := &Config{Document: DocumentConfig{Format: "yaml"}}
	cfg.applyDefaults()

	if cfg.Document.Path != "studymate.yaml" {
		t.Errorf("Document.Path = %s, want studymate.yaml", cfg.Document.Path)
	}
}

func TestResolvePath(t *testing.T) {
	cfg := &Config{DataDir: "/var/lib/studymate"}

	tests := []struct {
		in   string
		want string
	}{
		{"courses.csv", "/var/lib/studymate/courses.csv"},
		{"sub/a.csv", "/var/lib/studymate/sub/a.csv"},
		{"/abs/a.csv", "/abs/a.csv"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := cfg.ResolvePath(tt.in); got != tt.want {
			t.Errorf("ResolvePath(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestRelationalDSN(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		dsn    string
		want   string
	}{
		{"sqlite file", "sqlite", "studymate.db", filepath.Join("data", "studymate.db")},
		{"sqlite memory", "sqlite", ":memory:", ":memory:"},
		{"sqlite uri", "sqlite", "file:x.db?mode=ro", "file:x.db?mode=ro"},
		{"postgres", "postgres", "postgres://u@localhost/db", "postgres://u@localhost/db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DataDir: "data", Relational: RelationalConfig{Driver: tt.driver, DSN: tt.dsn}}
			if got := cfg.RelationalDSN(); got != tt.want {
				t.Errorf("RelationalDSN() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.DataDir = "/srv/study"
	cfg.Document.Format = "yaml"
	cfg.Binary.LockTimeout = Duration(2 * time.Second)
	cfg.Relational.Driver = "postgres"
	cfg.Relational.DSN = "postgres://localhost/study"
	cfg.Logging.Pretty = true

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}
	if loaded.DataDir != "/srv/study" {
		t.Errorf("DataDir = %s", loaded.DataDir)
	}
	if loaded.Document.Format != "yaml" {
		t.Errorf("Document.Format = %s, want yaml", loaded.Document.Format)
	}
	if loaded.Binary.LockTimeout.Duration() != 2*time.Second {
		t.Errorf("LockTimeout = %s, want 2s", loaded.Binary.LockTimeout.Duration())
	}
	if loaded.Relational.Driver != "postgres" || loaded.Relational.DSN != "postgres://localhost/study" {
		t.Errorf("Relational = %+v", loaded.Relational)
	}
	if !loaded.Logging.Pretty {
		t.Error("Logging.Pretty should survive a round trip")
	}
}

func TestLoadPartialFileGetsDefaults(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "data_dir: ./state\nbinary:\n  lock_timeout: 250ms\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.DataDir != "./state" {
		t.Errorf("DataDir = %s, want ./state", cfg.DataDir)
	}
	if cfg.Binary.LockTimeout.Duration() != 250*time.Millisecond {
		t.Errorf("LockTimeout = %s, want 250ms", cfg.Binary.LockTimeout.Duration())
	}
	if cfg.Binary.Path != DefaultBinaryFile {
		t.Errorf("Binary.Path = %s, want %s", cfg.Binary.Path, DefaultBinaryFile)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "data_dir: [unclosed\n"},
		{"bad duration", "binary:\n  lock_timeout: soon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, _, err := LoadFromPath(path); err == nil {
				t.Error("expected parse error")
			}
		})
	}

	if _, _, err := LoadFromPath(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected read error for missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDataDir, "/tmp/override")
	t.Setenv(EnvDBDriver, "postgres")
	t.Setenv(EnvDBDSN, "postgres://db/study")
	t.Setenv(EnvLogLevel, "debug")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("data_dir: ./state\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.DataDir != "/tmp/override" {
		t.Errorf("DataDir = %s, want /tmp/override", cfg.DataDir)
	}
	if cfg.Relational.Driver != "postgres" || cfg.Relational.DSN != "postgres://db/study" {
		t.Errorf("Relational = %+v", cfg.Relational)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	if fileExists(filepath.Join("/etc", ConfigDirName, "config.yaml")) {
		t.Skip("system config present")
	}
	t.Setenv(EnvLogLevel, "warn")

	cfg, path, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != "" {
		t.Errorf("path = %s, want empty", path)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %s, want warn", cfg.Logging.Level)
	}
}

func TestFindConfigPath(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	if err := DefaultConfig().Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	chdir(t, tmpDir)

	if found := FindConfigPath(); found == "" {
		t.Error("FindConfigPath() should find config in working directory")
	}

	// Explicit path doesn't exist, should fall back
	t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	if found := FindConfigPath(); found == "" {
		t.Error("FindConfigPath() should fall back when env path doesn't exist")
	}

	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	if err := DefaultConfig().Save(explicit); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, explicit)
	if found := FindConfigPath(); found != explicit {
		t.Errorf("FindConfigPath() = %s, want %s", found, explicit)
	}
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	if d.Duration() != 5*time.Minute {
		t.Errorf("Duration() = %s, want 5m", d.Duration())
	}

	marshaled, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if marshaled != "5m0s" {
		t.Errorf("MarshalYAML() = %v, want 5m0s", marshaled)
	}
}
