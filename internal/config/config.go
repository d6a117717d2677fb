// Package config loads classgen settings from .classgen.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/grindlemire/go-classes/internal/classgen"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".classgen.yaml"

// Config represents the complete classgen configuration
type Config struct {
	// RuntimeImport is the import path of the classes runtime used by generated code
	RuntimeImport string `yaml:"runtime_import"`
	// OutputSuffix replaces the .classes extension of generated files
	OutputSuffix string `yaml:"output_suffix"`
	// Include lists doublestar patterns selecting input files
	Include []string `yaml:"include"`
	// Exclude lists doublestar patterns removed from the included set
	Exclude []string `yaml:"exclude"`

	Generate GenerateConfig `yaml:"generate"`
	Static   StaticConfig   `yaml:"static"`
	Watch    WatchConfig    `yaml:"watch"`
}

// GenerateConfig configures code generation
type GenerateConfig struct {
	// Jobs bounds how many files are generated concurrently
	Jobs int `yaml:"jobs"`
	// SkipImports formats output with go/format instead of resolving imports
	SkipImports bool `yaml:"skip_imports"`
}

// StaticConfig configures @static class sets
type StaticConfig struct {
	// WarnConditions is the conditional class count above which a warning is reported (0 disables)
	WarnConditions int `yaml:"warn_conditions"`
}

// WatchConfig configures the watch command
type WatchConfig struct {
	// Debounce is how long to wait for more changes before regenerating
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns a Config with the default settings
func DefaultConfig() *Config {
	return &Config{
		RuntimeImport: classgen.DefaultRuntimeImport,
		OutputSuffix:  "_classes.go",
		Include:       []string{"**/*.classes"},
		Exclude:       []string{"vendor/**", "**/testdata/**"},
		Generate: GenerateConfig{
			Jobs: 4,
		},
		Static: StaticConfig{
			WarnConditions: classgen.DefaultWarnConditions,
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.RuntimeImport == "" {
		return fmt.Errorf("runtime_import is required")
	}
	if err := module.CheckImportPath(c.RuntimeImport); err != nil {
		return fmt.Errorf("runtime_import: %w", err)
	}
	if !strings.HasSuffix(c.OutputSuffix, ".go") {
		return fmt.Errorf("output_suffix must end in .go, got %q", c.OutputSuffix)
	}
	if strings.ContainsRune(c.OutputSuffix, '/') {
		return fmt.Errorf("output_suffix must not contain a path separator")
	}
	if len(c.Include) == 0 {
		return fmt.Errorf("include requires at least one pattern")
	}
	for _, p := range c.Include {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("include: invalid pattern %q", p)
		}
	}
	for _, p := range c.Exclude {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("exclude: invalid pattern %q", p)
		}
	}
	if c.Generate.Jobs < 1 {
		return fmt.Errorf("generate.jobs must be at least 1")
	}
	if c.Static.WarnConditions < 0 {
		return fmt.Errorf("static.warn_conditions must not be negative")
	}
	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("watch.debounce must be positive")
	}
	return nil
}

// Match reports whether a slash- or OS-separated path relative to the
// project root is selected by Include and not removed by Exclude.
func (c *Config) Match(path string) bool {
	path = filepath.ToSlash(filepath.Clean(path))
	path = strings.TrimPrefix(path, "./")
	if !matchAny(c.Include, path) {
		return false
	}
	return !matchAny(c.Exclude, path)
}

// Excluded reports whether a directory should be skipped while walking.
func (c *Config) Excluded(dir string) bool {
	dir = filepath.ToSlash(filepath.Clean(dir))
	if dir == "." {
		return false
	}
	return matchAny(c.Exclude, dir) || matchAny(c.Exclude, dir+"/")
}

func matchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Load reads the file at path. An empty path looks for FileName in the
// working directory and falls back to the defaults when it does not exist.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFromFile(path)
	}
	cfg, err := LoadFromFile(FileName)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// SaveToFile writes the configuration as YAML
func (c *Config) SaveToFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// OutputPath returns the generated file path for a .classes input.
// Hyphens in the base name become underscores so the result is a valid Go file name.
func (c *Config) OutputPath(input string) string {
	dir, base := filepath.Split(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "-", "_")
	return filepath.Join(dir, base+c.OutputSuffix)
}
