// Package config loads the project configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/sprite-ai/staticreview/internal/file"
	"github.com/sprite-ai/staticreview/internal/model"
)

// FailNone disables failing on issues.
const FailNone = "none"

// FileNames are the names Find looks for, in order.
var FileNames = []string{".static-review.yml", ".static-review.yaml"}

// Config is the project configuration. Every field is optional.
type Config struct {
	Skip         []string `yaml:"skip"`          // rule names to skip
	Include      []string `yaml:"include"`       // globs a file must match, empty for all
	Exclude      []string `yaml:"exclude"`       // globs that drop a file
	FailOn       string   `yaml:"fail_on"`       // info, warning, error or none
	MaxFileSize  int64    `yaml:"max_file_size"` // bytes
	SkipVendored bool     `yaml:"skip_vendored"`
	CacheDir     string   `yaml:"cache_dir"` // empty for a temporary directory
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		FailOn:       model.LevelError.String(),
		MaxFileSize:  1 << 20,
		SkipVendored: true,
	}
}

// Load reads the configuration file at path. Fields the file leaves out
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	cfg.CacheDir = os.ExpandEnv(cfg.CacheDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	return cfg, nil
}

// Find loads the first configuration file found in root. A missing file is
// not an error: the defaults are returned with an empty path.
func Find(root string) (*Config, string, error) {
	for _, name := range FileNames {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := Load(path)
		if err != nil {
			return nil, "", err
		}
		logger.WithField("path", path).Debug("loaded config")
		return cfg, path, nil
	}
	return Default(), "", nil
}

// Validate checks the fail_on level and the glob patterns.
func (c *Config) Validate() error {
	if _, _, err := c.FailLevel(); err != nil {
		return err
	}
	if c.MaxFileSize < 0 {
		return errors.New("max_file_size must not be negative")
	}
	for _, p := range append(append([]string{}, c.Include...), c.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("bad glob pattern %q", p)
		}
	}
	return nil
}

// FailLevel returns the level at which a run fails. ok is false when
// failing is disabled.
func (c *Config) FailLevel() (level model.Level, ok bool, err error) {
	if strings.EqualFold(c.FailOn, FailNone) {
		return 0, false, nil
	}
	if c.FailOn == "" {
		return model.LevelError, true, nil
	}
	level, err = model.ParseLevel(c.FailOn)
	if err != nil {
		return 0, false, fmt.Errorf("fail_on: %w", err)
	}
	return level, true, nil
}

// Matches reports whether a path relative to the project root is selected
// by the include and exclude globs.
func (c *Config) Matches(rel string) bool {
	rel = filepath.ToSlash(rel)
	if len(c.Include) > 0 && !matchAny(c.Include, rel) {
		return false
	}
	return !matchAny(c.Exclude, rel)
}

// Filter returns the files Matches selects.
func (c *Config) Filter(files *file.Collection) (*file.Collection, error) {
	return file.Filter(files, func(f *file.File) bool {
		return c.Matches(f.RelativePath())
	})
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
