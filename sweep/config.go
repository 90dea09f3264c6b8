// Package sweep walks the on-disk locations where macOS keeps
// login-items containers and collects bookmark evidence from each one.
package sweep

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultLocations are the canonical container locations, relative to
// the filesystem root. Globs cover per-user homes and the per-user
// launchd plists.
var DefaultLocations = []string{
	"Users/*/Library/Application Support/com.apple.backgroundtaskmanagement/backgrounditems.btm",
	"Library/Application Support/com.apple.backgroundtaskmanagement/backgrounditems.btm",
	"private/var/db/com.apple.backgroundtaskmanagement/BackgroundItems-v*.btm",
	"private/var/db/com.apple.xpc.launchd/loginitems.*.plist",
}

// Config controls a sweep run.
type Config struct {
	// Root is the filesystem prefix the locations resolve under. "/"
	// targets the live system; point it at a mounted image root for
	// dead-box work.
	Root string `yaml:"root"`

	// Locations are Root-relative glob patterns naming containers.
	Locations []string `yaml:"locations"`

	// OutputDir receives one .bin artifact per extracted payload when
	// set.
	OutputDir string `yaml:"output_dir"`

	// Bundle is the path of the .tar.zst evidence bundle to write when
	// set.
	Bundle string `yaml:"bundle"`
}

// Default returns a configuration targeting the live system.
func Default() *Config {
	return &Config{
		Root:      "/",
		Locations: append([]string(nil), DefaultLocations...),
	}
}

// LoadFile merges the YAML file at path over the defaults. Fields the
// file leaves out keep their default values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sweep config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse sweep config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Root == "" {
		errs = append(errs, errors.New("root is required"))
	}
	if len(c.Locations) == 0 {
		errs = append(errs, errors.New("at least one location is required"))
	}
	for _, loc := range c.Locations {
		if loc == "" {
			errs = append(errs, errors.New("empty location"))
			continue
		}
		if filepath.IsAbs(loc) {
			errs = append(errs, fmt.Errorf("location %q must be relative to root", loc))
		}
		if _, err := filepath.Match(loc, ""); err != nil {
			errs = append(errs, fmt.Errorf("location %q: %w", loc, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
