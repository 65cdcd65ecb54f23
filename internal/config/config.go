// Package config holds compiler constants and the clear.yaml project
// configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Config represents a clear.yaml project file. All fields are optional.
type Config struct {
	// Out is the artifact output path, relative to the project file.
	// Defaults to writing the artifact beside the source file.
	Out string `yaml:"out,omitempty"`

	// Redeclaration selects what a same-scope redeclaration does: "shadow"
	// (replace the binding, the default) or "error".
	Redeclaration string `yaml:"redeclaration,omitempty"`

	// Color forces diagnostic coloring on or off. When unset, coloring
	// follows whether stderr is a terminal.
	Color *bool `yaml:"color,omitempty"`

	// Requires is the minimum compiler version the project builds with,
	// e.g. ">= 0.3.0".
	Requires string `yaml:"requires,omitempty"`

	// Dir is the directory the config was loaded from. Not serialized.
	Dir string `yaml:"-"`
}

// Load reads and validates the project file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.Dir = filepath.Dir(path)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Find walks from the source file's directory upward looking for a project
// file. A missing project file is not an error; it returns nil.
func Find(sourcePath string) (*Config, error) {
	dir, err := filepath.Abs(filepath.Dir(sourcePath))
	if err != nil {
		return nil, err
	}
	for {
		candidate := filepath.Join(dir, ProjectFileName)
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

func (c *Config) validate() error {
	switch c.Redeclaration {
	case "", "shadow", "error":
	default:
		return fmt.Errorf("invalid redeclaration policy %q (want \"shadow\" or \"error\")", c.Redeclaration)
	}
	if c.Requires != "" {
		constraint, err := semver.NewConstraint(c.Requires)
		if err != nil {
			return fmt.Errorf("invalid requires constraint %q: %w", c.Requires, err)
		}
		current := semver.MustParse(Version)
		if !constraint.Check(current) {
			return fmt.Errorf("project requires compiler %s, this is %s", c.Requires, Version)
		}
	}
	return nil
}
