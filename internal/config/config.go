// Package config provides configuration loading and management for gapcheck.
//
// Configuration is loaded using Viper, supporting YAML config files and
// environment variable overrides. The defaults match a conventional GAP
// installation under ~/gap and work out of the box; command-line flags
// override everything.
//
// Key types:
//   - [Config] is the root configuration container
//   - [Loader] handles Viper-based configuration loading
//
// Configuration priority (highest to lowest):
//  1. Command-line flags (applied by the cli package)
//  2. Environment variables (GAPCHECK_ prefix)
//  3. Config file specified by GAPCHECK_CONFIG_PATH
//  4. User config directory (e.g. ~/.config/gapcheck/gapcheck.yaml)
//  5. ./gapcheck.yaml
//  6. [DefaultConfig] defaults
package config

// Config represents the root configuration structure.
type Config struct {
	// GAP contains settings for invoking the GAP session binary.
	GAP GAPConfig `mapstructure:"gap"`

	// Package describes the package under test and its optional
	// dependencies.
	Package PackageConfig `mapstructure:"package"`

	// Verbose disables GAP's quiet flag and echoes each command script
	// before it is fed to the session.
	Verbose bool `mapstructure:"verbose"`
}

// GAPConfig contains settings for invoking GAP.
type GAPConfig struct {
	// Roots are the GAP installation root directories to test against.
	// The full configuration matrix runs once per root, in order.
	Roots []string `mapstructure:"roots"`

	// Binary is the GAP launcher path relative to each root.
	Binary string `mapstructure:"binary"`

	// MemoryLimit is passed to GAP's -m flag.
	MemoryLimit string `mapstructure:"memory_limit"`
}

// PackageConfig describes the package under test.
type PackageConfig struct {
	// Dir is the GAP pkg directory containing the package and its
	// optional dependencies. Empty means <root>/pkg.
	Dir string `mapstructure:"dir"`

	// Name is the package under test, as passed to LoadPackage.
	Name string `mapstructure:"name"`

	// Secondary is an unrelated optional package loaded before and after
	// the target package to check load-order independence, and whose own
	// test suites are run as part of the matrix.
	Secondary string `mapstructure:"secondary"`

	// NativeDeps are optional dependencies with native-code kernels,
	// tested in both compiled and uncompiled states. The last entry is
	// the one toggled across the suite phases; the rest stay compiled.
	NativeDeps []string `mapstructure:"native_deps"`
}

// DefaultConfig returns a new [Config] with defaults for a conventional
// Semigroups release check against ~/gap.
func DefaultConfig() *Config {
	return &Config{
		GAP: GAPConfig{
			Roots:       []string{"~/gap"},
			Binary:      "bin/gap.sh",
			MemoryLimit: "1g",
		},
		Package: PackageConfig{
			Name:       "semigroups",
			Secondary:  "smallsemi",
			NativeDeps: []string{"grape", "orb"},
		},
	}
}
