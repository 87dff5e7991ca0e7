package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment variable overrides, e.g.
// GAPCHECK_GAP_MEMORY_LIMIT overrides gap.memory_limit.
const envPrefix = "GAPCHECK"

// configName is the base name of the config file, without extension.
const configName = "gapcheck"

// Loader loads configuration from files and the environment.
//
// Create one with [NewLoader] and call [Loader.Load]. Each Loader owns its
// own Viper instance, so loads are independent and testable.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new [Loader].
func NewLoader() *Loader {
	return &Loader{v: viper.New()}
}

// Load reads configuration and returns the resulting [Config].
//
// The search order is GAPCHECK_CONFIG_PATH, the platform user config
// directory, then the current directory. A missing config file is not an
// error; the defaults from [DefaultConfig] apply. A malformed config file
// is an error.
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	l.v.SetEnvPrefix(envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	l.v.SetConfigName(configName)
	l.v.SetConfigType("yaml")

	if path := os.Getenv(envPrefix + "_CONFIG_PATH"); path != "" {
		l.v.SetConfigFile(path)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(dir, "gapcheck"))
		}
		l.v.AddConfigPath(".")
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

func (l *Loader) setDefaults() {
	def := DefaultConfig()
	l.v.SetDefault("gap.roots", def.GAP.Roots)
	l.v.SetDefault("gap.binary", def.GAP.Binary)
	l.v.SetDefault("gap.memory_limit", def.GAP.MemoryLimit)
	l.v.SetDefault("package.dir", def.Package.Dir)
	l.v.SetDefault("package.name", def.Package.Name)
	l.v.SetDefault("package.secondary", def.Package.Secondary)
	l.v.SetDefault("package.native_deps", def.Package.NativeDeps)
	l.v.SetDefault("verbose", false)
}
