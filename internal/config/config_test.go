package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, []string{"~/gap"}, cfg.GAP.Roots)
	assert.Equal(t, "bin/gap.sh", cfg.GAP.Binary)
	assert.Equal(t, "1g", cfg.GAP.MemoryLimit)
	assert.Equal(t, "semigroups", cfg.Package.Name)
	assert.Equal(t, "smallsemi", cfg.Package.Secondary)
	assert.Equal(t, []string{"grape", "orb"}, cfg.Package.NativeDeps)
	assert.Empty(t, cfg.Package.Dir)
	assert.False(t, cfg.Verbose)
}

// chdir is t.Chdir for Go toolchains older than 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func TestLoad_DefaultsWhenNoConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := NewLoader().Load()

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gapcheck.yaml")
	content := `
gap:
  roots:
    - /opt/gap-4.12
  memory_limit: 2g
package:
  name: digraphs
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("GAPCHECK_CONFIG_PATH", path)

	cfg, err := NewLoader().Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/gap-4.12"}, cfg.GAP.Roots)
	assert.Equal(t, "2g", cfg.GAP.MemoryLimit)
	assert.Equal(t, "digraphs", cfg.Package.Name)
	// Unset keys keep their defaults.
	assert.Equal(t, "bin/gap.sh", cfg.GAP.Binary)
	assert.Equal(t, "smallsemi", cfg.Package.Secondary)
}

func TestLoad_EnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GAPCHECK_GAP_MEMORY_LIMIT", "4g")
	t.Setenv("GAPCHECK_PACKAGE_NAME", "digraphs")

	cfg, err := NewLoader().Load()

	require.NoError(t, err)
	assert.Equal(t, "4g", cfg.GAP.MemoryLimit)
	assert.Equal(t, "digraphs", cfg.Package.Name)
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gapcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gap: [not: valid"), 0644))
	t.Setenv("GAPCHECK_CONFIG_PATH", path)

	_, err := NewLoader().Load()

	require.Error(t, err)
}
