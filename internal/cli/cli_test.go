package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gapcheck/internal/config"
	"gapcheck/internal/output"
)

func setupTestApp() (*App, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return &App{
		Config:  config.DefaultConfig(),
		Printer: output.NewPrinterWithWriter(buf),
	}, buf
}

func TestExitError(t *testing.T) {
	err := NewExitError(3)

	assert.Equal(t, "exit status 3", err.Error())

	code, ok := IsExitError(err)
	assert.True(t, ok)
	assert.Equal(t, 3, code)

	code, ok = IsExitError(errors.New("other"))
	assert.False(t, ok)
	assert.Equal(t, 0, code)

	code, ok = IsExitError(nil)
	assert.False(t, ok)
	assert.Equal(t, 0, code)
}

func TestCheck_MissingGAPRootFatal(t *testing.T) {
	app, buf := setupTestApp()

	res := RunWithConfig(context.Background(), app, []string{
		"check", "--gap-root", "/nonexistent/gap",
	})

	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, buf.String(), "can't find the GAP root directory")
}

func TestCheck_MissingPackageDirFatal(t *testing.T) {
	app, buf := setupTestApp()
	gapRoot := t.TempDir() // exists, but has no pkg subdirectory

	res := RunWithConfig(context.Background(), app, []string{
		"check", "--gap-root", gapRoot,
	})

	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, buf.String(), "can't find the package directory")
}

func TestCheck_LaunchFailureStopsRun(t *testing.T) {
	// A plausible installation layout but no GAP binary: the very first
	// step fails to launch, which is fatal because validation steps stop
	// on failure.
	app, buf := setupTestApp()
	gapRoot := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(gapRoot, "pkg"), 0755))

	res := RunWithConfig(context.Background(), app, []string{
		"check", "--gap-root", gapRoot,
	})

	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, buf.String(), "FAILED!")
	assert.Contains(t, buf.String(), "Validating PackageInfo.g")
	assert.Contains(t, buf.String(), "transcripts retained in")
}

func TestResolveTargets(t *testing.T) {
	gapRoot := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(gapRoot, "pkg"), 0755))
	cfg := config.DefaultConfig()
	cfg.GAP.Roots = []string{gapRoot}

	targets, err := resolveTargets(cfg)

	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, gapRoot, targets[0].gapRoot)
	assert.Equal(t, filepath.Join(gapRoot, "pkg"), targets[0].pkgDir)
}

func TestResolveTargets_ExplicitPkgDir(t *testing.T) {
	gapRoot := t.TempDir()
	pkgDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.GAP.Roots = []string{gapRoot}
	cfg.Package.Dir = pkgDir

	targets, err := resolveTargets(cfg)

	require.NoError(t, err)
	assert.Equal(t, pkgDir, targets[0].pkgDir)
}

func TestResolveTargets_NoRoots(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.GAP.Roots = nil

	_, err := resolveTargets(cfg)

	require.Error(t, err)
}

func TestExpandUser(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "gap"), expandUser("~/gap"))
	assert.Equal(t, home, expandUser("~"))
	assert.Equal(t, "/opt/gap", expandUser("/opt/gap"))
	assert.Equal(t, "relative/gap", expandUser("relative/gap"))
}

func TestCoverage_RequiresTestFile(t *testing.T) {
	app, _ := setupTestApp()

	res := RunWithConfig(context.Background(), app, []string{"coverage"})

	assert.Equal(t, 1, res.ExitCode)
}

func TestCoverage_MissingGAPRootFatal(t *testing.T) {
	app, buf := setupTestApp()

	res := RunWithConfig(context.Background(), app, []string{
		"coverage", "--gap-root", "/nonexistent/gap", "tst/trans.tst",
	})

	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, buf.String(), "can't find the GAP root directory")
}
