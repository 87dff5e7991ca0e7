package buildctl

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gapcheck/internal/output"
)

// commandCall records one external command invocation.
type commandCall struct {
	Dir  string
	Name string
	Args []string
}

func setupTestController(t *testing.T) (*Controller, *[]commandCall, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	c := NewController(output.NewPrinterWithWriter(buf))
	calls := &[]commandCall{}
	c.run = func(_ context.Context, dir, name string, args ...string) error {
		*calls = append(*calls, commandCall{Dir: dir, Name: name, Args: args})
		return nil
	}
	return c, calls, buf
}

func TestLocateTarget(t *testing.T) {
	pkgDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(pkgDir, "grape-4.9.0"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(pkgDir, "orb-4.8.5"), 0755))
	// A plain file with a matching name must not be picked up.
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "grape.tar.gz"), nil, 0644))

	target, err := LocateTarget(pkgDir, "grape")

	require.NoError(t, err)
	assert.Equal(t, "grape", target.Name)
	assert.Equal(t, filepath.Join(pkgDir, "grape-4.9.0"), target.Dir)
	assert.Equal(t, StateUnknown, target.State)
}

func TestLocateTarget_Missing(t *testing.T) {
	pkgDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(pkgDir, "orb-4.8.5"), 0755))

	target, err := LocateTarget(pkgDir, "grape")

	require.Error(t, err)
	assert.Nil(t, target)
	assert.Contains(t, err.Error(), "grape")
	assert.Contains(t, err.Error(), pkgDir)
}

func TestLocateTarget_LastMatchWins(t *testing.T) {
	pkgDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(pkgDir, "orb-4.7.0"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(pkgDir, "orb-4.8.5"), 0755))

	target, err := LocateTarget(pkgDir, "orb")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(pkgDir, "orb-4.8.5"), target.Dir)
}

func TestClean(t *testing.T) {
	c, calls, buf := setupTestController(t)
	target := &Target{Name: "orb", Dir: "/pkg/orb-4.8.5"}

	err := c.Clean(context.Background(), target)

	require.NoError(t, err)
	require.Len(t, *calls, 1)
	assert.Equal(t, commandCall{Dir: "/pkg/orb-4.8.5", Name: "make", Args: []string{"clean"}}, (*calls)[0])
	assert.Equal(t, StateUncompiled, target.State)
	assert.Contains(t, buf.String(), "Deleting orb binary")
}

func TestBuild(t *testing.T) {
	c, calls, buf := setupTestController(t)
	target := &Target{Name: "grape", Dir: "/pkg/grape-4.9.0"}

	err := c.Build(context.Background(), target)

	require.NoError(t, err)
	require.Len(t, *calls, 2)
	assert.Equal(t, "./configure", (*calls)[0].Name)
	assert.Equal(t, "make", (*calls)[1].Name)
	assert.Equal(t, "/pkg/grape-4.9.0", (*calls)[0].Dir)
	assert.Equal(t, StateCompiled, target.State)
	assert.Contains(t, buf.String(), "Compiling grape")
}

func TestBuild_ConfigureFailureStopsBeforeMake(t *testing.T) {
	c, calls, _ := setupTestController(t)
	c.run = func(_ context.Context, dir, name string, args ...string) error {
		*calls = append(*calls, commandCall{Dir: dir, Name: name, Args: args})
		if name == "./configure" {
			return errors.New("exit status 1")
		}
		return nil
	}
	target := &Target{Name: "orb", Dir: "/pkg/orb-4.8.5"}

	err := c.Build(context.Background(), target)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "building orb")
	require.Len(t, *calls, 1)
	// State is only updated on success.
	assert.Equal(t, StateUnknown, target.State)
}

func TestClean_Failure(t *testing.T) {
	c, _, _ := setupTestController(t)
	c.run = func(context.Context, string, string, ...string) error {
		return errors.New("exit status 2")
	}
	target := &Target{Name: "orb", Dir: "/pkg/orb-4.8.5", State: StateCompiled}

	err := c.Clean(context.Background(), target)

	require.Error(t, err)
	assert.Equal(t, StateCompiled, target.State)
}

func TestBuildState_String(t *testing.T) {
	assert.Equal(t, "unknown", StateUnknown.String())
	assert.Equal(t, "uncompiled", StateUncompiled.String())
	assert.Equal(t, "compiled", StateCompiled.String())
}
