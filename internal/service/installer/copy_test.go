package installer

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// populate writes the given relative files under root.
func populate(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// TestInstallFilesReplacesDirectories verifies that an incoming directory
// fully replaces its predecessor: stale siblings are removed, while the
// cache-artifact directory at the destination stays untouched.
func TestInstallFilesReplacesDirectories(t *testing.T) {
	t.Parallel()

	server := &hubServer{}

	ts := httptest.NewServer(server.handler(t))
	defer ts.Close()

	r := newTestRunner(t, ts.URL)

	populate(t, r.stagingDir, map[string]string{
		"main_app.py":            "new app",
		"assets/logo.svg":        "<svg/>",
		"__pycache__/junk.pyc":   "junk",
		"assets/nested/deep.txt": "deep",
	})

	populate(t, r.installDir, map[string]string{
		"main_app.py":          "old app",
		"assets/stale.txt":     "stale",
		"__pycache__/keep.pyc": "keep",
	})

	require.NoError(t, r.installFiles(context.Background()))

	// The incoming directory replaced the old one entirely.
	_, err := os.Stat(filepath.Join(r.installDir, "assets", "stale.txt"))
	require.True(t, os.IsNotExist(err), "stale sibling must be removed")

	logo, err := os.ReadFile(filepath.Join(r.installDir, "assets", "logo.svg"))
	require.NoError(t, err)
	require.Equal(t, "<svg/>", string(logo))

	deep, err := os.ReadFile(filepath.Join(r.installDir, "assets", "nested", "deep.txt"))
	require.NoError(t, err)
	require.Equal(t, "deep", string(deep))

	// Top-level files are overwritten in place.
	app, err := os.ReadFile(filepath.Join(r.installDir, "main_app.py"))
	require.NoError(t, err)
	require.Equal(t, "new app", string(app))

	// No backup artifacts left behind.
	_, err = os.Stat(filepath.Join(r.installDir, "main_app.py.old"))
	require.True(t, os.IsNotExist(err))

	// The cache directory is neither copied nor replaced.
	keep, err := os.ReadFile(filepath.Join(r.installDir, "__pycache__", "keep.pyc"))
	require.NoError(t, err)
	require.Equal(t, "keep", string(keep))

	_, err = os.Stat(filepath.Join(r.installDir, "__pycache__", "junk.pyc"))
	require.True(t, os.IsNotExist(err), "staged cache artifacts are skipped")
}

// TestApplyFilePreservesMode checks the staged file mode survives the apply.
func TestApplyFilePreservesMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	source := filepath.Join(dir, "run.sh")
	require.NoError(t, os.WriteFile(source, []byte("#!/bin/sh\n"), 0o755))

	target := filepath.Join(dir, "installed.sh")
	require.NoError(t, applyFile(source, target))

	info, err := os.Stat(target)
	require.NoError(t, err)
	require.NotZero(t, info.Mode()&0o111)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "#!/bin/sh\n", string(data))
}

// TestInstallDependenciesFallbackPackage installs the minimal package when
// no requirements file was staged.
func TestInstallDependenciesFallbackPackage(t *testing.T) {
	t.Parallel()

	server := &hubServer{}

	ts := httptest.NewServer(server.handler(t))
	defer ts.Close()

	r := newTestRunner(t, ts.URL)
	require.NoError(t, os.MkdirAll(r.stagingDir, 0o755))

	var commands [][]string

	r.runCommand = func(_ context.Context, _, name string, args ...string) error {
		commands = append(commands, append([]string{name}, args...))
		return nil
	}

	require.NoError(t, r.installDependencies(context.Background()))
	require.Len(t, commands, 1)
	require.Contains(t, commands[0], fallbackDependency)
}

// TestInstallDependenciesRequirements upgrades pip before installing the
// declared requirements.
func TestInstallDependenciesRequirements(t *testing.T) {
	t.Parallel()

	server := &hubServer{}

	ts := httptest.NewServer(server.handler(t))
	defer ts.Close()

	r := newTestRunner(t, ts.URL)
	populate(t, r.stagingDir, map[string]string{requirementsFilename: "PyQt6\n"})

	var commands [][]string

	r.runCommand = func(_ context.Context, _, name string, args ...string) error {
		commands = append(commands, append([]string{name}, args...))
		return nil
	}

	require.NoError(t, r.installDependencies(context.Background()))
	require.Len(t, commands, 2)
	require.Contains(t, commands[0], "--upgrade")
	require.Contains(t, commands[1], "-r")
}
