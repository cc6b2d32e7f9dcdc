package shortcut

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// testParams returns Params rooted in temporary directories.
func testParams(t *testing.T) Params {
	t.Helper()

	home := t.TempDir()
	installDir := filepath.Join(home, "AlexPersonalHub")
	require.NoError(t, os.MkdirAll(installDir, 0o755))

	return Params{
		AppName:     "Alex's Personal Hub",
		InstallDir:  installDir,
		EntryScript: "main_app.py",
		HomeDir:     home,
	}
}

// TestFor verifies platform selection and the unsupported-platform error.
func TestFor(t *testing.T) {
	t.Parallel()

	for _, goos := range []string{"windows", "darwin", "linux"} {
		creator, err := For(goos)
		require.NoError(t, err, goos)
		require.NotNil(t, creator, goos)
	}

	_, err := For("plan9")
	require.Error(t, err)
}

// TestWindowsCreate checks the desktop wrapper and the install-dir launcher.
func TestWindowsCreate(t *testing.T) {
	t.Parallel()

	params := testParams(t)

	creator, err := For("windows")
	require.NoError(t, err)

	entryPath, err := creator.Create(params)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(params.HomeDir, "Desktop", params.AppName+".bat"), entryPath)

	launcher, err := os.ReadFile(filepath.Join(params.InstallDir, launcherFilename))
	require.NoError(t, err)
	require.Contains(t, string(launcher), "python main_app.py")
	require.Contains(t, string(launcher), params.InstallDir)
}

// TestDarwinCreate checks the application bundle layout.
func TestDarwinCreate(t *testing.T) {
	t.Parallel()

	params := testParams(t)

	creator, err := For("darwin")
	require.NoError(t, err)

	bundlePath, err := creator.Create(params)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(params.HomeDir, "Applications", "AlexPersonalHub.app"), bundlePath)

	launcherPath := filepath.Join(bundlePath, "Contents", "MacOS", "launcher")

	info, err := os.Stat(launcherPath)
	require.NoError(t, err)
	require.NotZero(t, info.Mode()&0o111)

	launcher, err := os.ReadFile(launcherPath)
	require.NoError(t, err)
	require.Contains(t, string(launcher), "python3 main_app.py")

	plist, err := os.ReadFile(filepath.Join(bundlePath, "Contents", "Info.plist"))
	require.NoError(t, err)
	require.Contains(t, string(plist), "<string>Alex's Personal Hub</string>")
}

// TestLinuxCreate checks the desktop entry contents and slugged filename.
func TestLinuxCreate(t *testing.T) {
	t.Parallel()

	params := testParams(t)

	creator, err := For("linux")
	require.NoError(t, err)

	entryPath, err := creator.Create(params)
	require.NoError(t, err)
	require.Equal(t,
		filepath.Join(params.HomeDir, ".local", "share", "applications", "alex-s-personal-hub.desktop"),
		entryPath)

	entry, err := os.ReadFile(entryPath)
	require.NoError(t, err)
	require.Contains(t, string(entry), "Name=Alex's Personal Hub")
	require.Contains(t, string(entry), "Exec=python3 "+filepath.Join(params.InstallDir, "main_app.py"))
	require.Contains(t, string(entry), "Path="+params.InstallDir)
}

// TestSlugify covers punctuation collapsing.
func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Alex's Personal Hub": "alex-s-personal-hub",
		"Simple":              "simple",
		"  spaced   out  ":    "spaced-out",
		"Hub 2.0":             "hub-2-0",
	}
	for in, want := range cases {
		require.Equal(t, want, slugify(in))
	}
}
