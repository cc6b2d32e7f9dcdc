package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields and default filling for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing repository coordinates.
	cfg := new(Config)

	err := Validate(cfg)
	require.Error(t, err)

	// Bad endpoint URL.
	cfg = &Config{
		RepoOwner:  "alexhub",
		RepoName:   "personal-hub",
		APIBaseURL: "not a url",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Minimal valid config fills everything else with defaults.
	cfg = &Config{
		RepoOwner: "alexhub",
		RepoName:  "personal-hub",
	}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, "main", cfg.Branch)
	require.Equal(t, "main_app.py", cfg.EntryScript)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.True(t, filepath.IsAbs(cfg.StagingDir()))
}

// TestValidateAPIBaseURLSlash ensures the API base URL gains a trailing slash.
func TestValidateAPIBaseURLSlash(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		RepoOwner:  "alexhub",
		RepoName:   "personal-hub",
		APIBaseURL: "https://api.example.com/v3",
	}

	require.NoError(t, Validate(cfg))
	require.Equal(t, "https://api.example.com/v3/", cfg.APIBaseURL)
}

// TestURLBuilders verifies the endpoint URL patterns.
func TestURLBuilders(t *testing.T) {
	t.Parallel()

	cfg := Default()

	require.Equal(t,
		"https://github.com/alexhub/personal-hub/archive/main.zip",
		cfg.ArchiveURL())
	require.Equal(t,
		"https://raw.githubusercontent.com/alexhub/personal-hub/main/media_config.json",
		cfg.RawFileURL("media_config.json"))
	require.Equal(t, "personal-hub-main", cfg.ArchiveRootDir())
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		RepoOwner: "someone",
		RepoName:  "some-app",
		Branch:    "develop",
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.RepoOwner, loaded.RepoOwner)
	require.Equal(t, cfg.RepoName, loaded.RepoName)
	require.Equal(t, "develop", loaded.Branch)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}
