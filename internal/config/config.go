package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the coordinates and paths for a single installer run.
// It is constructed once at startup and treated as immutable afterwards.
type Config struct {
	// RepoOwner is the GitHub account hosting the application repository.
	RepoOwner string `yaml:"repo_owner"`
	// RepoName is the application repository name.
	RepoName string `yaml:"repo_name"`
	// Branch is the branch whose snapshot gets installed.
	Branch string `yaml:"branch"`
	// AppName is the human-readable application name used in shortcuts and banners.
	AppName string `yaml:"app_name"`
	// InstallDirName is the directory under the user's home receiving the files.
	InstallDirName string `yaml:"install_dir"`
	// EntryScript is the script launched by the generated shortcuts.
	EntryScript string `yaml:"entry_script"`
	// APIBaseURL is the GitHub API endpoint, overridable for tests.
	APIBaseURL string `yaml:"api_base_url"`
	// DownloadBaseURL hosts branch archive downloads, overridable for tests.
	DownloadBaseURL string `yaml:"download_base_url"`
	// RawBaseURL hosts raw per-file downloads, overridable for tests.
	RawBaseURL string `yaml:"raw_base_url"`
	// Timeout bounds the connectivity probe and individual HTTP calls.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for installer settings.
	DefaultConfigFilename = "hub-installer-settings.yaml"

	// ManifestFilename is the manifest path inside the application repository.
	ManifestFilename = "manifest.json"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// stagingDirName is the scratch directory name under the system temp dir.
	stagingDirName = "hub-installer-staging"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errRepoRequired is returned when repository coordinates are missing.
	errRepoRequired = errors.New("repository owner and name must be provided")
)

// Default returns the built-in configuration pointing at the upstream
// Personal Hub repository.
func Default() *Config {
	return &Config{
		RepoOwner:       "alexhub",
		RepoName:        "personal-hub",
		Branch:          "main",
		AppName:         "Alex's Personal Hub",
		InstallDirName:  "AlexPersonalHub",
		EntryScript:     "main_app.py",
		APIBaseURL:      "https://api.github.com/",
		DownloadBaseURL: "https://github.com",
		RawBaseURL:      "https://raw.githubusercontent.com",
		Timeout:         DefaultTimeout,
	}
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills defaults for everything optional.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.RepoOwner == "" || cfg.RepoName == "" {
		return errRepoRequired
	}

	defaults := Default()

	if cfg.Branch == "" {
		cfg.Branch = defaults.Branch
	}

	if cfg.AppName == "" {
		cfg.AppName = defaults.AppName
	}

	if cfg.InstallDirName == "" {
		cfg.InstallDirName = defaults.InstallDirName
	}

	if cfg.EntryScript == "" {
		cfg.EntryScript = defaults.EntryScript
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaults.APIBaseURL
	}

	if cfg.DownloadBaseURL == "" {
		cfg.DownloadBaseURL = defaults.DownloadBaseURL
	}

	if cfg.RawBaseURL == "" {
		cfg.RawBaseURL = defaults.RawBaseURL
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	// The go-github client requires a trailing slash on its base URL.
	if !strings.HasSuffix(cfg.APIBaseURL, "/") {
		cfg.APIBaseURL += "/"
	}

	for _, endpoint := range []string{cfg.APIBaseURL, cfg.DownloadBaseURL, cfg.RawBaseURL} {
		if _, err := url.ParseRequestURI(endpoint); err != nil {
			return fmt.Errorf("invalid endpoint URL %q: %w", endpoint, err)
		}
	}

	return nil
}

// StagingDir returns the scratch directory under the system temp dir.
func (c *Config) StagingDir() string {
	return filepath.Join(os.TempDir(), stagingDirName)
}

// ArchiveURL returns the branch snapshot archive endpoint.
func (c *Config) ArchiveURL() string {
	return fmt.Sprintf("%s/%s/%s/archive/%s.zip",
		strings.TrimSuffix(c.DownloadBaseURL, "/"), c.RepoOwner, c.RepoName, c.Branch)
}

// RawFileURL returns the raw-content endpoint for a repository-relative path.
func (c *Config) RawFileURL(relativePath string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s",
		strings.TrimSuffix(c.RawBaseURL, "/"), c.RepoOwner, c.RepoName, c.Branch, relativePath)
}

// ArchiveRootDir returns the top-level folder name inside the branch archive.
// GitHub names it after the repository and branch.
func (c *Config) ArchiveRootDir() string {
	return fmt.Sprintf("%s-%s", c.RepoName, c.Branch)
}
