package installer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/alexhub/hub-installer/internal/config"
	"github.com/alexhub/hub-installer/internal/logger"
	"github.com/alexhub/hub-installer/internal/manifest"
	"github.com/alexhub/hub-installer/internal/remote"
	"github.com/alexhub/hub-installer/internal/shortcut"
)

// Options are inputs accepted by the installer entry point.
type Options struct {
	// ConfigPath is the optional path to a settings YAML file. A missing
	// file is not an error; the built-in defaults are used instead.
	ConfigPath string
	// In supplies interactive prompt input. Defaults to os.Stdin.
	In io.Reader
	// Out receives banners, step headers, and prompts. Defaults to os.Stdout.
	Out io.Writer
}

// step is one state of the run. Fatal steps abort the run on error;
// non-fatal steps log a warning and let the run continue degraded.
type step struct {
	name  string
	fatal bool
	run   func(ctx context.Context) error
}

// runner holds the mutable state and helpers for a single installation.
// It is unexported; callers go through Run(ctx, *Options).
type runner struct {
	cfg     *config.Config
	client  *remote.Client
	creator shortcut.Creator // nil when the platform has no launch entry support

	// man starts as the built-in default and is replaced when the remote
	// manifest fetch succeeds. Only the per-file fallback reads it.
	man *manifest.Manifest

	homeDir    string
	installDir string
	stagingDir string
	markerPath string

	markerCreated bool

	in  *bufio.Reader
	out io.Writer

	// runCommand and startCommand are indirections over exec so tests can
	// simulate package-manager and launch failures.
	runCommand   func(ctx context.Context, dir, name string, args ...string) error
	startCommand func(ctx context.Context, dir, name string, args ...string) error
}

// Run executes the installer lifecycle and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "hub-installer")

	r, err := newRunner(ctx, opts)
	if err != nil {
		return err
	}

	defer r.cleanup(ctx)

	if err = r.Run(ctx); err != nil {
		logger.ErrorKV(ctx, "Installer run failed", "error", err)
		return err
	}

	logger.Info(ctx, "Installation completed")

	return nil
}

// newRunner resolves configuration and collaborators for one run.
func newRunner(ctx context.Context, opts *Options) (*runner, error) {
	if opts == nil {
		opts = &Options{}
	}

	cfg, err := loadConfig(ctx, opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	return newRunnerWithConfig(ctx, cfg, opts)
}

// newRunnerWithConfig wires a runner from an already-validated configuration.
func newRunnerWithConfig(ctx context.Context, cfg *config.Config, opts *Options) (*runner, error) {
	client, err := remote.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	creator, err := shortcut.For(runtime.GOOS)
	if err != nil {
		// Shortcut creation is best effort; the run proceeds without it.
		logger.Warnf(ctx, "Launch entries are not supported here: %v", err)
	}

	in := opts.In
	if in == nil {
		in = os.Stdin
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	stagingDir := cfg.StagingDir()

	return &runner{
		cfg:          cfg,
		client:       client,
		creator:      creator,
		man:          manifest.Default(),
		homeDir:      homeDir,
		installDir:   filepath.Join(homeDir, cfg.InstallDirName),
		stagingDir:   stagingDir,
		markerPath:   filepath.Join(filepath.Dir(stagingDir), MarkerFilename),
		in:           bufio.NewReader(in),
		out:          out,
		runCommand:   runProcess,
		startCommand: startProcess,
	}, nil
}

// loadConfig reads the optional settings file, degrading to the built-in
// defaults when no file is present.
func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	requested := path
	if requested == "" {
		requested = config.DefaultConfigFilename
	}

	if _, err := os.Stat(requested); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read settings: %w", err)
		}

		// Only the default location may be silently absent.
		if path != "" {
			return nil, fmt.Errorf("read settings: %w", err)
		}

		logger.Debug(ctx, "No settings file found, using built-in defaults")

		return config.Default(), nil
	}

	return config.Load(requested)
}

// Run drives every step in fixed order, stopping early on the first fatal
// failure. The interrupt signal cancels the context and surfaces here as a
// clean cancelled outcome.
func (r *runner) Run(ctx context.Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.ErrorKV(ctx, "Installation failed unexpectedly",
				"panic", rec, "stacktrace", string(debug.Stack()))

			err = fmt.Errorf("installation failed: %v", rec)
		}
	}()

	r.printBanner()

	steps := []step{
		{name: "Checking internet connection", fatal: true, run: r.checkConnectivity},
		{name: "Preparing installation", fatal: true, run: r.prepareDirectories},
		{name: "Fetching file list", fatal: false, run: r.fetchManifest},
		{name: "Downloading application", fatal: true, run: r.acquire},
		{name: "Installing dependencies", fatal: false, run: r.installDependencies},
		{name: "Installing files", fatal: true, run: r.installFiles},
		{name: "Creating shortcuts", fatal: false, run: r.createShortcut},
	}

	for i, s := range steps {
		if ctx.Err() != nil {
			return errCancelled
		}

		fmt.Fprintf(r.out, "[%d/%d] %s...\n", i+1, len(steps), s.name)

		stepErr := s.run(ctx)
		if stepErr == nil {
			continue
		}

		if ctx.Err() != nil && errors.Is(stepErr, context.Canceled) {
			return errCancelled
		}

		if s.fatal {
			return fmt.Errorf("%s: %w", strings.ToLower(s.name), stepErr)
		}

		logger.Warnf(ctx, "%s failed, continuing: %v", s.name, stepErr)
	}

	r.printSummary()

	return r.promptLaunch(ctx)
}

// checkConnectivity gates the run on a bounded reachability probe.
func (r *runner) checkConnectivity(ctx context.Context) error {
	if !r.client.CheckConnectivity(ctx) {
		fmt.Fprintln(r.out, "  Please connect to the internet and try again.")
		return errNoConnectivity
	}

	return nil
}

// prepareDirectories claims the run marker and ensures both the install
// target and the staging area exist. Both creations are idempotent.
func (r *runner) prepareDirectories(ctx context.Context) error {
	if isInstallerRunningNow(ctx, r.markerPath) {
		return errInstallerAlreadyRunning
	}

	marker, err := os.Create(r.markerPath)
	if err != nil {
		return fmt.Errorf("create run marker: %w", err)
	}

	if err = marker.Close(); err != nil {
		return fmt.Errorf("close run marker: %w", err)
	}

	r.markerCreated = true

	if err = os.MkdirAll(r.installDir, 0o755); err != nil {
		return fmt.Errorf("create install directory: %w", err)
	}

	if err = os.MkdirAll(r.stagingDir, 0o755); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}

	logger.InfoKV(ctx, "Installation directory ready", "path", r.installDir)

	return nil
}

// fetchManifest replaces the default manifest with the remote one.
// Failures leave the default in place; the orchestrator only warns.
func (r *runner) fetchManifest(ctx context.Context) error {
	m, err := r.client.FetchManifest(ctx)
	if err != nil {
		fmt.Fprintln(r.out, "  Using default file list...")
		return err
	}

	r.man = m

	logger.InfoKV(ctx, "Fetched manifest", "version", m.Version, "files", m.Count())

	return nil
}

// createShortcut produces the platform launch entry.
func (r *runner) createShortcut(ctx context.Context) error {
	if r.creator == nil {
		return fmt.Errorf("%s: %w", runtime.GOOS, errUnsupportedOS)
	}

	entryPath, err := r.creator.Create(shortcut.Params{
		AppName:     r.cfg.AppName,
		InstallDir:  r.installDir,
		EntryScript: r.cfg.EntryScript,
		HomeDir:     r.homeDir,
	})
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Created launch entry", "path", entryPath)

	return nil
}

// printBanner writes the greeting header.
func (r *runner) printBanner() {
	fmt.Fprintf(r.out, "%s installer %s\n", r.cfg.AppName, strings.Repeat("=", 24))
}

// printSummary writes the post-install instructions.
func (r *runner) printSummary() {
	fmt.Fprintf(r.out, "\nInstallation complete!\n")
	fmt.Fprintf(r.out, "%s has been installed to:\n  %s\n", r.cfg.AppName, r.installDir)
	fmt.Fprintf(r.out, "To start the application, use the created shortcut or run:\n")
	fmt.Fprintf(r.out, "  cd %q && %s %s\n", r.installDir, pythonExecutable(), r.cfg.EntryScript)
}

// cleanup removes the staging area and the run marker on every exit path.
func (r *runner) cleanup(ctx context.Context) {
	if r.markerCreated {
		if _, err := os.Stat(r.markerPath); err == nil {
			_ = os.Remove(r.markerPath)
		}
	}

	if r.stagingDir != "" {
		if _, err := os.Stat(r.stagingDir); err == nil {
			_ = os.RemoveAll(r.stagingDir)
		}
	}

	logger.Info(ctx, "The installer has been stopped")
}

// runProcess executes a command to completion, surfacing its output.
func runProcess(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// startProcess launches a command without waiting for it.
func startProcess(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	return cmd.Start()
}
