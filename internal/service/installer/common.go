package installer

import (
	"context"
	"errors"
	"os"
	"runtime"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/alexhub/hub-installer/internal/logger"
)

const (
	// archiveFilename is the staged name of the downloaded branch snapshot.
	archiveFilename = "bundle.zip"

	// requirementsFilename declares the application's runtime dependencies.
	requirementsFilename = "requirements.txt"

	// cacheDirName is the cache-artifact directory that is never copied and
	// never replaced at the destination.
	cacheDirName = "__pycache__"

	// fallbackDependency is installed when no requirements file was staged.
	fallbackDependency = "PyQt6"

	// MarkerFilename marks that an installer run is in progress to avoid
	// two runs fighting over the staging area.
	MarkerFilename = "hub-installer-run-marker.bin"

	// installerExecutable is the process name killed when a stale marker
	// is left behind by a crashed run.
	installerExecutable = "hub-installer"

	// markerLifetime is the period after which a stale run marker is ignored.
	markerLifetime = 30 * time.Second

	// DefaultFileMode is applied to files placed into the install target.
	DefaultFileMode os.FileMode = 0o755
)

var (
	// errNoConnectivity aborts the run before any side effects happen.
	errNoConnectivity = errors.New("no internet connection")
	// errInstallerAlreadyRunning guards against concurrent runs.
	errInstallerAlreadyRunning = errors.New("the installer is already running")
	// errAcquisitionFailed is returned when both acquisition strategies fail.
	errAcquisitionFailed = errors.New("all acquisition strategies failed")
	// errNoFilesDownloaded is returned by the per-file path when nothing usable arrived.
	errNoFilesDownloaded = errors.New("no files were downloaded")
	// errEmptyManifest is returned by the per-file path when there is nothing to download.
	errEmptyManifest = errors.New("manifest lists no files to download")
	// errCancelled converts an interrupt into a clean terminal outcome.
	errCancelled = errors.New("installation cancelled")
	// errUnsupportedOS is returned when the platform has no launch support.
	errUnsupportedOS = errors.New("os not supported")
)

// pythonExecutable returns the interpreter used for dependency installation
// and application launch on the current platform.
func pythonExecutable() string {
	if runtime.GOOS == "windows" {
		return "python"
	}

	return "python3"
}

// isInstallerRunningNow checks presence of a run marker and attempts
// recovery if it looks stale.
func isInstallerRunningNow(ctx context.Context, markerPath string) bool {
	fileInfo, err := os.Stat(markerPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false
		}

		logger.Infof(ctx, "Unable to read run marker: %v", err)

		return false
	}

	if time.Since(fileInfo.ModTime()) <= markerLifetime {
		return true
	}

	logger.Info(ctx, "The run marker is too old, attempting cleanup")

	if err = terminateProcessByName(installerExecutable); err != nil {
		return true
	}

	if err = os.Remove(markerPath); err != nil {
		return true
	}

	return false
}

// terminateProcessByName kills other processes with the provided executable name.
func terminateProcessByName(processName string) error {
	processList, err := ps.Processes()
	if err != nil {
		return err
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() != processName {
			continue
		}

		var runningProcess *os.Process

		runningProcess, err = os.FindProcess(process.Pid())
		if err != nil {
			return err
		}

		if err = runningProcess.Kill(); err != nil {
			return err
		}
	}

	return nil
}
