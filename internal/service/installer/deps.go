package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexhub/hub-installer/internal/logger"
)

// installDependencies provisions the application's Python runtime
// dependencies with pip. A staged requirements file wins; without one a
// single minimal package is installed so the application can at least
// start. Failures are reported to the orchestrator, which treats the whole
// step as best effort.
func (r *runner) installDependencies(ctx context.Context) error {
	python := pythonExecutable()
	requirementsPath := filepath.Join(r.stagingDir, requirementsFilename)

	if _, err := os.Stat(requirementsPath); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("check requirements file: %w", err)
		}

		logger.InfoKV(ctx, "No requirements file staged, installing minimal dependency",
			"package", fallbackDependency)

		if err = r.runCommand(ctx, r.stagingDir, python, "-m", "pip", "install", fallbackDependency); err != nil {
			return fmt.Errorf("install %s: %w", fallbackDependency, err)
		}

		return nil
	}

	logger.Info(ctx, "Installing declared requirements")

	if err := r.runCommand(ctx, r.stagingDir, python, "-m", "pip", "install", "--upgrade", "pip"); err != nil {
		return fmt.Errorf("upgrade pip: %w", err)
	}

	if err := r.runCommand(ctx, r.stagingDir, python, "-m", "pip", "install", "-r", requirementsPath); err != nil {
		return fmt.Errorf("install requirements: %w", err)
	}

	return nil
}
