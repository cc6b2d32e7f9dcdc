package shortcut

import (
	"fmt"
	"os"
	"path/filepath"
)

// windowsCreator writes a batch launcher into the install target and a
// desktop wrapper that starts it.
type windowsCreator struct{}

// launcherFilename is the batch entry point created inside the install target.
const launcherFilename = "launch.bat"

func (c *windowsCreator) Create(params Params) (string, error) {
	launcherPath := filepath.Join(params.InstallDir, launcherFilename)

	launcher := fmt.Sprintf("@echo off\r\n"+
		"title %s\r\n"+
		"echo Starting %s...\r\n"+
		"cd /d \"%s\"\r\n"+
		"python %s\r\n"+
		"if errorlevel 1 (\r\n"+
		"    echo Failed to start application\r\n"+
		"    pause\r\n"+
		")\r\n",
		params.AppName, params.AppName, params.InstallDir, params.EntryScript)

	if err := os.WriteFile(launcherPath, []byte(launcher), 0o755); err != nil {
		return "", fmt.Errorf("write launcher script: %w", err)
	}

	desktopDir := filepath.Join(params.HomeDir, "Desktop")
	if err := os.MkdirAll(desktopDir, 0o755); err != nil {
		return "", fmt.Errorf("create desktop directory: %w", err)
	}

	entryPath := filepath.Join(desktopDir, params.AppName+".bat")

	wrapper := fmt.Sprintf("@echo off\r\ncall \"%s\"\r\n", launcherPath)
	if err := os.WriteFile(entryPath, []byte(wrapper), 0o755); err != nil {
		return "", fmt.Errorf("write desktop entry: %w", err)
	}

	return entryPath, nil
}
