package shortcut

import (
	"fmt"
	"os"
	"path/filepath"
)

// darwinCreator produces a minimal application bundle under ~/Applications
// whose executable changes into the install target and runs the entry script.
type darwinCreator struct{}

const infoPlistTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>CFBundleName</key>
    <string>%s</string>
    <key>CFBundleExecutable</key>
    <string>launcher</string>
</dict>
</plist>
`

func (c *darwinCreator) Create(params Params) (string, error) {
	bundleName := filepath.Base(params.InstallDir) + ".app"
	bundlePath := filepath.Join(params.HomeDir, "Applications", bundleName)
	binaryDir := filepath.Join(bundlePath, "Contents", "MacOS")

	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return "", fmt.Errorf("create bundle directories: %w", err)
	}

	launcher := fmt.Sprintf("#!/bin/bash\ncd \"%s\"\npython3 %s\n",
		params.InstallDir, params.EntryScript)

	launcherPath := filepath.Join(binaryDir, "launcher")
	if err := os.WriteFile(launcherPath, []byte(launcher), 0o755); err != nil {
		return "", fmt.Errorf("write bundle launcher: %w", err)
	}

	plist := fmt.Sprintf(infoPlistTemplate, params.AppName)

	plistPath := filepath.Join(bundlePath, "Contents", "Info.plist")
	if err := os.WriteFile(plistPath, []byte(plist), 0o644); err != nil {
		return "", fmt.Errorf("write Info.plist: %w", err)
	}

	return bundlePath, nil
}
