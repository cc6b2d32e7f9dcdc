package shortcut

import (
	"fmt"
	"os"
	"path/filepath"
)

// linuxCreator writes a freedesktop desktop entry under the user's
// application directory.
type linuxCreator struct{}

const desktopEntryTemplate = `[Desktop Entry]
Name=%s
Comment=Netflix-style streaming platform
Exec=python3 %s
Path=%s
Terminal=false
Type=Application
Categories=AudioVideo;Player;
`

func (c *linuxCreator) Create(params Params) (string, error) {
	applicationsDir := filepath.Join(params.HomeDir, ".local", "share", "applications")
	if err := os.MkdirAll(applicationsDir, 0o755); err != nil {
		return "", fmt.Errorf("create applications directory: %w", err)
	}

	entry := fmt.Sprintf(desktopEntryTemplate,
		params.AppName,
		filepath.Join(params.InstallDir, params.EntryScript),
		params.InstallDir)

	entryPath := filepath.Join(applicationsDir, slugify(params.AppName)+".desktop")
	if err := os.WriteFile(entryPath, []byte(entry), 0o644); err != nil {
		return "", fmt.Errorf("write desktop entry: %w", err)
	}

	return entryPath, nil
}
