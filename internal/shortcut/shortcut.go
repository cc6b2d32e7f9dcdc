package shortcut

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Params describes the installed application a launch entry should start.
type Params struct {
	// AppName is the human-readable application name.
	AppName string
	// InstallDir is the absolute path of the install target.
	InstallDir string
	// EntryScript is the script inside InstallDir that starts the application.
	EntryScript string
	// HomeDir is the user's home directory. Platform entries are written
	// relative to it, which keeps every implementation testable anywhere.
	HomeDir string
}

// Creator produces a platform launch entry for an installed application.
type Creator interface {
	// Create writes the launch entry and returns the path of the file
	// or bundle it produced.
	Create(params Params) (string, error)
}

// errUnsupportedOS is returned when no launch entry exists for the platform.
var errUnsupportedOS = errors.New("no launch entry support for this platform")

// For selects the Creator for the given GOOS value.
// It is called once at startup; the run never branches on the platform again.
func For(goos string) (Creator, error) {
	switch goos {
	case "windows":
		return &windowsCreator{}, nil
	case "darwin":
		return &darwinCreator{}, nil
	case "linux":
		return &linuxCreator{}, nil
	default:
		return nil, fmt.Errorf("%s: %w", goos, errUnsupportedOS)
	}
}

// slugify converts an application name into a lowercase token suitable
// for desktop-entry file names.
func slugify(name string) string {
	var b strings.Builder

	lastDash := true

	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)

			lastDash = false
		case !lastDash:
			b.WriteRune('-')

			lastDash = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
