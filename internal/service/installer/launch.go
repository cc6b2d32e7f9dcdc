package installer

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/alexhub/hub-installer/internal/logger"
)

// promptLaunch asks whether to start the application now. Anything but an
// explicit yes, including closed input, is treated as a no. A failed
// launch is logged and does not fail the installation.
func (r *runner) promptLaunch(ctx context.Context) error {
	fmt.Fprint(r.out, "\nLaunch application now? (Y/N): ")

	answer, err := r.in.ReadString('\n')
	if err != nil {
		logger.Debugf(ctx, "No launch answer available: %v", err)
		return nil
	}

	if !strings.EqualFold(strings.TrimSpace(answer), "y") {
		return nil
	}

	fmt.Fprintln(r.out, "Launching...")

	if err = r.launchApp(ctx); err != nil {
		logger.Warnf(ctx, "Could not launch the application: %v", err)
	}

	return nil
}

// launchApp starts the installed entry script from the install target.
func (r *runner) launchApp(ctx context.Context) error {
	osLC := strings.ToLower(runtime.GOOS)

	switch {
	case strings.Contains(osLC, "linux") || strings.Contains(osLC, "darwin"):
		return r.startCommand(ctx, r.installDir, pythonExecutable(), r.cfg.EntryScript)
	case strings.Contains(osLC, "windows"):
		return r.startCommand(ctx, r.installDir, "cmd.exe", "/C", "start", pythonExecutable(), r.cfg.EntryScript)
	default:
		return fmt.Errorf("%s OS is not supported: %w", runtime.GOOS, errUnsupportedOS)
	}
}
