package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexhub/hub-installer/internal/logger"
	"github.com/alexhub/hub-installer/internal/service/installer"
	"github.com/alexhub/hub-installer/internal/version"
)

var (
	// configPath to the optional settings YAML file.
	configPath string

	// logLevel controls logger verbosity.
	logLevel string

	// rootCmd represents the base command that runs the full installation.
	rootCmd = &cobra.Command{
		Use:           "hub-installer",
		Short:         "Download and install Alex's Personal Hub",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &installer.Options{
				ConfigPath: configPath,
			}

			return installer.Run(ctx, options)
		},
	}
)

// Execute runs the hub-installer CLI and exits with non-zero status on failure,
// keeping the console open until the user has seen the message.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "\nInstallation failed. Please check your internet connection and try again.")
		fmt.Fprint(os.Stderr, "Press Enter to exit...")

		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')

		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// The installer needs no arguments; the settings file is optional.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to optional settings file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "logging level (debug, info, warn, error)")
}
