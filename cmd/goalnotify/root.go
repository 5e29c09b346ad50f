// Package main provides the CLI entrypoint for goalnotify.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vunf1/goalnotify/internal/queue"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	globalOpts struct {
		verbose bool
		socket  string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "goalnotify",
	Short: "Send toast notifications to the goalnotifyd daemon",
	Long: `goalnotify is the producer CLI for the goalnotifyd toast daemon.

It enqueues toast requests, asks modal Yes/No questions, and reports
daemon status over the shared notification queue socket.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.socket, "socket", "",
		"Path to the daemon queue socket (default: $XDG_RUNTIME_DIR/goalnotify/notify.sock)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// socketPath resolves the queue socket path from flags and environment.
func socketPath() string {
	return queue.SocketPath(globalOpts.socket)
}

func main() {
	Execute()
}
