// Package main provides the entry point for the viewfang CLI tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/viewfang/cmd/viewfang/commands"
	"github.com/Sumatoshi-tech/viewfang/pkg/chunk"
	"github.com/Sumatoshi-tech/viewfang/pkg/version"
)

// Exit codes the CLI contract promises to scripted consumers.
const (
	exitOK                 = 0
	exitFailure            = 1
	exitCheckpointMismatch = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "viewfang",
		Short: "Viewfang - bounded, non-blocking content viewer",
		Long: `Viewfang converts a source file or stream into a bounded, machine-
consumable view: raw text, highlighted text, structured JSON, or a
condensed structural summary. It never waits on a terminal and never
loads an entire file into memory.

Commands:
  view      Render a bounded view of a file or stdin`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewViewCommand())
	rootCmd.AddCommand(commands.NewInfoCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewSchemaCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps error classes to the documented exit codes. A
// checkpoint that cannot be resumed gets its own code so pipelines can
// branch on it.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, chunk.ErrFingerprintMismatch),
		errors.Is(err, chunk.ErrSchemaVersion),
		errors.Is(err, chunk.ErrAlreadyCompleted),
		errors.Is(err, chunk.ErrNoCheckpoint),
		errors.Is(err, chunk.ErrStdinResume):
		return exitCheckpointMismatch
	default:
		return exitFailure
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "viewfang %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
