// Package cli implements the cobra-based commands of git-workon.
//
// Each subcommand (new, list, prune, config) is defined in its own file
// within this package. This file defines the root command that serves as
// the parent for all subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lettertwo/git-workon/internal/logging"
	"github.com/lettertwo/git-workon/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// When false (default), output uses human-readable text format.
	jsonOutput bool

	// verbose enables detailed logging output for debugging.
	verbose bool

	// logger is the process logger, constructed before any subcommand
	// runs so the verbosity flag is already known.
	logger = zap.NewNop()
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action. Actual
// functionality is provided by subcommands (new, list, prune, config).
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "git-workon",
		Short: "Manage a bare-repository layout with one worktree per branch",
		Long: `git-workon manages a repository layout where the object store lives in a
bare directory and every branch gets its own worktree beside it.

Worktrees are created from branch names, namespaced branch names, or
pull-request references (#123, pr-123, or a PR URL), and pruned in bulk
once their branches are merged or their remotes are gone. Dirty and
unpushed work is never removed without explicit consent.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.New(verbose)
		},
	}

	// PersistentFlags are inherited by all subcommands.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// Register subcommands. Each subcommand is defined in its own file
	// (new.go, list.go, etc.) and returns a *cobra.Command.
	rootCmd.AddCommand(NewNewCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewPruneCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them
// into OS exit codes. CLIError types carry their own exit codes; domain
// errors map to their documented codes; anything else is exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(int(exitCodeFor(err)))
	}
}

// exitCodeFor maps an error to its exit code.
func exitCodeFor(err error) model.ExitCode {
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	var cfgErr *model.ConfigError
	if errors.As(err, &cfgErr) {
		return model.ExitConfigError
	}
	var resErr *model.ResolutionError
	if errors.As(err, &resErr) {
		return model.ExitResolutionError
	}
	var gitErr *model.GitBackendError
	if errors.As(err, &gitErr) {
		return model.ExitGitError
	}
	return model.ExitGeneralError
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(err error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": err.Error(),
				"code":    int(exitCodeFor(err)),
			},
		}
		// Errors go to stderr even in JSON mode; stdout is reserved for
		// successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
