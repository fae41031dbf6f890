// Package cli — config.go implements the "git workon config" command.
//
// The command shows the fully resolved configuration: every workon.*
// key after scope precedence and validation, so users can see exactly
// what the layered git config sources amount to.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// configFlags holds the flag values for the config command.
type configFlags struct {
	output string // --output: text, json, or yaml
}

// NewConfigCommand creates the "config" cobra command.
func NewConfigCommand() *cobra.Command {
	flags := &configFlags{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved workon configuration",
		Long: `Show every workon.* configuration value after applying scope precedence
(local repository config over global user config) and validation.

Values are set with plain git config:
  git config workon.defaultBranch develop
  git config --add workon.copyPattern '.env*'
  git config --add workon.pruneProtectedBranches 'release/*'`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output format: text, json, or yaml")

	return cmd
}

// runConfig resolves and prints the configuration snapshot.
func runConfig(flags *configFlags) error {
	format, err := resolveFormat(flags.output)
	if err != nil {
		return err
	}

	orch, err := newOrchestrator()
	if err != nil {
		return err
	}

	resolved, err := orch.Config.Resolve()
	if err != nil {
		return err
	}

	if format != outputText {
		return renderStructured(format, resolved)
	}

	printValue := func(key, value string) {
		if value == "" {
			value = "(unset)"
		}
		fmt.Printf("%-36s %s\n", key, value)
	}

	printValue("workon.defaultBranch", resolved.DefaultBranch)
	printValue("workon.prFormat", resolved.PRFormat)
	printValue("workon.postCreateHook", strings.Join(resolved.PostCreateHooks, ", "))
	printValue("workon.copyPattern", strings.Join(resolved.CopyPatterns, ", "))
	printValue("workon.copyExclude", strings.Join(resolved.CopyExcludes, ", "))
	printValue("workon.autoCopyUntracked", fmt.Sprintf("%t", resolved.AutoCopyUntracked))
	printValue("workon.pruneProtectedBranches", strings.Join(resolved.ProtectedBranches, ", "))

	timeout := "disabled"
	if resolved.HookTimeout > 0 {
		timeout = fmt.Sprintf("%ds", int(resolved.HookTimeout/time.Second))
	}
	printValue("workon.hookTimeout", timeout)
	return nil
}
