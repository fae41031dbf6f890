// Package cli — new.go implements the "git workon new" command.
//
// The new command resolves a name or pull-request reference into a
// branch and creates a worktree for it: fetching the PR head when
// needed, carrying over configured files from the base worktree, and
// running post-create hooks inside the new directory.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lettertwo/git-workon/internal/model"
	"github.com/lettertwo/git-workon/internal/workon"
)

// newFlags holds the flag values for the new command.
type newFlags struct {
	base          string // --base: base branch for the new branch
	orphan        bool   // --orphan: branch with no parent history
	detach        bool   // --detach: branchless worktree
	prFormat      string // --pr-format: override workon.prFormat
	copyUntracked bool   // --copy-untracked: force file carry-over on
	noCopy        bool   // --no-copy-untracked: force it off
	noHooks       bool   // --no-hooks: skip post-create hooks
}

// NewNewCommand creates the "new" cobra command.
func NewNewCommand() *cobra.Command {
	flags := &newFlags{}

	cmd := &cobra.Command{
		Use:   "new <name | #PR | PR-URL>",
		Short: "Create a worktree for a branch or pull request",
		Long: `Create a worktree for the given name. Plain names become branches
(created from the base branch if they don't exist yet); pull-request
references (#123, pr-123, pr#123, or a pull-request URL) fetch the PR
head and check it out under the configured name format.

Branch names containing slashes become nested directories under the
worktree root.

Examples:
  git workon new feature-auth
  git workon new team/login-fix
  git workon new '#123'
  git workon new https://github.com/owner/repo/pull/123
  git workon new --orphan docs
  git workon new --base release/2.0 hotfix`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.base, "base", "", "Base branch for new branches (default: configured or detected)")
	cmd.Flags().BoolVar(&flags.orphan, "orphan", false, "Create a branch with no parent history")
	cmd.Flags().BoolVar(&flags.detach, "detach", false, "Create a worktree with detached HEAD, no branch")
	cmd.Flags().StringVar(&flags.prFormat, "pr-format", "", "Branch name template for PR worktrees (default: pr-{number})")
	cmd.Flags().BoolVar(&flags.copyUntracked, "copy-untracked", false, "Copy configured files from the base worktree")
	cmd.Flags().BoolVar(&flags.noCopy, "no-copy-untracked", false, "Skip copying files from the base worktree")
	cmd.Flags().BoolVar(&flags.noHooks, "no-hooks", false, "Skip post-create hooks")
	cmd.MarkFlagsMutuallyExclusive("copy-untracked", "no-copy-untracked")
	cmd.MarkFlagsMutuallyExclusive("orphan", "detach")

	return cmd
}

// runNew drives worktree creation and prints the result.
func runNew(ctx context.Context, token string, flags *newFlags) error {
	orch, err := newOrchestrator()
	if err != nil {
		return err
	}

	opts := workon.CreateOptions{
		BaseBranch: flags.base,
		Orphan:     flags.orphan,
		Detached:   flags.detach,
		PRFormat:   flags.prFormat,
		NoHooks:    flags.noHooks,
	}
	if flags.copyUntracked {
		t := true
		opts.AutoCopy = &t
	}
	if flags.noCopy {
		f := false
		opts.AutoCopy = &f
	}

	result, err := orch.CreateWorktree(ctx, token, opts)
	if err != nil {
		return err
	}

	printCreateResult(result)
	return nil
}

// printCreateResult outputs the create result in text or JSON format.
func printCreateResult(result *workon.CreateResult) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Created worktree %q\n", result.Worktree.Name)
	fmt.Printf("  Path:   %s\n", result.Worktree.Path)
	if result.Worktree.Branch != "" {
		fmt.Printf("  Branch: %s\n", result.Worktree.Branch)
	}
	if result.Mode == model.ModePR {
		fmt.Printf("  PR:     #%d\n", result.PRNumber)
	}
	if result.BaseBranch != "" && result.Mode == model.ModeNormal {
		fmt.Printf("  Base:   %s\n", result.BaseBranch)
	}
	for _, file := range result.CopiedFiles {
		fmt.Printf("  Copied: %s\n", file)
	}
	for _, warning := range result.Warnings {
		fmt.Printf("  Warning: %s\n", warning)
	}
}
