// Package cli — prune.go implements the "git workon prune" command.
//
// Prune removes worktrees in bulk, gated by protection patterns and
// safety checks. The plan is always computed first and shown to the
// user; --dry-run stops there, and destructive runs require --yes or an
// interactive confirmation.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lettertwo/git-workon/internal/model"
	"github.com/lettertwo/git-workon/internal/prune"
	"github.com/lettertwo/git-workon/internal/workon"
)

// pruneFlags holds the flag values for the prune command.
type pruneFlags struct {
	gone          bool   // --gone: select branches whose upstream is deleted
	merged        string // --merged[=target]: select branches merged into the base (or target)
	all           bool   // --all: select every worktree
	base          string // --base: base branch for merged detection
	allowDirty    bool   // --allow-dirty: remove despite tracked changes
	allowUnpushed bool   // --allow-unpushed: remove despite unpushed commits
	dryRun        bool   // --dry-run: plan only, remove nothing
	yes           bool   // --yes: skip the confirmation prompt
}

// NewPruneCommand creates the "prune" cobra command.
func NewPruneCommand() *cobra.Command {
	flags := &pruneFlags{}

	cmd := &cobra.Command{
		Use:   "prune [worktree...]",
		Short: "Remove worktrees whose branches are merged or gone",
		Long: `Remove worktrees in bulk. Name worktrees explicitly, or select them with
--gone (upstream branch deleted), --merged (fully merged into the base
branch), or --all.

Protected branches (workon.pruneProtectedBranches) and the base branch's
own worktree are never removed. Worktrees with uncommitted tracked
changes or unpushed commits are skipped unless --allow-dirty or
--allow-unpushed is given.

Examples:
  git workon prune --merged
  git workon prune --gone --merged
  git workon prune feature-auth pr-123
  git workon prune --all --dry-run
  git workon prune --merged --allow-unpushed --yes`,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(cmd.Context(), args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.gone, "gone", false, "Select worktrees whose upstream branch was deleted")
	cmd.Flags().StringVar(&flags.merged, "merged", "", "Select worktrees merged into the base branch, or into the given branch")
	// --merged without a value selects against the default base branch.
	cmd.Flags().Lookup("merged").NoOptDefVal = "true"
	cmd.Flags().BoolVar(&flags.all, "all", false, "Select every worktree")
	cmd.Flags().StringVar(&flags.base, "base", "", "Base branch for merged detection (default: configured or detected)")
	cmd.Flags().BoolVar(&flags.allowDirty, "allow-dirty", false, "Remove worktrees with uncommitted tracked changes")
	cmd.Flags().BoolVar(&flags.allowUnpushed, "allow-unpushed", false, "Remove worktrees with unpushed commits")
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "Show what would be removed without removing anything")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// runPrune plans, confirms, and executes a prune run.
func runPrune(ctx context.Context, names []string, flags *pruneFlags) error {
	if len(names) == 0 && !flags.gone && flags.merged == "" && !flags.all {
		return model.NewCLIError(model.ExitGeneralError,
			"nothing selected: name worktrees or pass --gone, --merged, or --all")
	}

	base := flags.base
	if flags.merged != "" && flags.merged != "true" {
		// --merged=<branch> names the merge target directly.
		base = flags.merged
	}

	orch, err := newOrchestrator()
	if err != nil {
		return err
	}

	opts := workon.PruneOptions{
		Selector: prune.Selector{
			Names:  names,
			Gone:   flags.gone,
			Merged: flags.merged != "",
			All:    flags.all,
		},
		Safety: prune.Options{
			AllowDirty:    flags.allowDirty,
			AllowUnpushed: flags.allowUnpushed,
			DryRun:        true, // plan first, execute after confirmation
		},
		BaseBranch: base,
	}

	planned, err := orch.PruneWorktrees(ctx, opts)
	if err != nil {
		return err
	}

	if flags.dryRun || planned.Plan.IsEmpty() || len(planned.Plan.ToRemove) == 0 {
		printPruneResult(planned, flags.dryRun)
		return nil
	}

	if !flags.yes && !confirmRemoval(planned.Plan) {
		return model.NewCLIError(model.ExitUserCancelled, "aborted")
	}

	opts.Safety.DryRun = false
	result, err := orch.PruneWorktrees(ctx, opts)
	if err != nil {
		return err
	}

	printPruneResult(result, false)
	for _, removed := range result.Removed {
		if removed.Err != nil {
			return model.WrapCLIError(model.ExitGitError, "some worktrees could not be removed", removed.Err)
		}
	}
	return nil
}

// confirmRemoval shows the plan and asks for a y/N answer on stdin.
func confirmRemoval(plan model.PrunePlan) bool {
	fmt.Printf("About to remove %d worktree(s):\n", len(plan.ToRemove))
	for _, c := range plan.ToRemove {
		fmt.Printf("  %s (%s)\n", c.Worktree.Path, c.Reason)
	}
	fmt.Print("Continue? [y/N] ")

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// printPruneResult outputs the prune outcome in text or JSON format.
func printPruneResult(result *workon.PruneResult, dryRun bool) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	plan := result.Plan
	if plan.IsEmpty() {
		fmt.Println("Nothing to prune.")
		return
	}

	if dryRun {
		for _, c := range plan.ToRemove {
			fmt.Printf("Would remove %s (%s)\n", c.Worktree.Path, c.Reason)
		}
	} else {
		for _, removed := range result.Removed {
			if removed.Err != nil {
				fmt.Printf("Failed to remove %s: %v\n", removed.Worktree.Path, removed.Err)
			} else {
				fmt.Printf("Removed %s\n", removed.Worktree.Path)
			}
		}
	}

	for _, wt := range plan.SkippedProtected {
		fmt.Printf("Skipped %s: branch %q is protected\n", wt.Path, wt.Branch)
	}
	for _, skipped := range plan.SkippedUnsafe {
		fmt.Printf("Skipped %s: %s\n", skipped.Worktree.Path, skipped.Reason)
	}
}
