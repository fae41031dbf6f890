// Package cli — list.go implements the "git workon list" command.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lettertwo/git-workon/internal/workon"
)

// listFlags holds the flag values for the list command.
type listFlags struct {
	output string // --output: text, json, or yaml
}

// NewListCommand creates the "list" cobra command.
func NewListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List worktrees with their branch and safety status",
		Long: `List every worktree with its branch, head commit, and status flags:
dirty (uncommitted tracked changes), unpushed (commits not on the
upstream), merged (fully merged into the base branch), and gone
(upstream branch deleted).`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output format: text, json, or yaml")

	return cmd
}

// runList enumerates worktrees and prints them.
func runList(ctx context.Context, flags *listFlags) error {
	format, err := resolveFormat(flags.output)
	if err != nil {
		return err
	}

	orch, err := newOrchestrator()
	if err != nil {
		return err
	}

	infos, base, err := orch.ListWorktrees(ctx)
	if err != nil {
		return err
	}

	if format != outputText {
		return renderStructured(format, struct {
			BaseBranch string                `json:"baseBranch,omitempty" yaml:"baseBranch,omitempty"`
			Worktrees  []workon.WorktreeInfo `json:"worktrees" yaml:"worktrees"`
		}{BaseBranch: base, Worktrees: infos})
	}

	if len(infos) == 0 {
		fmt.Println("No worktrees.")
		return nil
	}

	for _, info := range infos {
		branch := info.Worktree.Branch
		if info.Worktree.IsDetached {
			branch = "(detached)"
		}
		fmt.Printf("%-30s %-25s %s\n", info.Worktree.Name, branch, statusFlags(info))
	}
	return nil
}

// statusFlags renders the status booleans as a compact flag list.
func statusFlags(info workon.WorktreeInfo) string {
	var parts []string
	if info.Status.IsDirty {
		parts = append(parts, "dirty")
	}
	if info.Status.HasUnpushedCommits {
		parts = append(parts, "unpushed")
	}
	if info.Status.IsMerged {
		parts = append(parts, "merged")
	}
	if info.Status.UpstreamGone {
		parts = append(parts, "gone")
	}
	if len(parts) == 0 {
		return "clean"
	}
	return strings.Join(parts, ",")
}
