// Package prune plans and executes bulk worktree removal. Planning is a
// pure function over pre-computed statuses, so every decision can be
// shown to the user (and tested) without touching the repository;
// execution applies a plan through the git backend, best-effort.
package prune

import (
	"github.com/lettertwo/git-workon/internal/model"
	"github.com/lettertwo/git-workon/internal/protect"
)

// Selector describes which worktrees a prune run targets. Names is
// explicit selection; Gone, Merged and All are bulk selectors. Bulk
// selectors never pick detached worktrees, since those have no branch to
// judge; explicit names always can.
type Selector struct {
	Names  []string
	Gone   bool
	Merged bool
	All    bool
}

// Options are the safety and execution switches for a prune run.
type Options struct {
	AllowDirty    bool
	AllowUnpushed bool
	DryRun        bool
}

// Candidate pairs a worktree with its computed status for planning.
type Candidate struct {
	Worktree model.Worktree
	Status   model.Status
}

// BuildPlan partitions the candidates into the three plan buckets.
//
// Gates apply in a fixed order per worktree: selection, then protection,
// then safety. A worktree rejected by an earlier gate never reaches a
// later one, so a protected branch is reported as protected even when it
// is also dirty. The base branch's worktree counts as protected
// regardless of patterns. Unsafe worktrees carry every reason that
// applies, not just the first.
func BuildPlan(candidates []Candidate, sel Selector, protectedPatterns []string, baseBranch string, opts Options) model.PrunePlan {
	plan := model.PrunePlan{IsDryRun: opts.DryRun}

	for _, c := range candidates {
		reason, selected := selects(sel, c)
		if !selected {
			continue
		}

		if isProtected(c.Worktree, protectedPatterns, baseBranch) {
			plan.SkippedProtected = append(plan.SkippedProtected, c.Worktree)
			continue
		}

		unsafe := model.UnsafeReason{
			Dirty:    c.Status.IsDirty && !opts.AllowDirty,
			Unpushed: c.Status.HasUnpushedCommits && !opts.AllowUnpushed,
		}
		if unsafe.Dirty || unsafe.Unpushed {
			plan.SkippedUnsafe = append(plan.SkippedUnsafe, model.SkippedWorktree{
				Worktree: c.Worktree,
				Reason:   unsafe,
			})
			continue
		}

		plan.ToRemove = append(plan.ToRemove, model.PruneCandidate{
			Worktree: c.Worktree,
			Reason:   reason,
		})
	}

	return plan
}

// selects decides whether a candidate matches the selector and with what
// reason. Explicit names take priority over bulk selectors in reporting.
func selects(sel Selector, c Candidate) (model.SelectionReason, bool) {
	for _, name := range sel.Names {
		if name == c.Worktree.Name || name == c.Worktree.Branch {
			return model.SelectedExplicit, true
		}
	}
	if c.Worktree.IsDetached {
		return "", false
	}
	if sel.All {
		return model.SelectedAll, true
	}
	if sel.Gone && c.Status.UpstreamGone {
		return model.SelectedGone, true
	}
	if sel.Merged && c.Status.IsMerged {
		return model.SelectedMerged, true
	}
	return "", false
}

func isProtected(wt model.Worktree, patterns []string, baseBranch string) bool {
	if wt.Branch == "" {
		return false
	}
	if baseBranch != "" && wt.Branch == baseBranch {
		return true
	}
	return protect.IsProtected(wt.Branch, patterns)
}

// RemoveFunc removes one worktree by path. force is set when the caller
// explicitly allowed removing dirty worktrees.
type RemoveFunc func(path string, force bool) error

// ExecutePlan removes every worktree in the plan's ToRemove partition,
// in order. Failures are recorded per item and do not stop the run.
// A dry-run plan is never executed; callers check IsDryRun first.
func ExecutePlan(plan model.PrunePlan, remove RemoveFunc, force bool) []model.RemovalResult {
	results := make([]model.RemovalResult, 0, len(plan.ToRemove))
	for _, c := range plan.ToRemove {
		results = append(results, model.RemovalResult{
			Worktree: c.Worktree,
			Err:      remove(c.Worktree.Path, force),
		})
	}
	return results
}
