package model

import (
	"fmt"
	"strings"
)

// CreationMode describes how a new worktree's branch is brought into
// existence. It is determined by the name resolver from the user's token
// and command flags, and consumed by the git backend.
type CreationMode string

const (
	// ModeNormal checks out an existing branch, or creates a new branch
	// from the base branch (default: repository default branch).
	ModeNormal CreationMode = "normal"

	// ModeOrphan creates a branch with no parent history, seeded with a
	// single empty commit.
	ModeOrphan CreationMode = "orphan"

	// ModeDetached creates a worktree whose HEAD points directly at a
	// commit, with no branch.
	ModeDetached CreationMode = "detached"

	// ModePR creates a branch tracking a pull-request head ref fetched
	// from the remote.
	ModePR CreationMode = "pr"
)

// String returns the string representation of CreationMode.
func (m CreationMode) String() string {
	return string(m)
}

// IsValid checks whether the CreationMode is one of the predefined modes.
func (m CreationMode) IsValid() bool {
	switch m {
	case ModeNormal, ModeOrphan, ModeDetached, ModePR:
		return true
	default:
		return false
	}
}

// ParseCreationMode converts a string to a CreationMode.
// Returns an error if the string does not match any valid mode.
func ParseCreationMode(s string) (CreationMode, error) {
	mode := CreationMode(strings.ToLower(s))
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid creation mode: %q (valid: normal, orphan, detached, pr)", s)
	}
	return mode, nil
}

// Worktree is a point-in-time record of one entry in git's worktree
// registry. Its existence is always a projection of `git worktree list`,
// never a separately persisted record.
type Worktree struct {
	// Name is git's administrative name for the worktree, the base name
	// of its path. Branch names with slashes share only their final
	// segment with the worktree name.
	Name string `json:"name" yaml:"name"`

	// Path is the absolute filesystem path to the worktree directory.
	Path string `json:"path" yaml:"path"`

	// Branch is the short branch name checked out in this worktree.
	// Empty when the worktree is detached or bare.
	Branch string `json:"branch,omitempty" yaml:"branch,omitempty"`

	// Head is the commit SHA the worktree currently points to.
	Head string `json:"head,omitempty" yaml:"head,omitempty"`

	// IsBare marks the bare repository entry that `git worktree list`
	// reports alongside the real worktrees.
	IsBare bool `json:"isBare,omitempty" yaml:"isBare,omitempty"`

	// IsDetached is true when HEAD does not point at a branch ref.
	IsDetached bool `json:"isDetached,omitempty" yaml:"isDetached,omitempty"`
}

// Status is an immutable snapshot of a worktree's safety-relevant state,
// computed by the status describer. Snapshots are never cached across
// invocations; every read re-queries the repository.
type Status struct {
	// IsDetached is true when the worktree's HEAD is not on a branch.
	IsDetached bool `json:"isDetached" yaml:"isDetached"`

	// IsDirty is true when tracked files have staged or unstaged
	// modifications. Untracked files do not make a worktree dirty;
	// carrying them over is the copy engine's concern.
	IsDirty bool `json:"isDirty" yaml:"isDirty"`

	// HasUnpushedCommits is true when the branch tip is not reachable
	// from its remote-tracking ref, or when no remote-tracking branch is
	// configured at all (nothing confirms the work is backed up).
	HasUnpushedCommits bool `json:"hasUnpushedCommits" yaml:"hasUnpushedCommits"`

	// IsMerged is true when every commit reachable from the branch tip
	// is also reachable from the base branch. A detached worktree is
	// never merged.
	IsMerged bool `json:"isMerged" yaml:"isMerged"`

	// UpstreamGone is true when a remote-tracking branch is configured
	// but its ref no longer exists (deleted on the remote).
	UpstreamGone bool `json:"upstreamGone" yaml:"upstreamGone"`
}

// UnsafeReason records which safety gates a prune candidate failed.
// Both flags may be set at once.
type UnsafeReason struct {
	Dirty    bool `json:"dirty" yaml:"dirty"`
	Unpushed bool `json:"unpushed" yaml:"unpushed"`
}

// String returns a human-readable reason list, e.g. "dirty, unpushed".
func (r UnsafeReason) String() string {
	var parts []string
	if r.Dirty {
		parts = append(parts, "dirty")
	}
	if r.Unpushed {
		parts = append(parts, "unpushed")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// SelectionReason records why a worktree was selected for pruning.
type SelectionReason string

const (
	// SelectedExplicit means the user named this worktree directly.
	SelectedExplicit SelectionReason = "explicitly requested"

	// SelectedGone means the branch's remote-tracking ref was deleted.
	SelectedGone SelectionReason = "remote gone"

	// SelectedMerged means the branch is fully merged into the base branch.
	SelectedMerged SelectionReason = "merged"

	// SelectedAll means the bulk "all worktrees" selector matched.
	SelectedAll SelectionReason = "all"
)

// PruneCandidate is a worktree slated for removal, with the selection
// reason preserved for reporting.
type PruneCandidate struct {
	Worktree Worktree        `json:"worktree" yaml:"worktree"`
	Reason   SelectionReason `json:"reason" yaml:"reason"`
}

// SkippedWorktree is a selected worktree that a safety gate refused to
// remove, tagged with the specific reason(s).
type SkippedWorktree struct {
	Worktree Worktree     `json:"worktree" yaml:"worktree"`
	Reason   UnsafeReason `json:"reason" yaml:"reason"`
}

// PrunePlan is the prune engine's output: three disjoint ordered
// partitions of the selected worktrees, plus the dry-run flag. The order
// of each list matches enumeration order, which keeps reporting and
// removal deterministic.
type PrunePlan struct {
	ToRemove         []PruneCandidate  `json:"toRemove" yaml:"toRemove"`
	SkippedProtected []Worktree        `json:"skippedProtected" yaml:"skippedProtected"`
	SkippedUnsafe    []SkippedWorktree `json:"skippedUnsafe" yaml:"skippedUnsafe"`
	IsDryRun         bool              `json:"dryRun" yaml:"dryRun"`
}

// IsEmpty reports whether the plan selected nothing at all.
func (p PrunePlan) IsEmpty() bool {
	return len(p.ToRemove) == 0 && len(p.SkippedProtected) == 0 && len(p.SkippedUnsafe) == 0
}

// RemovalResult is the per-item outcome of executing a prune plan.
// Removal is best-effort: a failure on one worktree is recorded here and
// does not abort removal of the remaining ones.
type RemovalResult struct {
	Worktree Worktree `json:"worktree" yaml:"worktree"`
	Err      error    `json:"-" yaml:"-"`
}
