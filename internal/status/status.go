// Package status derives the safety-relevant state of a worktree: dirty
// files, unpushed commits, merged-into-base, and upstream liveness. The
// prune engine consumes these descriptors to decide what is safe to
// remove.
package status

import (
	"github.com/lettertwo/git-workon/internal/git"
	"github.com/lettertwo/git-workon/internal/model"
)

// Reader is the subset of the git backend status derivation needs.
type Reader interface {
	IsDirty(path string) (bool, error)
	UpstreamOf(branch string) (*git.Upstream, error)
	AheadBehind(local, upstream string) (int, int, error)
	IsAncestor(branch, base string) (bool, error)
}

// Describe computes the full status of one worktree against the base
// branch.
//
// Dirtiness counts tracked changes only; untracked and ignored files do
// not block removal. A branch with no upstream configured is reported as
// having unpushed commits, since nothing remote holds its history. A
// detached worktree has no branch to compare, so it is never merged and
// never unpushed.
func Describe(r Reader, wt model.Worktree, base string) (model.Status, error) {
	st := model.Status{IsDetached: wt.IsDetached}

	dirty, err := r.IsDirty(wt.Path)
	if err != nil {
		return model.Status{}, err
	}
	st.IsDirty = dirty

	if wt.IsDetached || wt.Branch == "" {
		return st, nil
	}

	up, err := r.UpstreamOf(wt.Branch)
	if err != nil {
		return model.Status{}, err
	}
	switch {
	case up == nil:
		// No upstream means no remote copy of this history exists.
		st.HasUnpushedCommits = true
	case up.Gone:
		st.UpstreamGone = true
		st.HasUnpushedCommits = true
	default:
		ahead, _, err := r.AheadBehind(wt.Branch, up.Ref)
		if err != nil {
			return model.Status{}, err
		}
		st.HasUnpushedCommits = ahead > 0
	}

	if base != "" && wt.Branch != base {
		merged, err := r.IsAncestor(wt.Branch, base)
		if err != nil {
			return model.Status{}, err
		}
		st.IsMerged = merged
	}

	return st, nil
}
