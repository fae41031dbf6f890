package git

import "errors"

// Sentinel errors for conditions callers branch on.
var (
	// ErrNotARepository is returned when the starting directory is not
	// inside any git repository or worktree.
	ErrNotARepository = errors.New("not in a git repository")

	// ErrNoDefaultBranch is returned when neither init.defaultBranch nor
	// a "main" or "master" branch can identify the default branch.
	ErrNoDefaultBranch = errors.New("could not determine default branch: neither 'main' nor 'master' exist, and init.defaultBranch is not configured")

	// ErrNoRemote is returned when an operation needs a remote but none
	// is configured.
	ErrNoRemote = errors.New("no git remote configured")
)
