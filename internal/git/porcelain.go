package git

import (
	"path/filepath"
	"strings"

	"github.com/lettertwo/git-workon/internal/model"
)

// parseWorktreeList parses the output of `git worktree list --porcelain`
// into worktree records.
//
// The porcelain format separates worktree blocks with blank lines. Within
// a block, each line is a space-separated key/value pair, with standalone
// markers for "bare" and "detached":
//
//	worktree /path/to/feature
//	HEAD abc123
//	branch refs/heads/feature
func parseWorktreeList(output string) []model.Worktree {
	var worktrees []model.Worktree

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")

	var current *model.Worktree
	flush := func() {
		if current != nil {
			current.Name = filepath.Base(current.Path)
			worktrees = append(worktrees, *current)
			current = nil
		}
	}

	for _, line := range lines {
		if line == "" {
			flush()
			continue
		}

		key, value, _ := strings.Cut(line, " ")
		switch key {
		case "worktree":
			flush()
			current = &model.Worktree{Path: value}
		case "HEAD":
			if current != nil {
				current.Head = value
			}
		case "branch":
			if current != nil {
				current.Branch = strings.TrimPrefix(value, "refs/heads/")
			}
		case "bare":
			if current != nil {
				current.IsBare = true
			}
		case "detached":
			if current != nil {
				current.IsDetached = true
			}
		}
	}
	flush()

	return worktrees
}

// parseTrackedDirty reports whether `git status --porcelain` output shows
// any tracked-file modification, staged or unstaged. Untracked files
// ("??" entries) are deliberately excluded: they do not make a worktree
// dirty for safety purposes, and carrying them over is the copy engine's
// concern.
func parseTrackedDirty(output string) bool {
	for _, line := range strings.Split(output, "\n") {
		if len(line) < 2 {
			continue
		}
		if strings.HasPrefix(line, "??") || strings.HasPrefix(line, "!!") {
			continue
		}
		return true
	}
	return false
}

// parseAheadBehind parses `git rev-list --left-right --count A...B`
// output of the form "2\t1" into (ahead, behind).
func parseAheadBehind(output string) (ahead, behind int) {
	fields := strings.Fields(strings.TrimSpace(output))
	if len(fields) != 2 {
		return 0, 0
	}
	ahead = atoi(fields[0])
	behind = atoi(fields[1])
	return ahead, behind
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
