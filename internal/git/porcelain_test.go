package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWorktreeList(t *testing.T) {
	output := `worktree /repos/project/.bare
bare

worktree /repos/project/main
HEAD abc1234567890
branch refs/heads/main

worktree /repos/project/team/login
HEAD def1234567890
branch refs/heads/team/login

worktree /repos/project/scratch
HEAD fed0987654321
detached
`

	worktrees := parseWorktreeList(output)
	assert.Len(t, worktrees, 4)

	bare := worktrees[0]
	assert.True(t, bare.IsBare)
	assert.Equal(t, "/repos/project/.bare", bare.Path)
	assert.Equal(t, ".bare", bare.Name)

	main := worktrees[1]
	assert.Equal(t, "main", main.Branch)
	assert.Equal(t, "abc1234567890", main.Head)
	assert.False(t, main.IsBare)
	assert.False(t, main.IsDetached)

	// Namespaced branch: the name is only the final path segment.
	namespaced := worktrees[2]
	assert.Equal(t, "team/login", namespaced.Branch)
	assert.Equal(t, "login", namespaced.Name)

	detached := worktrees[3]
	assert.True(t, detached.IsDetached)
	assert.Empty(t, detached.Branch)
}

func TestParseWorktreeListEmpty(t *testing.T) {
	assert.Empty(t, parseWorktreeList(""))
	assert.Empty(t, parseWorktreeList("\n"))
}

func TestParseTrackedDirty(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   bool
	}{
		{"clean", "", false},
		{"untracked only", "?? new-file.txt\n", false},
		{"ignored only", "!! build/\n", false},
		{"modified", " M main.go\n", true},
		{"staged", "M  main.go\n", true},
		{"deleted", " D gone.go\n", true},
		{"mixed untracked and modified", "?? new.txt\n M main.go\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseTrackedDirty(tt.output))
		})
	}
}

func TestParseAheadBehind(t *testing.T) {
	ahead, behind := parseAheadBehind("2\t1\n")
	assert.Equal(t, 2, ahead)
	assert.Equal(t, 1, behind)

	ahead, behind = parseAheadBehind("0\t0\n")
	assert.Zero(t, ahead)
	assert.Zero(t, behind)

	ahead, behind = parseAheadBehind("garbage")
	assert.Zero(t, ahead)
	assert.Zero(t, behind)
}
