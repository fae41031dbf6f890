package hook

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("hook tests use sh")
	}
}

func TestRunExecutesInWorktree(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	r := &Runner{Log: zap.NewNop()}

	results := r.Run(context.Background(), []string{"touch created.txt"}, dir, Env{})
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	_, err := os.Stat(filepath.Join(dir, "created.txt"))
	assert.NoError(t, err)
}

func TestRunExportsEnvironment(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	r := &Runner{Log: zap.NewNop()}

	env := Env{
		WorktreePath: "/wt/feature",
		BranchName:   "feature",
		BaseBranch:   "main",
	}
	results := r.Run(context.Background(),
		[]string{"echo $WORKON_WORKTREE_PATH $WORKON_BRANCH_NAME $WORKON_BASE_BRANCH"}, dir, env)

	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "/wt/feature feature main\n", results[0].Output)
}

// A failing command is recorded but does not stop later commands.
func TestRunContinuesAfterFailure(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	r := &Runner{Log: zap.NewNop()}

	results := r.Run(context.Background(), []string{"exit 3", "echo still here"}, dir, Env{})
	require.Len(t, results, 2)

	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, "still here\n", results[1].Output)
}

func TestRunTimeout(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	r := &Runner{Timeout: 100 * time.Millisecond, Log: zap.NewNop()}

	start := time.Now()
	results := r.Run(context.Background(), []string{"sleep 5"}, dir, Env{})

	require.Len(t, results, 1)
	assert.True(t, results[0].TimedOut)
	assert.Error(t, results[0].Err)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestRunZeroTimeoutMeansNone(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	r := &Runner{Timeout: 0, Log: zap.NewNop()}

	results := r.Run(context.Background(), []string{"sleep 0.2 && echo done"}, dir, Env{})
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.False(t, results[0].TimedOut)
}

func TestRunNoCommands(t *testing.T) {
	r := &Runner{Log: zap.NewNop()}
	assert.Empty(t, r.Run(context.Background(), nil, t.TempDir(), Env{}))
}
