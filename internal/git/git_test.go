package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// runTestGit runs a git command in the given directory and fails the
// test immediately on a non-zero exit.
func runTestGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
	return string(output)
}

// setupTestRepo creates a repository on branch main with one commit.
// A local user identity is configured so commits work without a global
// git config (e.g. in CI).
func setupTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	runTestGit(t, dir, "init", "-b", "main")
	runTestGit(t, dir, "config", "user.email", "test@example.com")
	runTestGit(t, dir, "config", "user.name", "Test User")

	readme := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("# Test Repo\n"), 0o644))
	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", "initial commit")

	return dir
}

func openTestRepo(t *testing.T, dir string) *Repo {
	t.Helper()
	repo, err := Open(dir, zap.NewNop())
	require.NoError(t, err)
	return repo
}

func TestOpenNonRepository(t *testing.T) {
	_, err := Open(t.TempDir(), nil)
	assert.ErrorIs(t, err, ErrNotARepository)
}

func TestOpenBareLayout(t *testing.T) {
	seed := setupTestRepo(t)

	root := t.TempDir()
	bare := filepath.Join(root, ".bare")
	runTestGit(t, seed, "clone", "--bare", seed, bare)

	repo := openTestRepo(t, bare)

	// The workon root is the directory holding the bare store, where
	// worktrees are laid out as siblings.
	assert.Equal(t, root, repo.Root())
	assert.Equal(t, bare, repo.GitDir())
}

func TestListWorktrees(t *testing.T) {
	dir := setupTestRepo(t)
	repo := openTestRepo(t, dir)

	path := filepath.Join(t.TempDir(), "feature")
	require.NoError(t, repo.CreateWorktree(path, "feature", "normal", ""))

	worktrees, err := repo.ListWorktrees()
	require.NoError(t, err)
	require.Len(t, worktrees, 2)

	assert.Equal(t, "main", worktrees[0].Branch)
	assert.Equal(t, "feature", worktrees[1].Branch)
	assert.Equal(t, path, worktrees[1].Path)
}

func TestCreateWorktreeNewBranch(t *testing.T) {
	dir := setupTestRepo(t)
	repo := openTestRepo(t, dir)

	path := filepath.Join(t.TempDir(), "feature-auth")
	require.NoError(t, repo.CreateWorktree(path, "feature-auth", "normal", "main"))

	branch, err := repo.CurrentBranch(path)
	require.NoError(t, err)
	assert.Equal(t, "feature-auth", branch)
	assert.True(t, repo.BranchExists("feature-auth"))
}

func TestCreateWorktreeExistingBranch(t *testing.T) {
	dir := setupTestRepo(t)
	runTestGit(t, dir, "branch", "existing")
	repo := openTestRepo(t, dir)

	path := filepath.Join(t.TempDir(), "existing")
	require.NoError(t, repo.CreateWorktree(path, "existing", "normal", ""))

	branch, err := repo.CurrentBranch(path)
	require.NoError(t, err)
	assert.Equal(t, "existing", branch)
}

func TestCreateWorktreeNamespacedBranch(t *testing.T) {
	dir := setupTestRepo(t)
	repo := openTestRepo(t, dir)

	// Intermediate directories must be created for nested paths.
	path := filepath.Join(t.TempDir(), "team", "login-fix")
	require.NoError(t, repo.CreateWorktree(path, "team/login-fix", "normal", "main"))

	branch, err := repo.CurrentBranch(path)
	require.NoError(t, err)
	assert.Equal(t, "team/login-fix", branch)
}

func TestCreateWorktreeDetached(t *testing.T) {
	dir := setupTestRepo(t)
	repo := openTestRepo(t, dir)

	path := filepath.Join(t.TempDir(), "scratch")
	require.NoError(t, repo.CreateWorktree(path, "", "detached", ""))

	branch, err := repo.CurrentBranch(path)
	require.NoError(t, err)
	assert.Equal(t, "HEAD", branch)
}

func TestCreateWorktreeOrphan(t *testing.T) {
	dir := setupTestRepo(t)
	repo := openTestRepo(t, dir)

	path := filepath.Join(t.TempDir(), "docs")
	require.NoError(t, repo.CreateWorktree(path, "docs", "orphan", ""))

	branch, err := repo.CurrentBranch(path)
	require.NoError(t, err)
	assert.Equal(t, "docs", branch)

	// Orphan history starts fresh with a single empty commit.
	count := runTestGit(t, path, "rev-list", "--count", "HEAD")
	assert.Equal(t, "1\n", count)

	// The original tree must not leak into the orphan worktree.
	_, err = os.Stat(filepath.Join(path, "README.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveWorktree(t *testing.T) {
	dir := setupTestRepo(t)
	repo := openTestRepo(t, dir)

	path := filepath.Join(t.TempDir(), "doomed")
	require.NoError(t, repo.CreateWorktree(path, "doomed", "normal", ""))
	require.NoError(t, repo.RemoveWorktree(path, false))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	worktrees, err := repo.ListWorktrees()
	require.NoError(t, err)
	assert.Len(t, worktrees, 1)
}

func TestRemoveWorktreeDirtyNeedsForce(t *testing.T) {
	dir := setupTestRepo(t)
	repo := openTestRepo(t, dir)

	path := filepath.Join(t.TempDir(), "dirty")
	require.NoError(t, repo.CreateWorktree(path, "dirty", "normal", ""))
	require.NoError(t, os.WriteFile(filepath.Join(path, "README.md"), []byte("changed\n"), 0o644))

	assert.Error(t, repo.RemoveWorktree(path, false))
	assert.NoError(t, repo.RemoveWorktree(path, true))
}

func TestIsDirty(t *testing.T) {
	dir := setupTestRepo(t)
	repo := openTestRepo(t, dir)

	dirty, err := repo.IsDirty(dir)
	require.NoError(t, err)
	assert.False(t, dirty)

	// Untracked files do not count as dirty.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "untracked.txt"), []byte("x\n"), 0o644))
	dirty, err = repo.IsDirty(dir)
	require.NoError(t, err)
	assert.False(t, dirty)

	// Modifying a tracked file does.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("changed\n"), 0o644))
	dirty, err = repo.IsDirty(dir)
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestBranchExists(t *testing.T) {
	dir := setupTestRepo(t)
	repo := openTestRepo(t, dir)

	assert.True(t, repo.BranchExists("main"))
	assert.False(t, repo.BranchExists("nope"))
}

func TestIsAncestor(t *testing.T) {
	dir := setupTestRepo(t)
	runTestGit(t, dir, "branch", "merged")

	runTestGit(t, dir, "checkout", "-b", "unmerged")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.txt"), []byte("x\n"), 0o644))
	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", "extra work")
	runTestGit(t, dir, "checkout", "main")

	repo := openTestRepo(t, dir)

	merged, err := repo.IsAncestor("merged", "main")
	require.NoError(t, err)
	assert.True(t, merged)

	unmerged, err := repo.IsAncestor("unmerged", "main")
	require.NoError(t, err)
	assert.False(t, unmerged)

	// A missing branch is simply not merged.
	missing, err := repo.IsAncestor("nope", "main")
	require.NoError(t, err)
	assert.False(t, missing)
}

func TestUpstreamOf(t *testing.T) {
	dir := setupTestRepo(t)

	// Point a remote at the repository itself to get real tracking refs.
	runTestGit(t, dir, "remote", "add", "origin", dir)
	runTestGit(t, dir, "fetch", "origin")
	runTestGit(t, dir, "branch", "--set-upstream-to=origin/main", "main")

	repo := openTestRepo(t, dir)

	up, err := repo.UpstreamOf("main")
	require.NoError(t, err)
	require.NotNil(t, up)
	assert.Equal(t, "origin", up.Remote)
	assert.Equal(t, "refs/remotes/origin/main", up.Ref)
	assert.False(t, up.Gone)

	// No upstream configured at all.
	runTestGit(t, dir, "branch", "loner")
	none, err := repo.UpstreamOf("loner")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestUpstreamGone(t *testing.T) {
	dir := setupTestRepo(t)
	runTestGit(t, dir, "remote", "add", "origin", dir)
	runTestGit(t, dir, "fetch", "origin")
	runTestGit(t, dir, "branch", "--set-upstream-to=origin/main", "main")
	runTestGit(t, dir, "update-ref", "-d", "refs/remotes/origin/main")

	repo := openTestRepo(t, dir)

	up, err := repo.UpstreamOf("main")
	require.NoError(t, err)
	require.NotNil(t, up)
	assert.True(t, up.Gone)
}

func TestAheadBehind(t *testing.T) {
	dir := setupTestRepo(t)
	runTestGit(t, dir, "remote", "add", "origin", dir)
	runTestGit(t, dir, "fetch", "origin")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x\n"), 0o644))
	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", "local work")

	repo := openTestRepo(t, dir)

	ahead, behind, err := repo.AheadBehind("main", "origin/main")
	require.NoError(t, err)
	assert.Equal(t, 1, ahead)
	assert.Zero(t, behind)
}

func TestRemotesOrdering(t *testing.T) {
	dir := setupTestRepo(t)
	runTestGit(t, dir, "remote", "add", "zeta", dir)
	runTestGit(t, dir, "remote", "add", "origin", dir)
	runTestGit(t, dir, "remote", "add", "upstream", dir)
	runTestGit(t, dir, "remote", "add", "alpha", dir)

	repo := openTestRepo(t, dir)

	remotes, err := repo.Remotes()
	require.NoError(t, err)
	assert.Equal(t, []string{"upstream", "origin", "alpha", "zeta"}, remotes)
}

func TestDetectDefaultBranch(t *testing.T) {
	dir := setupTestRepo(t)
	repo := openTestRepo(t, dir)

	branch, err := repo.DetectDefaultBranch()
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}
