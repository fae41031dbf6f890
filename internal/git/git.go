package git

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"

	"github.com/lettertwo/git-workon/internal/model"
)

// Upstream describes a branch's configured remote-tracking branch.
type Upstream struct {
	// Remote is the branch.<name>.remote value, e.g. "origin".
	Remote string

	// Merge is the branch.<name>.merge ref, e.g. "refs/heads/feature".
	Merge string

	// Ref is the local remote-tracking ref name,
	// e.g. "refs/remotes/origin/feature".
	Ref string

	// Gone is true when the upstream is configured but its tracking ref
	// no longer exists (deleted on the remote and pruned locally).
	Gone bool
}

// Backend is the contract the lifecycle engine consumes. All repository
// mutations and reads go through it; no other component touches git
// state directly. The *Repo type is the real implementation; tests use
// fakes.
type Backend interface {
	// Root returns the workon root: the directory under which worktrees
	// are laid out as siblings of the shared object store.
	Root() string

	// ListWorktrees enumerates git's worktree registry, including the
	// bare entry.
	ListWorktrees() ([]model.Worktree, error)

	// CreateWorktree creates a worktree at path for branch according to
	// mode. startPoint is the ref or commit to start from; empty means
	// HEAD (normal/detached) and is required for PR mode.
	CreateWorktree(path, branch string, mode model.CreationMode, startPoint string) error

	// RemoveWorktree removes the worktree at path. force is required for
	// worktrees git considers dirty.
	RemoveWorktree(path string, force bool) error

	// CurrentBranch returns the short branch name checked out at path,
	// or "HEAD" if detached.
	CurrentBranch(path string) (string, error)

	// IsDirty reports whether tracked files at path have staged or
	// unstaged modifications. Untracked files are excluded.
	IsDirty(path string) (bool, error)

	// BranchExists reports whether a local branch exists.
	BranchExists(branch string) bool

	// RemoteBranchFor returns "<remote>/<branch>" for the first remote
	// that has a tracking ref for branch, if any.
	RemoteBranchFor(branch string) (string, bool)

	// HasRef reports whether the given full ref name exists.
	HasRef(name string) bool

	// AheadBehind counts commits only on local vs only on upstream.
	AheadBehind(local, upstream string) (ahead, behind int, err error)

	// UpstreamOf returns the configured upstream of a branch, or nil if
	// no remote-tracking branch is configured.
	UpstreamOf(branch string) (*Upstream, error)

	// IsAncestor reports whether every commit reachable from branch is
	// also reachable from base (branch tip is an ancestor of, or equal
	// to, base tip).
	IsAncestor(branch, base string) (bool, error)

	// Remotes returns remote names, ordered "upstream" first, then
	// "origin", then the rest sorted.
	Remotes() ([]string, error)

	// FetchRef fetches a single refspec from the named remote.
	FetchRef(remote, refspec string) error

	// DetectDefaultBranch resolves the repository default branch:
	// init.defaultBranch if that branch exists, then "main", then
	// "master".
	DetectDefaultBranch() (string, error)
}

// Repo is the git-CLI + go-git backed Backend implementation.
type Repo struct {
	gitDir string // absolute common git directory (the shared object store)
	root   string // workon root, see workonRoot
	repo   *gogit.Repository
	log    *zap.Logger
}

var _ Backend = (*Repo)(nil)

// Open locates the repository containing dir and prepares a backend for
// it. Works from the bare repository, the main worktree, or any linked
// worktree.
func Open(dir string, log *zap.Logger) (*Repo, error) {
	if log == nil {
		log = zap.NewNop()
	}

	commonOut, err := runGit(dir, "rev-parse", "--git-common-dir")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotARepository, dir)
	}
	gitDir := strings.TrimSpace(commonOut)
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(dir, gitDir)
	}
	gitDir = filepath.Clean(gitDir)

	// Opening the common dir directly works for both bare stores and
	// .git directories of a regular checkout.
	repo, err := gogit.PlainOpen(gitDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotARepository, dir)
	}

	// --show-toplevel fails inside a bare repository; that's fine, the
	// root derives from the git dir alone in that case.
	workdir := ""
	if topOut, topErr := runGit(dir, "rev-parse", "--show-toplevel"); topErr == nil {
		workdir = strings.TrimSpace(topOut)
	}

	r := &Repo{
		gitDir: gitDir,
		root:   workonRoot(gitDir, workdir),
		repo:   repo,
		log:    log,
	}
	log.Debug("opened repository",
		zap.String("gitDir", r.gitDir),
		zap.String("root", r.root))
	return r, nil
}

// workonRoot derives the directory under which worktrees live. For a bare
// store at <root>/.bare (or <root>/repo.git) this is <root>: the deepest
// common ancestor of the git dir and the current working tree, falling
// back to the git dir's parent.
func workonRoot(gitDir, workdir string) string {
	if workdir != "" && workdir != gitDir {
		gitAncestors := map[string]bool{}
		for p := gitDir; ; p = filepath.Dir(p) {
			gitAncestors[p] = true
			if p == filepath.Dir(p) {
				break
			}
		}
		for p := workdir; ; p = filepath.Dir(p) {
			if gitAncestors[p] {
				return p
			}
			if p == filepath.Dir(p) {
				break
			}
		}
	}
	return filepath.Dir(gitDir)
}

// Root returns the workon root directory.
func (r *Repo) Root() string {
	return r.root
}

// GitDir returns the absolute common git directory.
func (r *Repo) GitDir() string {
	return r.gitDir
}

// Repository exposes the underlying go-git handle for the config store.
func (r *Repo) Repository() *gogit.Repository {
	return r.repo
}

// ListWorktrees enumerates the worktree registry via
// `git worktree list --porcelain`.
func (r *Repo) ListWorktrees() ([]model.Worktree, error) {
	out, err := runGit(r.gitDir, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parseWorktreeList(out), nil
}

// CreateWorktree creates a worktree for branch at path.
//
// Normal mode checks out an existing local branch, tracks a matching
// remote branch, or creates a new branch from startPoint (HEAD when
// empty). PR mode always creates the branch from startPoint. Detached
// mode takes no branch. Orphan mode produces a branch with no parent
// history, seeded with one empty commit.
func (r *Repo) CreateWorktree(path, branch string, mode model.CreationMode, startPoint string) error {
	// Namespaced branch names become nested directories; git will not
	// create intermediate path components itself.
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &model.GitBackendError{Op: "worktree add", Err: err}
	}

	r.log.Debug("creating worktree",
		zap.String("path", path),
		zap.String("branch", branch),
		zap.String("mode", mode.String()),
		zap.String("startPoint", startPoint))

	switch mode {
	case model.ModeDetached:
		args := []string{"worktree", "add", "--detach", path}
		if startPoint != "" {
			args = append(args, startPoint)
		}
		_, err := runGit(r.gitDir, args...)
		return err

	case model.ModeOrphan:
		return r.createOrphanWorktree(path, branch)

	case model.ModePR:
		_, err := runGit(r.gitDir, "worktree", "add", "-b", branch, path, startPoint)
		return err

	default: // model.ModeNormal
		if r.BranchExists(branch) {
			_, err := runGit(r.gitDir, "worktree", "add", path, branch)
			return err
		}
		if remoteBranch, ok := r.RemoteBranchFor(branch); ok {
			_, err := runGit(r.gitDir, "worktree", "add", "--track", "-b", branch, path, remoteBranch)
			return err
		}
		args := []string{"worktree", "add", "-b", branch, path}
		if startPoint != "" {
			args = append(args, startPoint)
		}
		_, err := runGit(r.gitDir, args...)
		return err
	}
}

// createOrphanWorktree builds an orphan branch: a detached worktree is
// re-pointed at an unborn branch, its contents and index are cleared, and
// a single empty commit seeds the new history.
func (r *Repo) createOrphanWorktree(path, branch string) error {
	if _, err := runGit(r.gitDir, "worktree", "add", "--detach", path); err != nil {
		return err
	}
	if _, err := runGit(path, "checkout", "--orphan", branch); err != nil {
		return err
	}
	// The orphan checkout keeps the previous tree staged; drop it.
	_, _ = runGit(path, "rm", "-rf", "-q", "--cached", ".")
	if err := clearWorkdir(path); err != nil {
		return &model.GitBackendError{Op: "worktree add --orphan", Err: err}
	}
	_, err := runGit(path, "commit", "--allow-empty", "-m", "Initial commit")
	return err
}

// clearWorkdir removes everything in dir except the .git link.
func clearWorkdir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.Name() == ".git" {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// RemoveWorktree removes the worktree at path and its administrative
// files. force is needed when git considers the worktree dirty.
func (r *Repo) RemoveWorktree(path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	_, err := runGit(r.gitDir, args...)
	return err
}

// CurrentBranch returns the short branch name checked out at path.
// Returns "HEAD" for a detached worktree.
func (r *Repo) CurrentBranch(path string) (string, error) {
	out, err := runGit(path, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// IsDirty reports tracked-file modifications at path.
func (r *Repo) IsDirty(path string) (bool, error) {
	out, err := runGit(path, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return parseTrackedDirty(out), nil
}

// BranchExists reports whether a local branch ref exists.
func (r *Repo) BranchExists(branch string) bool {
	_, err := r.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	return err == nil
}

// RemoteBranchFor finds "<remote>/<branch>" on the first remote (in
// Remotes order) with a tracking ref for branch.
func (r *Repo) RemoteBranchFor(branch string) (string, bool) {
	remotes, err := r.Remotes()
	if err != nil {
		return "", false
	}
	for _, remote := range remotes {
		ref := plumbing.NewRemoteReferenceName(remote, branch)
		if _, err := r.repo.Reference(ref, true); err == nil {
			return remote + "/" + branch, true
		}
	}
	return "", false
}

// HasRef reports whether the full ref name exists.
func (r *Repo) HasRef(name string) bool {
	_, err := r.repo.Reference(plumbing.ReferenceName(name), true)
	return err == nil
}

// AheadBehind counts commits only reachable from local (ahead) and only
// reachable from upstream (behind), via
// `git rev-list --left-right --count local...upstream`.
func (r *Repo) AheadBehind(local, upstream string) (int, int, error) {
	out, err := runGit(r.gitDir, "rev-list", "--left-right", "--count", local+"..."+upstream)
	if err != nil {
		return 0, 0, err
	}
	ahead, behind := parseAheadBehind(out)
	return ahead, behind, nil
}

// UpstreamOf reads branch.<name>.remote and branch.<name>.merge from the
// repository config. Returns nil when no upstream is configured.
func (r *Repo) UpstreamOf(branch string) (*Upstream, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return nil, &model.GitBackendError{Op: "config", Err: err}
	}

	bc, ok := cfg.Branches[branch]
	if !ok || bc.Remote == "" || bc.Merge == "" {
		return nil, nil
	}

	short := strings.TrimPrefix(bc.Merge.String(), "refs/heads/")
	up := &Upstream{
		Remote: bc.Remote,
		Merge:  bc.Merge.String(),
		Ref:    "refs/remotes/" + bc.Remote + "/" + short,
	}
	up.Gone = !r.HasRef(up.Ref)
	return up, nil
}

// IsAncestor reports whether branch's tip commit is an ancestor of (or
// equal to) base's tip commit, i.e. the branch is fully merged into base.
func (r *Repo) IsAncestor(branch, base string) (bool, error) {
	branchRef, err := r.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		return false, nil // branch doesn't exist, nothing to merge
	}
	baseRef, err := r.repo.Reference(plumbing.NewBranchReferenceName(base), true)
	if err != nil {
		return false, nil // base doesn't exist
	}

	if branchRef.Hash() == baseRef.Hash() {
		return true, nil
	}

	branchCommit, err := r.repo.CommitObject(branchRef.Hash())
	if err != nil {
		return false, &model.GitBackendError{Op: "lookup commit", Err: err}
	}
	baseCommit, err := r.repo.CommitObject(baseRef.Hash())
	if err != nil {
		return false, &model.GitBackendError{Op: "lookup commit", Err: err}
	}

	isAncestor, err := branchCommit.IsAncestor(baseCommit)
	if err != nil {
		return false, &model.GitBackendError{Op: "ancestry check", Err: err}
	}
	return isAncestor, nil
}

// Remotes returns remote names ordered for PR fetch priority: "upstream"
// first (fork workflows), then "origin", then the rest sorted.
func (r *Repo) Remotes() ([]string, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return nil, &model.GitBackendError{Op: "config", Err: err}
	}

	var rest []string
	hasUpstream, hasOrigin := false, false
	for name := range cfg.Remotes {
		switch name {
		case "upstream":
			hasUpstream = true
		case "origin":
			hasOrigin = true
		default:
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)

	var names []string
	if hasUpstream {
		names = append(names, "upstream")
	}
	if hasOrigin {
		names = append(names, "origin")
	}
	return append(names, rest...), nil
}

// FetchRef fetches a single refspec from the named remote.
func (r *Repo) FetchRef(remote, refspec string) error {
	r.log.Debug("fetching ref", zap.String("remote", remote), zap.String("refspec", refspec))
	_, err := runGit(r.gitDir, "fetch", remote, refspec)
	return err
}

// DetectDefaultBranch resolves the default branch: a configured
// init.defaultBranch that exists locally, then "main", then "master".
func (r *Repo) DetectDefaultBranch() (string, error) {
	if configured := r.initDefaultBranch(); configured != "" && r.BranchExists(configured) {
		return configured, nil
	}
	if r.BranchExists("main") {
		return "main", nil
	}
	if r.BranchExists("master") {
		return "master", nil
	}
	return "", ErrNoDefaultBranch
}

// initDefaultBranch reads init.defaultBranch from the local config,
// falling back to the global config where it usually lives.
func (r *Repo) initDefaultBranch() string {
	if cfg, err := r.repo.Config(); err == nil {
		if v := cfg.Raw.Section("init").Option("defaultBranch"); v != "" {
			return v
		}
	}
	if cfg, err := gitconfig.LoadConfig(gitconfig.GlobalScope); err == nil {
		if v := cfg.Raw.Section("init").Option("defaultBranch"); v != "" {
			return v
		}
	}
	return ""
}
