package workon

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lettertwo/git-workon/internal/config"
	"github.com/lettertwo/git-workon/internal/git"
	"github.com/lettertwo/git-workon/internal/hook"
	"github.com/lettertwo/git-workon/internal/model"
	"github.com/lettertwo/git-workon/internal/prune"
	"github.com/lettertwo/git-workon/internal/resolve"
	"github.com/lettertwo/git-workon/internal/status"
)

// HookRunner executes post-create commands. Satisfied by *hook.Runner.
type HookRunner interface {
	Run(ctx context.Context, commands []string, cwd string, env hook.Env) []hook.Result
}

// CopyFunc copies matching files between worktrees. Satisfied by
// copyfile.CopyMatching.
type CopyFunc func(srcDir, dstDir string, includes, excludes []string, overwrite bool) ([]string, error)

// Orchestrator coordinates the worktree lifecycle.
type Orchestrator struct {
	Git    git.Backend
	Config *config.Resolver
	Hooks  HookRunner
	Copy   CopyFunc
	Log    *zap.Logger
}

// CreateOptions carry the flags of the `new` command.
type CreateOptions struct {
	// BaseBranch overrides the configured base branch for new-branch and
	// merged-detection purposes.
	BaseBranch string

	// Orphan creates a branch with no parent history.
	Orphan bool

	// Detached creates a branchless worktree pinned to a commit.
	Detached bool

	// PRFormat overrides workon.prFormat for this invocation.
	PRFormat string

	// AutoCopy overrides workon.autoCopyUntracked; nil defers to config.
	AutoCopy *bool

	// NoHooks skips post-create hooks.
	NoHooks bool
}

// CreateResult reports what a create run did.
type CreateResult struct {
	Worktree    model.Worktree     `json:"worktree" yaml:"worktree"`
	Mode        model.CreationMode `json:"mode" yaml:"mode"`
	BaseBranch  string             `json:"baseBranch,omitempty" yaml:"baseBranch,omitempty"`
	PRNumber    int                `json:"prNumber,omitempty" yaml:"prNumber,omitempty"`
	CopiedFiles []string           `json:"copiedFiles,omitempty" yaml:"copiedFiles,omitempty"`

	// Warnings are non-fatal problems after the worktree itself was
	// created, such as a failing hook or copy. The worktree stands.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// CreateWorktree resolves a token and builds the worktree it names,
// including PR fetch, file carry-over and post-create hooks.
//
// Once `git worktree add` has succeeded the operation cannot fail any
// more; later problems become warnings on the result.
func (o *Orchestrator) CreateWorktree(ctx context.Context, token string, opts CreateOptions) (*CreateResult, error) {
	prFormat, err := o.Config.PRFormat(opts.PRFormat)
	if err != nil {
		return nil, err
	}

	worktrees, err := o.Git.ListWorktrees()
	if err != nil {
		return nil, err
	}

	requested := model.ModeNormal
	switch {
	case opts.Orphan && opts.Detached:
		return nil, model.NewCLIError(model.ExitGeneralError, "cannot combine --orphan and --detach")
	case opts.Orphan:
		requested = model.ModeOrphan
	case opts.Detached:
		requested = model.ModeDetached
	}

	resolver := &resolve.Resolver{
		Root:     o.Git.Root(),
		PRFormat: prFormat,
		Existing: worktrees,
	}
	res, err := resolver.Resolve(token, requested)
	if err != nil {
		return nil, err
	}

	base := ""
	if res.Mode == model.ModeNormal || res.Mode == model.ModeOrphan {
		base, err = o.baseBranch(opts.BaseBranch)
		if err != nil && res.Mode == model.ModeNormal {
			return nil, err
		}
	}

	startPoint := ""
	switch res.Mode {
	case model.ModeNormal:
		startPoint = base
	case model.ModePR:
		startPoint, err = o.fetchPRHead(res.PRNumber)
		if err != nil {
			return nil, err
		}
	}

	if err := o.Git.CreateWorktree(res.Path, res.BranchName, res.Mode, startPoint); err != nil {
		return nil, err
	}
	o.Log.Info("created worktree",
		zap.String("path", res.Path),
		zap.String("branch", res.BranchName),
		zap.String("mode", res.Mode.String()))

	result := &CreateResult{
		Worktree: model.Worktree{
			Name:       res.BranchName,
			Path:       res.Path,
			Branch:     res.BranchName,
			IsDetached: res.Mode == model.ModeDetached,
		},
		Mode:       res.Mode,
		BaseBranch: base,
		PRNumber:   res.PRNumber,
	}
	if res.BranchName == "" {
		result.Worktree.Name = token
	}

	o.copyFiles(result, worktrees, base, opts.AutoCopy)

	if !opts.NoHooks {
		o.runHooks(ctx, result, base)
	}

	return result, nil
}

// baseBranch resolves the base branch: CLI flag, then workon.defaultBranch,
// then the repository default.
func (o *Orchestrator) baseBranch(cliOverride string) (string, error) {
	if configured := o.Config.DefaultBranch(cliOverride); configured != "" {
		return configured, nil
	}
	return o.Git.DetectDefaultBranch()
}

// fetchPRHead ensures the PR head ref exists locally and returns it.
// The highest-priority remote is fetched; the ref is reused if a prior
// fetch already created it.
func (o *Orchestrator) fetchPRHead(number int) (string, error) {
	remotes, err := o.Git.Remotes()
	if err != nil {
		return "", err
	}
	if len(remotes) == 0 {
		return "", git.ErrNoRemote
	}
	remote := remotes[0]

	ref := fmt.Sprintf("refs/remotes/%s/pull/%d/head", remote, number)
	if !o.Git.HasRef(ref) {
		refspec := fmt.Sprintf("+refs/pull/%d/head:%s", number, ref)
		if err := o.Git.FetchRef(remote, refspec); err != nil {
			return "", err
		}
	}
	return ref, nil
}

// copyFiles carries configured files from the base branch's worktree
// into the new one. Problems are warnings, never errors.
func (o *Orchestrator) copyFiles(result *CreateResult, worktrees []model.Worktree, base string, override *bool) {
	if o.Copy == nil {
		return
	}
	enabled, err := o.Config.AutoCopyUntracked(override)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		return
	}
	patterns := o.Config.CopyPatterns()
	if !enabled || len(patterns) == 0 {
		return
	}

	src := ""
	for _, wt := range worktrees {
		if !wt.IsBare && wt.Branch == base {
			src = wt.Path
			break
		}
	}
	if src == "" {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("no worktree for base branch %q, skipping file copy", base))
		return
	}

	copied, err := o.Copy(src, result.Worktree.Path, patterns, o.Config.CopyExcludes(), false)
	result.CopiedFiles = copied
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("file copy incomplete: %v", err))
	}
}

// runHooks executes the configured post-create commands inside the new
// worktree. Hook failures are warnings.
func (o *Orchestrator) runHooks(ctx context.Context, result *CreateResult, base string) {
	if o.Hooks == nil {
		return
	}
	commands := o.Config.PostCreateHooks()
	if len(commands) == 0 {
		return
	}

	env := hook.Env{
		WorktreePath: result.Worktree.Path,
		BranchName:   result.Worktree.Branch,
		BaseBranch:   base,
	}
	for _, hr := range o.Hooks.Run(ctx, commands, result.Worktree.Path, env) {
		if hr.Err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("hook %q failed: %v", hr.Command, hr.Err))
		}
	}
}

// PruneResult reports a prune run: the plan, and per-item outcomes when
// the plan was executed.
type PruneResult struct {
	Plan       model.PrunePlan       `json:"plan" yaml:"plan"`
	Removed    []model.RemovalResult `json:"removed,omitempty" yaml:"removed,omitempty"`
	BaseBranch string                `json:"baseBranch,omitempty" yaml:"baseBranch,omitempty"`
}

// PruneOptions carry the flags of the `prune` command.
type PruneOptions struct {
	Selector   prune.Selector
	Safety     prune.Options
	BaseBranch string
}

// PruneWorktrees computes statuses for every worktree, builds the plan,
// and executes it unless dry-run is set.
func (o *Orchestrator) PruneWorktrees(ctx context.Context, opts PruneOptions) (*PruneResult, error) {
	base, err := o.baseBranch(opts.BaseBranch)
	if err != nil {
		// Without a base branch merged-detection is impossible, but gone
		// and explicit selection still work.
		o.Log.Debug("no base branch detected", zap.Error(err))
		if opts.Selector.Merged {
			return nil, err
		}
		base = ""
	}

	worktrees, err := o.Git.ListWorktrees()
	if err != nil {
		return nil, err
	}

	// An explicitly named worktree that doesn't exist is a hard error,
	// not a silent no-op.
	for _, name := range opts.Selector.Names {
		if !worktreeExists(worktrees, name) {
			return nil, model.NewCLIError(model.ExitNotFound,
				fmt.Sprintf("no worktree or branch named %q", name))
		}
	}

	var candidates []prune.Candidate
	for _, wt := range worktrees {
		if wt.IsBare {
			continue
		}
		st, err := status.Describe(o.Git, wt, base)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, prune.Candidate{Worktree: wt, Status: st})
	}

	plan := prune.BuildPlan(candidates, opts.Selector, o.Config.ProtectedBranches(), base, opts.Safety)
	result := &PruneResult{Plan: plan, BaseBranch: base}
	if plan.IsDryRun {
		return result, nil
	}

	result.Removed = prune.ExecutePlan(plan, o.Git.RemoveWorktree, opts.Safety.AllowDirty)
	return result, nil
}

func worktreeExists(worktrees []model.Worktree, name string) bool {
	for _, wt := range worktrees {
		if wt.IsBare {
			continue
		}
		if wt.Name == name || wt.Branch == name {
			return true
		}
	}
	return false
}

// WorktreeInfo pairs a worktree with its status for listing.
type WorktreeInfo struct {
	Worktree model.Worktree `json:"worktree" yaml:"worktree"`
	Status   model.Status   `json:"status" yaml:"status"`
}

// ListWorktrees enumerates all non-bare worktrees with their statuses.
func (o *Orchestrator) ListWorktrees(ctx context.Context) ([]WorktreeInfo, string, error) {
	base, err := o.baseBranch("")
	if err != nil {
		base = ""
	}

	worktrees, err := o.Git.ListWorktrees()
	if err != nil {
		return nil, "", err
	}

	var infos []WorktreeInfo
	for _, wt := range worktrees {
		if wt.IsBare {
			continue
		}
		st, err := status.Describe(o.Git, wt, base)
		if err != nil {
			return nil, "", err
		}
		infos = append(infos, WorktreeInfo{Worktree: wt, Status: st})
	}
	return infos, base, nil
}
