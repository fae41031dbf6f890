// Package hook runs configured post-create commands inside a new
// worktree. Hooks are advisory: a failing or timed-out hook is reported
// but never rolls back the worktree it ran in.
package hook

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Env is the context exported to hook processes through WORKON_*
// environment variables.
type Env struct {
	WorktreePath string
	BranchName   string
	BaseBranch   string
}

// Result is the outcome of one hook command.
type Result struct {
	Command  string
	Output   string
	Err      error
	TimedOut bool
}

// Runner executes hook commands sequentially through the shell.
type Runner struct {
	// Timeout bounds each individual command. Zero disables the bound.
	Timeout time.Duration

	Log *zap.Logger
}

// Run executes the commands in order inside cwd. Every command runs even
// when an earlier one fails; the caller decides how to present failures.
func (r *Runner) Run(ctx context.Context, commands []string, cwd string, env Env) []Result {
	results := make([]Result, 0, len(commands))
	for _, command := range commands {
		results = append(results, r.runOne(ctx, command, cwd, env))
	}
	return results
}

func (r *Runner) runOne(ctx context.Context, command, cwd string, env Env) Result {
	cancel := func() {}
	if r.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
	}
	defer cancel()

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}
	cmd.Dir = cwd
	cmd.Env = append(os.Environ(),
		"WORKON_WORKTREE_PATH="+env.WorktreePath,
		"WORKON_BRANCH_NAME="+env.BranchName,
		"WORKON_BASE_BRANCH="+env.BaseBranch,
	)

	if r.Log != nil {
		r.Log.Debug("running post-create hook",
			zap.String("command", command),
			zap.String("cwd", cwd))
	}

	out, err := cmd.CombinedOutput()
	res := Result{Command: command, Output: string(out), Err: err}
	if ctx.Err() == context.DeadlineExceeded {
		res.TimedOut = true
		res.Err = fmt.Errorf("hook timed out after %s", r.Timeout)
	}
	if res.Err != nil && r.Log != nil {
		r.Log.Warn("post-create hook failed",
			zap.String("command", command),
			zap.Error(res.Err))
	}
	return res
}
