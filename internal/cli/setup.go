package cli

import (
	"os"

	"github.com/lettertwo/git-workon/internal/config"
	"github.com/lettertwo/git-workon/internal/copyfile"
	"github.com/lettertwo/git-workon/internal/git"
	"github.com/lettertwo/git-workon/internal/hook"
	"github.com/lettertwo/git-workon/internal/model"
	"github.com/lettertwo/git-workon/internal/workon"
)

// newOrchestrator wires the lifecycle engine for the repository
// containing the current directory. Every subcommand starts here.
func newOrchestrator() (*workon.Orchestrator, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
	}

	repo, err := git.Open(cwd, logger)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGitError, "not inside a git repository", err)
	}
	VerboseLog("Repository root: %s", repo.Root())

	store, err := config.NewGitStore(repo.Repository())
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "failed to load git config", err)
	}
	cfg := config.NewResolver(store)

	timeout, err := cfg.HookTimeout()
	if err != nil {
		return nil, err
	}

	return &workon.Orchestrator{
		Git:    repo,
		Config: cfg,
		Hooks:  &hook.Runner{Timeout: timeout, Log: logger},
		Copy:   copyfile.CopyMatching,
		Log:    logger,
	}, nil
}
