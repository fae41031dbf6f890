package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lettertwo/git-workon/internal/model"
)

// Resolution is the closed result of token classification: a canonical
// branch name, the deterministic worktree path, and the creation mode.
// Downstream code branches on Mode, never on the raw token.
type Resolution struct {
	// BranchName is the canonical branch name. Empty only for detached
	// mode, which checks out no branch.
	BranchName string

	// Path is the absolute worktree path: the worktree root joined with
	// the branch name, namespace segments becoming nested directories.
	Path string

	// Mode is how the worktree's branch comes into existence.
	Mode model.CreationMode

	// PRNumber is the pull request number for PR mode, zero otherwise.
	PRNumber int
}

// Resolver classifies tokens against the live repository state.
type Resolver struct {
	// Root is the worktree root directory.
	Root string

	// PRFormat is the resolved workon.prFormat template.
	PRFormat string

	// Existing is the current worktree registry, used for pre-emptive
	// collision detection.
	Existing []model.Worktree
}

// Resolve turns a token into a Resolution. requested carries a mode the
// user forced via flags (orphan/detached); ModeNormal means no
// preference and lets PR classification take effect.
func (r *Resolver) Resolve(token string, requested model.CreationMode) (*Resolution, error) {
	if token == "" {
		return nil, &model.ResolutionError{Token: token, Reason: "empty name"}
	}

	number, isPR, err := ParsePRReference(token)
	if err != nil {
		return nil, err
	}

	if isPR {
		if requested != model.ModeNormal {
			return nil, &model.ResolutionError{
				Token:  token,
				Reason: fmt.Sprintf("pull request worktrees cannot be created in %s mode", requested),
			}
		}
		branch := FormatPRBranch(r.PRFormat, number)
		res := &Resolution{
			BranchName: branch,
			Path:       r.pathFor(branch),
			Mode:       model.ModePR,
			PRNumber:   number,
		}
		return res, r.checkCollision(token, res)
	}

	if err := ValidateBranchName(token); err != nil {
		return nil, &model.ResolutionError{Token: token, Reason: err.Error()}
	}

	mode := requested
	if !mode.IsValid() {
		mode = model.ModeNormal
	}

	res := &Resolution{
		BranchName: token,
		Path:       r.pathFor(token),
		Mode:       mode,
	}
	if mode == model.ModeDetached {
		// Detached worktrees have no branch; the token only names the
		// directory.
		res.BranchName = ""
	}
	return res, r.checkCollision(token, res)
}

// pathFor maps a branch name onto the worktree root, turning namespace
// separators into directory separators.
func (r *Resolver) pathFor(branch string) string {
	return filepath.Join(r.Root, filepath.FromSlash(branch))
}

// checkCollision fails resolution when the computed path is already
// occupied or the branch is checked out in another worktree. Detecting
// this here yields a clear error before any git mutation.
func (r *Resolver) checkCollision(token string, res *Resolution) error {
	if _, err := os.Stat(res.Path); err == nil {
		return &model.ResolutionError{
			Token:  token,
			Reason: fmt.Sprintf("name already in use: %s exists", res.Path),
		}
	}
	if res.BranchName != "" {
		for _, wt := range r.Existing {
			if wt.Branch == res.BranchName {
				return &model.ResolutionError{
					Token:  token,
					Reason: fmt.Sprintf("name already in use: branch %q is checked out at %s", wt.Branch, wt.Path),
				}
			}
		}
	}
	return nil
}

// ValidateBranchName checks the subset of git's ref-format rules that
// matter for branch components: printable, no whitespace or globbing
// characters, sane slash placement.
func ValidateBranchName(name string) error {
	if name == "" {
		return fmt.Errorf("empty branch name")
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return fmt.Errorf("branch name cannot start or end with '/'")
	}
	if strings.Contains(name, "//") {
		return fmt.Errorf("branch name cannot contain '//'")
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("branch name cannot contain '..'")
	}
	if strings.Contains(name, "@{") {
		return fmt.Errorf("branch name cannot contain '@{'")
	}
	if name == "@" {
		return fmt.Errorf("branch name cannot be '@'")
	}
	if strings.HasSuffix(name, ".lock") {
		return fmt.Errorf("branch name cannot end with '.lock'")
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("branch name cannot contain control characters")
		}
		if strings.ContainsRune(" ~^:?*[\\", r) {
			return fmt.Errorf("branch name cannot contain %q", r)
		}
	}
	for _, segment := range strings.Split(name, "/") {
		if strings.HasPrefix(segment, ".") {
			return fmt.Errorf("branch name component cannot start with '.'")
		}
	}
	return nil
}
