package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lettertwo/git-workon/internal/model"
)

// Recognized configuration keys.
const (
	KeyDefaultBranch     = "workon.defaultBranch"
	KeyPostCreateHook    = "workon.postCreateHook"
	KeyCopyPattern       = "workon.copyPattern"
	KeyCopyExclude       = "workon.copyExclude"
	KeyAutoCopyUntracked = "workon.autoCopyUntracked"
	KeyProtectedBranches = "workon.pruneProtectedBranches"
	KeyPRFormat          = "workon.prFormat"
	KeyHookTimeout       = "workon.hookTimeout"
)

// DefaultPRFormat is the built-in template for PR worktree names.
const DefaultPRFormat = "pr-{number}"

// DefaultHookTimeout bounds hook execution unless overridden.
// A configured value of 0 disables the timeout.
const DefaultHookTimeout = 300 * time.Second

// prPlaceholders are the template variables workon.prFormat may use.
var prPlaceholders = []string{"{number}", "{title}", "{author}", "{branch}"}

// Resolver applies scope precedence and validation on top of a Store.
// It is constructed once per invocation from explicitly passed sources;
// there is no process-wide configuration state.
type Resolver struct {
	store Store
}

// NewResolver creates a Resolver over the given store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// single resolves one single-value key: CLI override wins outright, then
// local, then global. Returns the value and the scope that supplied it.
func (r *Resolver) single(key, cliOverride string) (string, Scope, bool) {
	if cliOverride != "" {
		return cliOverride, ScopeCLI, true
	}
	if v, ok := r.store.Get(key, ScopeLocal); ok {
		return v, ScopeLocal, true
	}
	if v, ok := r.store.Get(key, ScopeGlobal); ok {
		return v, ScopeGlobal, true
	}
	return "", "", false
}

// multi resolves one multi-value key. Scopes are not merged: the first
// scope defining any value wins entirely, so a local list fully shadows
// the global one.
func (r *Resolver) multi(key string) []string {
	if vals := r.store.GetAll(key, ScopeLocal); len(vals) > 0 {
		return vals
	}
	return r.store.GetAll(key, ScopeGlobal)
}

// DefaultBranch returns the configured base branch for new worktrees.
// Empty when not configured; callers fall back to the repository default.
func (r *Resolver) DefaultBranch(cliOverride string) string {
	v, _, _ := r.single(KeyDefaultBranch, cliOverride)
	return v
}

// PRFormat returns the validated template for PR worktree names. The
// template must contain the {number} placeholder and may only use the
// known placeholders.
func (r *Resolver) PRFormat(cliOverride string) (string, error) {
	v, scope, ok := r.single(KeyPRFormat, cliOverride)
	if !ok {
		return DefaultPRFormat, nil
	}
	if err := validatePRFormat(v, scope); err != nil {
		return "", err
	}
	return v, nil
}

func validatePRFormat(format string, scope Scope) error {
	if !strings.Contains(format, "{number}") {
		return &model.ConfigError{
			Key:    KeyPRFormat,
			Scope:  string(scope),
			Value:  format,
			Reason: "template must contain the {number} placeholder",
		}
	}

	remaining := format
	for _, p := range prPlaceholders {
		remaining = strings.ReplaceAll(remaining, p, "")
	}
	if strings.Contains(remaining, "{") {
		return &model.ConfigError{
			Key:    KeyPRFormat,
			Scope:  string(scope),
			Value:  format,
			Reason: fmt.Sprintf("unknown placeholder; valid placeholders: %s", strings.Join(prPlaceholders, ", ")),
		}
	}
	return nil
}

// PostCreateHooks returns the ordered commands to run after worktree
// creation. Empty when not configured.
func (r *Resolver) PostCreateHooks() []string {
	return r.multi(KeyPostCreateHook)
}

// CopyPatterns returns the include globs for automatic file copying.
func (r *Resolver) CopyPatterns() []string {
	return r.multi(KeyCopyPattern)
}

// CopyExcludes returns the exclude globs for automatic file copying.
func (r *Resolver) CopyExcludes() []string {
	return r.multi(KeyCopyExclude)
}

// AutoCopyUntracked reports whether new worktrees automatically receive
// files matching the copy patterns.
func (r *Resolver) AutoCopyUntracked(cliOverride *bool) (bool, error) {
	if cliOverride != nil {
		return *cliOverride, nil
	}
	v, scope, ok := r.single(KeyAutoCopyUntracked, "")
	if !ok {
		return false, nil
	}
	b, err := parseGitBool(v)
	if err != nil {
		return false, &model.ConfigError{
			Key:    KeyAutoCopyUntracked,
			Scope:  string(scope),
			Value:  v,
			Reason: "not a boolean (use true/false, yes/no, on/off, 1/0)",
		}
	}
	return b, nil
}

// ProtectedBranches returns the glob patterns exempting branches from
// destructive operations.
func (r *Resolver) ProtectedBranches() []string {
	return r.multi(KeyProtectedBranches)
}

// HookTimeout returns the hook execution timeout. Zero means no timeout.
func (r *Resolver) HookTimeout() (time.Duration, error) {
	v, scope, ok := r.single(KeyHookTimeout, "")
	if !ok {
		return DefaultHookTimeout, nil
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || seconds < 0 {
		return 0, &model.ConfigError{
			Key:    KeyHookTimeout,
			Scope:  string(scope),
			Value:  v,
			Reason: "must be a non-negative integer number of seconds",
		}
	}
	return time.Duration(seconds) * time.Second, nil
}

// parseGitBool parses booleans the way git config does.
func parseGitBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean: %q", s)
	}
}

// Resolved is the full configuration snapshot, used by the `config`
// command to show users what the layered sources resolve to.
type Resolved struct {
	DefaultBranch     string        `json:"defaultBranch,omitempty" yaml:"defaultBranch,omitempty"`
	PRFormat          string        `json:"prFormat" yaml:"prFormat"`
	PostCreateHooks   []string      `json:"postCreateHooks,omitempty" yaml:"postCreateHooks,omitempty"`
	CopyPatterns      []string      `json:"copyPatterns,omitempty" yaml:"copyPatterns,omitempty"`
	CopyExcludes      []string      `json:"copyExcludes,omitempty" yaml:"copyExcludes,omitempty"`
	AutoCopyUntracked bool          `json:"autoCopyUntracked" yaml:"autoCopyUntracked"`
	ProtectedBranches []string      `json:"protectedBranches,omitempty" yaml:"protectedBranches,omitempty"`
	HookTimeout       time.Duration `json:"hookTimeout" yaml:"hookTimeout"`
}

// Resolve produces the full snapshot, failing on the first invalid key.
func (r *Resolver) Resolve() (*Resolved, error) {
	prFormat, err := r.PRFormat("")
	if err != nil {
		return nil, err
	}
	autoCopy, err := r.AutoCopyUntracked(nil)
	if err != nil {
		return nil, err
	}
	timeout, err := r.HookTimeout()
	if err != nil {
		return nil, err
	}

	return &Resolved{
		DefaultBranch:     r.DefaultBranch(""),
		PRFormat:          prFormat,
		PostCreateHooks:   r.PostCreateHooks(),
		CopyPatterns:      r.CopyPatterns(),
		CopyExcludes:      r.CopyExcludes(),
		AutoCopyUntracked: autoCopy,
		ProtectedBranches: r.ProtectedBranches(),
		HookTimeout:       timeout,
	}, nil
}
