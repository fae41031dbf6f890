// Package config resolves git-workon settings from git's native config
// system — no bespoke file format is introduced.
//
// Precedence for single-value keys is strictly: explicit command-line
// override > local scope (.git/config) > global scope (~/.gitconfig) >
// built-in default. Multi-value keys are not merged across scopes: the
// first scope that defines any value for the key wins entirely, matching
// git's own semantics for repeated keys.
//
// Validation happens at resolution time and fails closed: an invalid
// value is rejected with an error naming the offending key and scope,
// never silently coerced.
//
// Recognized keys:
//
//	workon.defaultBranch          string  base branch for new worktrees
//	workon.postCreateHook         multi   commands run after creation
//	workon.copyPattern            multi   include globs for auto-copy
//	workon.copyExclude            multi   exclude globs for auto-copy
//	workon.autoCopyUntracked      bool    enable auto-copy (default false)
//	workon.pruneProtectedBranches multi   branches exempt from pruning
//	workon.prFormat               string  PR worktree name template
//	workon.hookTimeout            int     hook timeout seconds (default 300)
package config
