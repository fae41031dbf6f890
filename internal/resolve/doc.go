// Package resolve turns a user-supplied token — a branch name, a
// namespaced name, or a pull-request shorthand/URL — into a canonical
// branch name, a target worktree path, and a creation mode.
//
// Classification is by priority: tokens matching the PR grammar
// (#123, pr#123, pr-123, .../pull/123 URLs, remote/pull/123/head refs)
// resolve to PR mode with the branch name synthesized from the
// workon.prFormat template; everything else is a literal branch name,
// with `/` namespace segments preserved as nested path components under
// the worktree root.
//
// The resolver also detects collisions pre-emptively — an existing
// directory at the computed path or a branch already checked out
// elsewhere — so the user gets a clear error instead of a generic git
// failure.
package resolve
