// Package workon is the lifecycle engine tying the pieces together:
// configuration resolution, name resolution, worktree creation with PR
// fetch, file carry-over, post-create hooks, and prune planning and
// execution. Commands in internal/cli are thin shells over this
// package.
package workon
