// Package git is the git backend for git-workon.
//
// It is a hybrid of two access paths:
//   - Mutations and porcelain reads (worktree add/remove/list, status,
//     fetch) shell out to the git CLI, because worktree operations require
//     full Git CLI compatibility and go-git's worktree support is limited.
//   - Object and ref reads (branch lookup, ancestry, upstream config) go
//     through go-git, which avoids a subprocess per query.
//
// The Backend interface is the seam the rest of the engine programs
// against; tests substitute a fake. The engine performs no locking of its
// own — git's native lock files (index.lock, per-worktree administrative
// locks) fail fast if another process holds a conflicting lock.
package git
