// Package model defines the domain types shared across git-workon.
//
// This package contains pure data structures with no external dependencies.
// All entities (Worktree, Status, PrunePlan, etc.) are transient projections
// of live git state, re-derived from the repository on every invocation —
// the only durable state git-workon touches is git's own refs, config, and
// worktree administrative files.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
