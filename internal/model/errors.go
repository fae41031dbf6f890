package model

import "fmt"

// ExitCode defines the CLI exit codes. These codes let scripts and CI
// systems programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigError indicates a configuration value failed validation.
	ExitConfigError ExitCode = 2

	// ExitResolutionError indicates a user-supplied token could not be
	// resolved, or collided with an existing worktree or branch.
	ExitResolutionError ExitCode = 3

	// ExitGitError indicates a git operation failed.
	ExitGitError ExitCode = 4

	// ExitNotFound indicates a named worktree or branch does not exist.
	ExitNotFound ExitCode = 5

	// ExitUserCancelled indicates the user cancelled an interactive prompt.
	ExitUserCancelled ExitCode = 6
)

// CLIError is a custom error type that carries an exit code, allowing the
// CLI layer to translate domain errors into process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ConfigError reports an invalid or missing configuration value. It is
// fatal for the operation that needed the key and always names the
// offending key and scope; invalid values are never silently coerced.
type ConfigError struct {
	// Key is the full config key, e.g. "workon.prFormat".
	Key string

	// Scope is where the offending value was found: "local", "global",
	// or "cli" for a command-line override.
	Scope string

	// Value is the rejected value.
	Value string

	// Reason states which validation rule the value violated.
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid value %q for %s (%s scope): %s", e.Value, e.Key, e.Scope, e.Reason)
}

// ResolutionError reports a token that could not be turned into a branch
// name and worktree path, or one that collides with existing state. No
// mutation is attempted after a resolution error.
type ResolutionError struct {
	// Token is the user-supplied input.
	Token string

	// Reason states why resolution failed.
	Reason string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %q: %s", e.Token, e.Reason)
}

// GitBackendError wraps a failed git operation with the operation name
// for context.
type GitBackendError struct {
	// Op is the git operation that failed, e.g. "worktree add".
	Op string

	// Err is the underlying failure, including git's stderr output.
	Err error
}

func (e *GitBackendError) Error() string {
	return fmt.Sprintf("git %s failed: %v", e.Op, e.Err)
}

func (e *GitBackendError) Unwrap() error {
	return e.Err
}
