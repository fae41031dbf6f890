package git

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/lettertwo/git-workon/internal/model"
)

// runGit executes a git command with the given arguments in the specified
// directory.
//
// It captures stdout and stderr separately. On success it returns stdout;
// on failure it returns a model.GitBackendError whose message includes
// git's stderr output for diagnostics.
//
// The dir parameter is passed to git via the -C flag, which causes git to
// change to that directory before doing anything else. This avoids
// mutating the process working directory.
func runGit(dir string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", dir}, args...)

	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.Command("git", fullArgs...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		underlying := err
		if stderrStr != "" {
			underlying = fmt.Errorf("%w: %s", err, stderrStr)
		}
		return "", &model.GitBackendError{Op: strings.Join(args, " "), Err: underlying}
	}

	return stdout.String(), nil
}
