package resolve

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lettertwo/git-workon/internal/model"
)

// pullURLRe matches hosted pull-request URLs: any path containing a
// /pull/<digits> segment, e.g. https://github.com/owner/repo/pull/123.
var pullURLRe = regexp.MustCompile(`^https?://[^/]+/.*/pull/(\d+)(?:/.*)?$`)

// remotePullRefRe matches direct remote refs: remote/pull/<digits>/head.
var remotePullRefRe = regexp.MustCompile(`^[^/]+/pull/(\d+)/head$`)

// ParsePRReference classifies a token against the PR shorthand grammar.
//
// Returns (number, true, nil) for a PR reference, (0, false, nil) for a
// token that is not PR-shaped at all, and a ResolutionError for a token
// that looks like a PR reference but is malformed (e.g. "#abc").
func ParsePRReference(token string) (int, bool, error) {
	if num, ok := strings.CutPrefix(token, "pr#"); ok {
		return parsePRNumber(num, token)
	}
	if num, ok := strings.CutPrefix(token, "#"); ok {
		return parsePRNumber(num, token)
	}
	// "pr-" only counts as PR shorthand when followed by digits; a branch
	// may legitimately be named pr-cleanup.
	if num, ok := strings.CutPrefix(token, "pr-"); ok && allDigits(num) && num != "" {
		return parsePRNumber(num, token)
	}
	if m := pullURLRe.FindStringSubmatch(token); m != nil {
		return parsePRNumber(m[1], token)
	}
	if m := remotePullRefRe.FindStringSubmatch(token); m != nil {
		return parsePRNumber(m[1], token)
	}
	return 0, false, nil
}

func parsePRNumber(num, token string) (int, bool, error) {
	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return 0, false, &model.ResolutionError{
			Token:  token,
			Reason: "not a valid pull request number (use #123, pr-123, or a pull request URL)",
		}
	}
	return n, true, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// FormatPRBranch renders the workon.prFormat template for a PR number,
// replacing the {number} placeholder.
func FormatPRBranch(format string, number int) string {
	return strings.ReplaceAll(format, "{number}", strconv.Itoa(number))
}
