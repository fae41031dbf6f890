// Package protect answers "is this branch exempt from destructive
// operations" against the configured glob-style patterns.
//
// Three pattern forms are supported, and nothing else — no regular
// expressions, no recursive globs:
//
//	main        exact match
//	*           every branch
//	release/*   one namespace level: matches release/1.0 but not
//	            release/1.0/hotfix (configure release/1.0/* for that)
//
// Evaluation is first-match-wins over the configured order, which keeps
// matching O(patterns) with no backtracking. Because each pattern is a
// pure predicate, the result is independent of pattern order whenever
// any pattern matches.
package protect

import "strings"

// IsProtected reports whether branch matches any of the configured
// patterns.
func IsProtected(branch string, patterns []string) bool {
	for _, pattern := range patterns {
		if Matches(pattern, branch) {
			return true
		}
	}
	return false
}

// Matches evaluates a single pattern against a branch name.
func Matches(pattern, branch string) bool {
	if pattern == "*" {
		return true
	}
	if pattern == branch {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		rest, found := strings.CutPrefix(branch, prefix+"/")
		// Exactly one extra segment: non-empty and slash-free.
		return found && rest != "" && !strings.Contains(rest, "/")
	}
	return false
}
