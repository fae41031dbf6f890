package protect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		pattern string
		branch  string
		want    bool
	}{
		// Exact matches.
		{"main", "main", true},
		{"main", "master", false},
		{"release/1.0", "release/1.0", true},

		// Wildcard matches everything, slashes included.
		{"*", "main", true},
		{"*", "release/1.0/hotfix", true},

		// Namespace patterns match exactly one extra level.
		{"release/*", "release/1.0", true},
		{"release/*", "release/1.0/hotfix", false},
		{"release/*", "release", false},
		{"release/*", "releases/1.0", false},
		{"release/1.0/*", "release/1.0/hotfix", true},

		// Not treated as a namespace pattern.
		{"release/1.*", "release/1.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"_vs_"+tt.branch, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.pattern, tt.branch))
		})
	}
}

func TestIsProtected(t *testing.T) {
	patterns := []string{"main", "release/*"}

	assert.True(t, IsProtected("main", patterns))
	assert.True(t, IsProtected("release/2.0", patterns))
	assert.False(t, IsProtected("feature/login", patterns))
	assert.False(t, IsProtected("anything", nil))
}

// Exact patterns must match exactly their own branch and nothing else.
func TestExactPatternProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		segment := rapid.StringMatching(`[a-z][a-z0-9-]{0,8}`)
		pattern := segment.Draw(t, "pattern")
		branch := segment.Draw(t, "branch")

		got := Matches(pattern, branch)
		assert.Equal(t, pattern == branch, got)
	})
}

// Namespace patterns accept exactly one additional level.
func TestNamespacePatternProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		segGen := rapid.StringMatching(`[a-z][a-z0-9-]{0,8}`)
		prefix := segGen.Draw(t, "prefix")
		segments := rapid.SliceOfN(segGen, 1, 3).Draw(t, "segments")

		branch := prefix + "/" + strings.Join(segments, "/")
		got := Matches(prefix+"/*", branch)
		assert.Equal(t, len(segments) == 1, got)
	})
}
