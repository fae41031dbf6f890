package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lettertwo/git-workon/internal/model"
)

func TestParsePRReference(t *testing.T) {
	tests := []struct {
		token   string
		number  int
		isPR    bool
		wantErr bool
	}{
		// Shorthand forms.
		{"#123", 123, true, false},
		{"pr#123", 123, true, false},
		{"pr-123", 123, true, false},
		{"#1", 1, true, false},

		// URLs.
		{"https://github.com/owner/repo/pull/42", 42, true, false},
		{"http://git.example.com/team/repo/pull/7", 7, true, false},
		{"https://github.com/owner/repo/pull/42/files", 42, true, false},

		// Remote pull refs.
		{"origin/pull/123/head", 123, true, false},
		{"upstream/pull/9/head", 9, true, false},

		// Plain branch names, not PR references.
		{"feature-auth", 0, false, false},
		{"pr-cleanup", 0, false, false},
		{"pr-123abc", 0, false, false},
		{"team/login", 0, false, false},
		{"prelude", 0, false, false},

		// PR-shaped but malformed.
		{"#abc", 0, false, true},
		{"#", 0, false, true},
		{"pr#", 0, false, true},
		{"pr#12x", 0, false, true},
		{"#0", 0, false, true},
		{"#-5", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			number, isPR, err := ParsePRReference(tt.token)
			if tt.wantErr {
				require.Error(t, err)
				var resErr *model.ResolutionError
				assert.ErrorAs(t, err, &resErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.isPR, isPR)
			assert.Equal(t, tt.number, number)
		})
	}
}

func TestFormatPRBranch(t *testing.T) {
	assert.Equal(t, "pr-123", FormatPRBranch("pr-{number}", 123))
	assert.Equal(t, "review/7", FormatPRBranch("review/{number}", 7))
	assert.Equal(t, "static", FormatPRBranch("static", 42))
}
