package rules

import (
	"testing"

	"github.com/arthur-debert/ctxdump/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternMatches(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		isDir   bool
		want    bool
	}{
		{"extension at root", "*.py", "foo.py", false, true},
		{"extension at depth", "*.py", "a/b/foo.py", false, true},
		{"extension mismatch", "*.py", "foo.pyc", false, false},
		{"anchored at root", "/a.txt", "a.txt", false, true},
		{"anchored not at depth", "/a.txt", "sub/a.txt", false, false},
		{"middle slash anchors", "docs/*.md", "docs/a.md", false, true},
		{"middle slash not at depth", "docs/*.md", "x/docs/a.md", false, false},
		{"dir pattern matches dir", "build/", "build", true, true},
		{"dir pattern matches nested dir", "build/", "src/build", true, true},
		{"dir pattern matches contents", "build/", "build/x.go", false, true},
		{"dir pattern skips file", "build/", "build", false, false},
		{"file pattern matches file", "build", "build", false, true},
		{"file pattern skips same-named dir", "build", "build", true, false},
		{"file pattern skips same-named dir contents", "build", "build/x.go", false, false},
		{"file pattern skips nested same-named dir", "build", "out/build", true, false},
		{"glob pattern matches dir", "*.egg-info/", "pkg.egg-info", true, true},
		{"vcs contents", ".git/", ".git/config", false, true},
		{"deps contents", "node_modules/", "node_modules/pkg.js", false, true},
		{"hidden at root", "/.*", ".env", false, true},
		{"hidden at depth", "**/.*", "a/.env", false, true},
		{"hidden zero depth", "**/.*", ".env", false, true},
		{"hidden dir contents", "**/.*", "a/.cache/x", false, true},
		{"question mark", "?.go", "a.go", false, true},
		{"question mark one char", "?.go", "ab.go", false, false},
		{"double star middle", "a/**/b", "a/x/y/b", false, true},
		{"double star zero segments", "a/**/b", "a/b", false, true},
		{"double star tail", "tmp/**", "tmp/x/y.txt", false, true},
		{"character class", "[ab].txt", "b.txt", false, true},
		{"braces", "*.{js,ts}", "src/app.ts", false, true},
		{"backslashes normalized", "*.py", `src\main.py`, false, true},
		{"leading dot slash trimmed", "/a.txt", "./a.txt", false, true},
		{"empty path", "*", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := CompilePattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Matches(tt.path, tt.isDir))
			assert.Equal(t, tt.want, Matches(tt.pattern, tt.path, tt.isDir))
		})
	}
}

func TestCompilePatternRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "/", "//", "[", "a/[b"} {
		t.Run(raw, func(t *testing.T) {
			p, err := CompilePattern(raw)
			require.Error(t, err)
			assert.Nil(t, p)
			assert.True(t, errors.IsErrorCode(err, errors.ErrRuleInvalid))
			assert.False(t, Matches(raw, "a", false))
		})
	}
}

func TestPatternProperties(t *testing.T) {
	p, err := CompilePattern("/src//gen/")
	require.NoError(t, err)
	assert.True(t, p.Anchored())
	assert.True(t, p.DirOnly())
	assert.False(t, p.Recursive())
	assert.Equal(t, "/src//gen/", p.String())
	assert.True(t, p.Matches("src/gen/x.go", false))

	p, err = CompilePattern("*.go")
	require.NoError(t, err)
	assert.False(t, p.Anchored())
	assert.True(t, p.Recursive())
}

func TestPatternMatchesBelow(t *testing.T) {
	p, err := CompilePattern("build/")
	require.NoError(t, err)

	assert.True(t, p.Matches("build/main.go", false))
	assert.False(t, p.MatchesBelow("build/main.go", false, "build"))
	assert.True(t, p.MatchesBelow("build/out/build/x.go", false, "build"), "deeper ancestors still count")
	assert.True(t, p.MatchesBelow("src/build/x.go", false, ""))
	assert.True(t, p.MatchesBelow("build", true, "build"), "the entry itself always counts")
}

func TestPatternMayMatchBeneath(t *testing.T) {
	tests := []struct {
		pattern string
		dir     string
		want    bool
	}{
		{"src/**/*.go", "src", true},
		{"src/**/*.go", "src/a/b", true},
		{"src/**/*.go", "docs", false},
		{"**/*.go", "anything/at/all", true},
		{"*.go", "vendor", true},
		{"docs/a.md", "docs", true},
		{"docs/a.md", "src", false},
		{"docs/a.md", "docs/a.md/deeper", true},
		{"/a.txt", "sub", false},
		{"/a.txt", "", true},
		{"pkg/*/internal/", "pkg/rules", true},
		{"pkg/*/internal/", "cmd/rules", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" under "+tt.dir, func(t *testing.T) {
			p, err := CompilePattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.MayMatchBeneath(tt.dir))
		})
	}
}
