package rules

import (
	"path"
	"strings"

	"github.com/arthur-debert/ctxdump/pkg/errors"
	"github.com/bmatcuk/doublestar/v4"
)

// Pattern is a compiled gitignore-style pattern
type Pattern struct {
	raw string
	// body is the pattern without anchor and directory markers
	body string
	// glob is what doublestar evaluates; unanchored slashless bodies get "**/"
	glob     string
	segments []string
	anchored bool
	dirOnly  bool
	// literal is set when body has no glob meta characters
	literal bool
}

// CompilePattern validates and compiles one pattern
func CompilePattern(raw string) (*Pattern, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errors.New(errors.ErrRuleInvalid, "empty pattern")
	}

	p := &Pattern{
		raw:      raw,
		anchored: strings.HasPrefix(trimmed, "/"),
		dirOnly:  strings.HasSuffix(trimmed, "/"),
	}

	body := strings.Trim(trimmed, "/")
	for strings.Contains(body, "//") {
		body = strings.ReplaceAll(body, "//", "/")
	}
	if body == "" {
		return nil, errors.Newf(errors.ErrRuleInvalid, "pattern %q is empty after normalization", raw)
	}
	p.body = body

	p.glob = body
	if !p.anchored && !strings.Contains(body, "/") {
		p.glob = "**/" + body
	}
	if !doublestar.ValidatePattern(p.glob) {
		return nil, errors.Newf(errors.ErrRuleInvalid, "invalid pattern %q", raw)
	}

	p.segments = strings.Split(p.glob, "/")
	p.literal = !strings.ContainsAny(body, `*?[]{}\`)
	return p, nil
}

// String returns the pattern as written
func (p *Pattern) String() string {
	return p.raw
}

// DirOnly reports whether the pattern ends with a slash
func (p *Pattern) DirOnly() bool {
	return p.dirOnly
}

// Anchored reports whether the pattern is bound to its base directory
func (p *Pattern) Anchored() bool {
	return p.anchored || strings.Contains(p.body, "/")
}

// Recursive reports whether the pattern can match at arbitrary depth
func (p *Pattern) Recursive() bool {
	return strings.Contains(p.glob, "**")
}

// Matches reports whether relPath, or one of its ancestor directories,
// matches the pattern.
func (p *Pattern) Matches(relPath string, isDir bool) bool {
	return p.MatchesBelow(relPath, isDir, "")
}

// MatchesBelow is Matches with the ancestor checks limited to directories
// strictly beneath floor. An empty floor checks every ancestor.
func (p *Pattern) MatchesBelow(relPath string, isDir bool, floor string) bool {
	rel := normalizePath(relPath)
	if rel == "" {
		return false
	}
	if p.matchOne(rel, isDir) {
		return true
	}

	floor = normalizePath(floor)
	for dir := path.Dir(rel); dir != "." && dir != "/" && dir != ""; dir = path.Dir(dir) {
		if floor != "" && !strings.HasPrefix(dir, floor+"/") {
			break
		}
		if p.matchOne(dir, true) {
			return true
		}
	}
	return false
}

func (p *Pattern) matchOne(candidate string, isDir bool) bool {
	if p.dirOnly && !isDir {
		return false
	}
	// A file pattern spelling a directory's name must not catch the directory.
	if isDir && !p.dirOnly && p.literal && path.Base(p.body) == path.Base(candidate) {
		return false
	}
	matched, err := doublestar.Match(p.glob, candidate)
	if err != nil {
		return false
	}
	return matched
}

// MayMatchBeneath reports whether some path below dirRel could match. It
// compares the directory segments against the leading pattern segments and
// gives up (returns true) at the first "**".
func (p *Pattern) MayMatchBeneath(dirRel string) bool {
	dir := normalizePath(dirRel)
	if dir == "" {
		return true
	}
	for i, segment := range strings.Split(dir, "/") {
		if i >= len(p.segments) {
			// An ancestor already consumed the whole pattern.
			return true
		}
		if p.segments[i] == "**" {
			return true
		}
		matched, err := doublestar.Match(p.segments[i], segment)
		if err != nil || !matched {
			return false
		}
	}
	return true
}

// Matches compiles pattern and matches it against relPath. Malformed
// patterns never match.
func Matches(pattern, relPath string, isDir bool) bool {
	compiled, err := CompilePattern(pattern)
	if err != nil {
		return false
	}
	return compiled.Matches(relPath, isDir)
}

// normalizePath turns relPath into a clean slash-separated relative path
func normalizePath(relPath string) string {
	rel := strings.TrimSpace(relPath)
	rel = strings.ReplaceAll(rel, `\`, "/")
	rel = strings.TrimPrefix(rel, "./")
	rel = strings.Trim(rel, "/")
	if rel == "" {
		return ""
	}
	rel = path.Clean(rel)
	if rel == "." {
		return ""
	}
	return rel
}
