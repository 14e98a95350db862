package paths

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/ctxdump/pkg/errors"
)

// ValidatePath performs basic validation on a path.
// It checks for:
// - Empty paths
// - Null bytes
// - Excessive path length
func ValidatePath(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}

	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidInput, "path contains null bytes")
	}

	// Common filesystem limit
	if len(path) > 4096 {
		return errors.New(errors.ErrInvalidInput, "path exceeds maximum length")
	}

	return nil
}

// SanitizePath expands ~ and cleans the path
func SanitizePath(path string) string {
	cleaned := filepath.Clean(expandHome(path))
	if cleaned == "" {
		return "."
	}
	return cleaned
}

// RelativePath returns the relative path from base to target.
// Returns an error if the paths cannot be made relative.
func RelativePath(base, target string) (string, error) {
	base = SanitizePath(base)
	target = SanitizePath(target)

	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrPathRelative,
			"cannot determine relative path from %s to %s", base, target)
	}
	return rel, nil
}

// ContainsPath checks if child is parent or lies beneath it.
// Both paths are normalized before comparison.
func ContainsPath(parent, child string) bool {
	parent = SanitizePath(parent)
	child = SanitizePath(child)

	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
