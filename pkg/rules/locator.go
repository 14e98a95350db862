package rules

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/ctxdump/pkg/errors"
	"github.com/arthur-debert/ctxdump/pkg/logging"
	"github.com/arthur-debert/ctxdump/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultFileName is the conventional local rule file name
const DefaultFileName = ".ctxrules"

// Locator finds local rule files between a root and a directory
type Locator struct {
	fs       types.FS
	fileName string
	cache    *Cache
	logger   zerolog.Logger
}

// NewLocator creates a locator reading fileName in each directory. A nil
// cache gets a private one.
func NewLocator(fs types.FS, fileName string, cache *Cache) *Locator {
	if fileName == "" {
		fileName = DefaultFileName
	}
	if cache == nil {
		cache = NewCache()
	}
	return &Locator{
		fs:       fs,
		fileName: fileName,
		cache:    cache,
		logger:   logging.GetLogger("rules.locator"),
	}
}

// FileName returns the rule file name the locator looks for
func (l *Locator) FileName() string {
	return l.fileName
}

// Cache returns the locator's rule cache
func (l *Locator) Cache() *Cache {
	return l.cache
}

// FindLocalRuleset returns the ruleset defined in dir, if any. Missing and
// unreadable files both count as absent; the latter is logged.
func (l *Locator) FindLocalRuleset(dir string) (Ruleset, bool) {
	dir = filepath.Clean(dir)
	return l.cache.Load(dir, func() (Ruleset, bool) {
		rulePath := filepath.Join(dir, l.fileName)

		info, err := l.fs.Stat(rulePath)
		if err != nil {
			if !os.IsNotExist(err) {
				l.logger.Warn().Err(err).Str("path", rulePath).Msg("Cannot stat rules file, ignoring it")
			}
			return Ruleset{}, false
		}
		if info.IsDir() {
			l.logger.Warn().Str("path", rulePath).Msg("Rules file is a directory, ignoring it")
			return Ruleset{}, false
		}

		rs, err := LoadFile(l.fs, rulePath)
		if err != nil {
			l.logger.Warn().Err(err).Str("path", rulePath).Msg("Failed to load rules file, ignoring it")
			return Ruleset{}, false
		}
		rs.Dir = dir

		l.logger.Debug().
			Str("path", rulePath).
			Int("rules", rs.Len()).
			Msg("Loaded local rules")
		return rs, true
	})
}

// FindRuleFilesOnPath returns the rule files that exist from root down to
// dir, root first.
func (l *Locator) FindRuleFilesOnPath(dir, root string) ([]string, error) {
	dirs, err := DirsOnPath(dir, root)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, d := range dirs {
		if _, ok := l.FindLocalRuleset(d); ok {
			files = append(files, filepath.Join(d, l.fileName))
		}
	}
	return files, nil
}

// Chain returns the non-empty local rulesets from root down to dir, root
// first.
func (l *Locator) Chain(dir, root string) ([]Ruleset, error) {
	dirs, err := DirsOnPath(dir, root)
	if err != nil {
		return nil, err
	}

	chain := make([]Ruleset, 0, len(dirs))
	for _, d := range dirs {
		rs, ok := l.FindLocalRuleset(d)
		if !ok || rs.Empty() {
			continue
		}
		chain = append(chain, rs)
	}
	return chain, nil
}

// DirsOnPath lists the directories from root down to dir inclusive. Both
// paths must be absolute; dir outside root is an error rather than an
// unbounded ascent.
func DirsOnPath(dir, root string) ([]string, error) {
	root = filepath.Clean(root)
	dir = filepath.Clean(dir)

	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPathRelative, "%s is not relative to %s", dir, root)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, errors.Newf(errors.ErrPathRelative, "%s is outside root %s", dir, root).
			WithDetail("root", root).
			WithDetail("path", dir)
	}

	dirs := []string{root}
	if rel == "." {
		return dirs, nil
	}

	current := root
	for _, segment := range strings.Split(rel, string(filepath.Separator)) {
		current = filepath.Join(current, segment)
		dirs = append(dirs, current)
	}
	return dirs, nil
}
