// Package walker traverses target paths top-down, asks the decision engine
// about every entry and prunes excluded directories before reading them.
package walker

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/ctxdump/pkg/decision"
	"github.com/arthur-debert/ctxdump/pkg/errors"
	"github.com/arthur-debert/ctxdump/pkg/logging"
	"github.com/arthur-debert/ctxdump/pkg/types"
	"github.com/rs/zerolog"
)

// Accepted is a file selected for the dump
type Accepted struct {
	// Path is the absolute path to read
	Path string
	// RelPath is the root-relative slash path used in output
	RelPath  string
	Explicit bool
	Result   decision.CheckResult
}

// Stats counts what a walker saw
type Stats struct {
	DirsVisited   int
	DirsPruned    int
	FilesAccepted int
	FilesSkipped  int
	Duplicates    int
	Errors        int
}

// Walker walks targets under one root. The explicit target set and the
// processed-file set are shared by every Walk call, so overlapping targets
// never yield a file twice.
type Walker struct {
	fs        types.FS
	engine    *decision.Engine
	explicit  map[string]struct{}
	processed map[string]struct{}
	stats     Stats
	logger    zerolog.Logger
}

// New creates a walker. explicitTargets are absolute paths that bypass rule
// evaluation.
func New(fsys types.FS, engine *decision.Engine, explicitTargets ...string) *Walker {
	w := &Walker{
		fs:        fsys,
		engine:    engine,
		explicit:  make(map[string]struct{}, len(explicitTargets)),
		processed: make(map[string]struct{}),
		logger:    logging.GetLogger("walker"),
	}
	for _, target := range explicitTargets {
		w.AddTarget(target)
	}
	return w
}

// AddTarget marks path as explicitly requested
func (w *Walker) AddTarget(path string) {
	w.explicit[filepath.Clean(path)] = struct{}{}
}

// Stats returns the counters accumulated so far
func (w *Walker) Stats() Stats {
	return w.stats
}

func (w *Walker) isExplicit(path string) bool {
	_, ok := w.explicit[path]
	return ok
}

// Walk visits startPath. When explicit is true startPath itself bypasses
// the rules; entries found beneath it never do. yield errors abort the walk
// and are returned unchanged.
func (w *Walker) Walk(ctx context.Context, startPath string, explicit bool, yield func(Accepted) error) error {
	start := filepath.Clean(startPath)
	if explicit {
		w.AddTarget(start)
	}

	info, err := w.fs.Lstat(start)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", start)
	}

	entry := decision.Entry{
		Path:      start,
		IsDir:     info.IsDir(),
		IsSymlink: info.Mode()&fs.ModeSymlink != 0,
	}

	if entry.IsSymlink {
		w.engine.Explicit(entry)
		w.logger.Info().Str("path", start).Msg("Skipping symbolic link target")
		return nil
	}

	if !entry.IsDir {
		var result decision.CheckResult
		if w.isExplicit(start) {
			result = w.engine.Explicit(entry)
		} else {
			result = w.engine.Decide(entry)
		}
		return w.visitFile(entry, result, yield)
	}

	floor := ""
	switch {
	case w.isExplicit(start):
		floor = start
	case start != w.engine.Root():
		if result := w.engine.Decide(entry); !result.Included {
			w.stats.DirsPruned++
			return nil
		}
	}
	return w.walkDir(ctx, start, floor, yield)
}

// walkDir visits dir. floor is the closest explicitly targeted directory at
// or above dir.
func (w *Walker) walkDir(ctx context.Context, dir, floor string, yield func(Accepted) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.stats.DirsVisited++

	dirEntries, err := w.fs.ReadDir(dir)
	if err != nil {
		w.stats.Errors++
		w.logger.Warn().Err(err).Str("dir", dir).Msg("Cannot read directory, skipping it")
		return nil
	}

	var dirs, files []decision.Entry
	for _, de := range dirEntries {
		entry := decision.Entry{
			Path:      filepath.Join(dir, de.Name()),
			IsSymlink: de.Type()&fs.ModeSymlink != 0,
			Floor:     floor,
		}
		entry.IsDir = de.IsDir() && !entry.IsSymlink
		if entry.IsDir {
			dirs = append(dirs, entry)
		} else {
			files = append(files, entry)
		}
	}
	sortEntries(dirs)
	sortEntries(files)

	keep := w.selectDirs(dir, dirs)

	results := w.decideAll(dir, files)
	for i, entry := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.visitFile(entry, results[i], yield); err != nil {
			return err
		}
	}

	for _, sub := range keep {
		subFloor := floor
		if w.isExplicit(sub) {
			subFloor = sub
		}
		if err := w.walkDir(ctx, sub, subFloor, yield); err != nil {
			return err
		}
	}
	return nil
}

// selectDirs returns the child directories to descend into
func (w *Walker) selectDirs(dir string, dirs []decision.Entry) []string {
	results := w.decideAll(dir, dirs)

	keep := make([]string, 0, len(dirs))
	for i, entry := range dirs {
		if !results[i].Included {
			w.stats.DirsPruned++
			w.logger.Trace().Str("dir", entry.Path).Str("reason", results[i].Reason).Msg("Pruned directory")
			continue
		}
		keep = append(keep, entry.Path)
	}
	return keep
}

// decideAll decides entries from one directory, routing explicit targets
// around the rules
func (w *Walker) decideAll(dir string, entries []decision.Entry) []decision.CheckResult {
	results := make([]decision.CheckResult, len(entries))

	var pending []decision.Entry
	var index []int
	for i, entry := range entries {
		if !entry.IsSymlink && w.isExplicit(entry.Path) {
			results[i] = w.engine.Explicit(entry)
			continue
		}
		pending = append(pending, entry)
		index = append(index, i)
	}

	if len(pending) > 0 {
		for j, result := range w.engine.DecideInDir(dir, pending) {
			results[index[j]] = result
		}
	}
	return results
}

func (w *Walker) visitFile(entry decision.Entry, result decision.CheckResult, yield func(Accepted) error) error {
	if !result.Included {
		w.stats.FilesSkipped++
		return nil
	}

	if _, seen := w.processed[entry.Path]; seen {
		w.stats.Duplicates++
		w.logger.Debug().Str("path", entry.Path).Msg("Already processed, skipping")
		return nil
	}
	w.processed[entry.Path] = struct{}{}
	w.stats.FilesAccepted++

	return yield(Accepted{
		Path:     entry.Path,
		RelPath:  result.Path,
		Explicit: result.Reason == decision.ReasonExplicit,
		Result:   result,
	})
}

func sortEntries(entries []decision.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return filepath.Base(entries[i].Path) < filepath.Base(entries[j].Path)
	})
}
