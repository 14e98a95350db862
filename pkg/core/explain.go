package core

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/ctxdump/pkg/decision"
	"github.com/arthur-debert/ctxdump/pkg/errors"
	"github.com/arthur-debert/ctxdump/pkg/logging"
	"github.com/arthur-debert/ctxdump/pkg/walker"
)

// ExplainResult lists every verdict made during a walk
type ExplainResult struct {
	Decisions []decision.CheckResult `json:"decisions" yaml:"decisions"`
	// Accepted are the root-relative paths the rules let through, before
	// any content checks
	Accepted []string     `json:"accepted" yaml:"accepted"`
	Stats    walker.Stats `json:"stats" yaml:"stats"`
}

// Explain walks the targets like Dump but only records decisions
func Explain(ctx context.Context, opts Options) (*ExplainResult, error) {
	logger := logging.GetLogger("core.explain")
	logger.Info().
		Str("root", opts.Root).
		Strs("targets", opts.Targets).
		Msg("Starting explain")
	defer logging.StartOperation(logger, "explain")()

	collector := &decision.Collector{}
	s, err := newSession(opts, combineRecorders(collector, opts.Recorder))
	if err != nil {
		return nil, err
	}

	result := &ExplainResult{}
	err = runTargets(ctx, s, logger, func(a walker.Accepted) error {
		result.Accepted = append(result.Accepted, a.RelPath)
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Decisions = collector.Results()
	result.Stats = s.walker.Stats()
	return result, nil
}

// Check returns the verdict for a single path. A path listed in
// opts.Targets is treated as explicitly targeted, like in a walk.
func Check(opts Options, path string) (decision.CheckResult, error) {
	s, err := newSession(opts, opts.Recorder)
	if err != nil {
		return decision.CheckResult{}, err
	}

	path = filepath.Clean(path)
	if _, err := validateTargets(opts.Root, []string{path}); err != nil {
		return decision.CheckResult{}, err
	}

	info, err := s.fs.Lstat(path)
	if err != nil {
		return decision.CheckResult{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path)
	}

	entry := decision.Entry{
		Path:      path,
		IsDir:     info.IsDir(),
		IsSymlink: info.Mode()&fs.ModeSymlink != 0,
	}
	for _, t := range s.targets {
		if t.explicit && t.path == path {
			return s.engine.Explicit(entry), nil
		}
	}
	return s.engine.Decide(entry), nil
}
