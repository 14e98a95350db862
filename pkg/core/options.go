package core

import (
	"path/filepath"

	"github.com/arthur-debert/ctxdump/pkg/decision"
	"github.com/arthur-debert/ctxdump/pkg/errors"
	"github.com/arthur-debert/ctxdump/pkg/filesystem"
	"github.com/arthur-debert/ctxdump/pkg/paths"
	"github.com/arthur-debert/ctxdump/pkg/rules"
	"github.com/arthur-debert/ctxdump/pkg/types"
	"github.com/arthur-debert/ctxdump/pkg/walker"
)

// Options holds what every run needs to decide inclusion
type Options struct {
	// Root is the absolute, resolved processing root
	Root string
	// Targets are absolute paths under Root. Empty walks the whole root.
	Targets []string

	Inline rules.Ruleset
	Global rules.Ruleset
	// Defaults replaces the built-in default ruleset when non-nil
	Defaults           *rules.Ruleset
	Mode               decision.Mode
	StrictClosestLocal bool
	// RulesFileName is the local rule file name, .ctxrules when empty
	RulesFileName string

	// Encodings are tried in order when decoding content
	Encodings []string
	// SniffBytes is how much of a file the binary check reads
	SniffBytes int

	FileSystem types.FS
	// Recorder additionally receives every verdict
	Recorder decision.Recorder
}

// target is one walk start
type target struct {
	path     string
	explicit bool
}

// session is the state shared by all targets of one run
type session struct {
	fs      types.FS
	engine  *decision.Engine
	walker  *walker.Walker
	targets []target
}

func newSession(opts Options, recorder decision.Recorder) (*session, error) {
	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}

	targets, err := validateTargets(opts.Root, opts.Targets)
	if err != nil {
		return nil, err
	}

	locator := rules.NewLocator(fs, opts.RulesFileName, rules.NewCache())
	engine, err := decision.New(locator, decision.Options{
		Root:               opts.Root,
		Inline:             opts.Inline,
		Global:             opts.Global,
		Defaults:           opts.Defaults,
		Mode:               opts.Mode,
		StrictClosestLocal: opts.StrictClosestLocal,
		Recorder:           recorder,
	})
	if err != nil {
		return nil, err
	}

	var explicit []string
	for _, t := range targets {
		if t.explicit {
			explicit = append(explicit, t.path)
		}
	}

	return &session{
		fs:      fs,
		engine:  engine,
		walker:  walker.New(fs, engine, explicit...),
		targets: targets,
	}, nil
}

// validateTargets checks targets against root. No targets means the root
// itself, walked without being explicit.
func validateTargets(root string, raw []string) ([]target, error) {
	if root == "" || !filepath.IsAbs(root) {
		return nil, errors.Newf(errors.ErrRootInvalid, "root must be an absolute path, got %q", root).
			WithDetail("root", root)
	}
	root = filepath.Clean(root)

	if len(raw) == 0 {
		return []target{{path: root}}, nil
	}

	targets := make([]target, 0, len(raw))
	for _, path := range raw {
		if !filepath.IsAbs(path) {
			return nil, errors.Newf(errors.ErrInvalidInput, "target must be an absolute path, got %q", path).
				WithDetail("target", path)
		}
		path = filepath.Clean(path)
		if !paths.ContainsPath(root, path) {
			return nil, errors.Newf(errors.ErrTargetOutsideRoot, "target %s is outside the root %s", path, root).
				WithDetail("root", root).
				WithDetail("target", path)
		}
		targets = append(targets, target{path: path, explicit: true})
	}
	return targets, nil
}

// multiRecorder fans verdicts out to several recorders
type multiRecorder []decision.Recorder

func (m multiRecorder) Record(result decision.CheckResult) {
	for _, r := range m {
		r.Record(result)
	}
}

func combineRecorders(recorders ...decision.Recorder) decision.Recorder {
	var out multiRecorder
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}
