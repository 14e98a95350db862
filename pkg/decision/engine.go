package decision

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/ctxdump/pkg/errors"
	"github.com/arthur-debert/ctxdump/pkg/logging"
	"github.com/arthur-debert/ctxdump/pkg/rules"
	"github.com/rs/zerolog"
)

// Options configures an Engine
type Options struct {
	// Root is the absolute processing root
	Root string
	// Inline rules come from the command line or an override file
	Inline rules.Ruleset
	// Global rules apply project-wide below local rule files
	Global rules.Ruleset
	// Defaults replaces the built-in table when non-nil
	Defaults *rules.Ruleset
	Mode     Mode
	// StrictClosestLocal consults only the closest non-empty rule file
	StrictClosestLocal bool
	Recorder           Recorder
	// Logger receives explain lines. It defaults to the "explain" component
	// once logging is set up, and to no output before that.
	Logger *zerolog.Logger
}

// Engine decides inclusion for entries under one root
type Engine struct {
	root     string
	mode     Mode
	inline   rules.Ruleset
	global   rules.Ruleset
	defaults rules.Ruleset
	locator  *rules.Locator
	strict   bool
	recorder Recorder
	logger   zerolog.Logger

	tiers []tierEvaluator
}

// query carries one entry through the tier evaluators
type query struct {
	abs   string
	rel   string
	isDir bool
	// floor is the absolute explicit directory above the entry, if any
	floor string
	// chain holds the local rulesets from the root down to the entry's
	// directory
	chain []rules.Ruleset
}

type match struct {
	rule   rules.Rule
	source string
}

type tierEvaluator struct {
	tier Tier
	eval func(q *query) (match, bool)
}

// New creates an engine. locator may be nil when no local rule files should
// be read.
func New(locator *rules.Locator, opts Options) (*Engine, error) {
	if opts.Root == "" || !filepath.IsAbs(opts.Root) {
		return nil, errors.Newf(errors.ErrRootInvalid, "root must be an absolute path, got %q", opts.Root).
			WithDetail("root", opts.Root)
	}

	e := &Engine{
		root:     filepath.Clean(opts.Root),
		mode:     opts.Mode,
		inline:   opts.Inline,
		global:   opts.Global,
		locator:  locator,
		strict:   opts.StrictClosestLocal,
		recorder: opts.Recorder,
		logger:   zerolog.Nop(),
	}
	switch {
	case opts.Logger != nil:
		e.logger = *opts.Logger
	case logging.Configured():
		e.logger = logging.GetLogger("explain")
	}
	if opts.Defaults != nil {
		e.defaults = *opts.Defaults
	} else {
		e.defaults = rules.DefaultRuleset()
	}

	e.tiers = e.buildTiers()
	return e, nil
}

// buildTiers returns the evaluators for the mode, highest precedence first
func (e *Engine) buildTiers() []tierEvaluator {
	tiers := []tierEvaluator{{TierInline, e.matchRootRelative(e.inline)}}
	if e.mode == ModeMerge {
		tiers = append(tiers,
			tierEvaluator{TierLocal, e.matchLocal},
			tierEvaluator{TierGlobal, e.matchRootRelative(e.global)},
		)
	}
	return append(tiers, tierEvaluator{TierDefault, e.matchRootRelative(e.defaults)})
}

// Root returns the processing root
func (e *Engine) Root() string {
	return e.root
}

// Mode returns the engine mode
func (e *Engine) Mode() Mode {
	return e.mode
}

// Decide returns the verdict for one entry
func (e *Engine) Decide(entry Entry) CheckResult {
	return e.DecideInDir(filepath.Dir(filepath.Clean(entry.Path)), []Entry{entry})[0]
}

// DecideInDir decides entries that all live directly in dir, reading the
// local rule chain once.
func (e *Engine) DecideInDir(dir string, entries []Entry) []CheckResult {
	results := make([]CheckResult, len(entries))
	chain := e.localChain(dir)

	for i, entry := range entries {
		results[i] = e.decide(entry, chain)
		e.emit(results[i])
	}
	return results
}

// Explicit records that entry was force-included as an explicit target.
// Symlinks are still excluded.
func (e *Engine) Explicit(entry Entry) CheckResult {
	abs := filepath.Clean(entry.Path)
	result := CheckResult{Path: abs, IsDir: entry.IsDir, Included: true, Reason: ReasonExplicit}
	if rel, ok := e.relative(abs); ok {
		result.Path = rel
	}
	if entry.IsSymlink {
		result.Included = false
		result.Reason = ReasonSymlink
	}
	e.emit(result)
	return result
}

func (e *Engine) decide(entry Entry, chain []rules.Ruleset) CheckResult {
	abs := filepath.Clean(entry.Path)

	rel, inside := e.relative(abs)
	result := CheckResult{Path: rel, IsDir: entry.IsDir}
	if !inside {
		result.Path = abs
	}

	if entry.IsSymlink {
		result.Reason = ReasonSymlink
		return result
	}
	if !inside {
		e.logger.Warn().Str("path", abs).Str("root", e.root).Msg("Entry is outside the root, excluding it")
		result.Reason = ReasonOutsideRoot
		return result
	}

	q := &query{abs: abs, rel: rel, isDir: entry.IsDir, floor: entry.Floor, chain: chain}
	for _, tier := range e.tiers {
		m, ok := tier.eval(q)
		if !ok {
			continue
		}
		result.Included = m.rule.Verb.Included()
		result.Tier = tier.tier
		result.Pattern = m.rule.Pattern
		result.Source = m.source
		result.Reason = formatReason(m.rule.Verb, tier.tier, m.source, m.rule.Pattern)
		return result
	}

	if e.mode == ModeOverride && e.inline.HasInclude() {
		if entry.IsDir && e.inline.IncludeMayMatchBeneath(rel) {
			result.Included = true
			result.Reason = ReasonOverrideDescend
			return result
		}
		result.Reason = ReasonNoOverrideMatch
		return result
	}

	result.Included = true
	result.Reason = ReasonDefaultInclude
	return result
}

func formatReason(verb rules.Verb, tier Tier, source, pattern string) string {
	if source != "" {
		return fmt.Sprintf("%s by %s (%s): '%s'", verb, tier.Label(), source, pattern)
	}
	return fmt.Sprintf("%s by %s: '%s'", verb, tier.Label(), pattern)
}

func (e *Engine) matchRootRelative(rs rules.Ruleset) func(q *query) (match, bool) {
	return func(q *query) (match, bool) {
		if rs.Empty() {
			return match{}, false
		}
		floor := ""
		if q.floor != "" {
			floor, _ = e.relative(filepath.Clean(q.floor))
		}
		rule, ok := rs.MatchBelow(q.rel, q.isDir, floor)
		if !ok {
			return match{}, false
		}
		source := rs.Source
		if source == rules.DefaultSource || source == "inline" {
			source = ""
		}
		return match{rule: rule, source: e.display(source)}, true
	}
}

// matchLocal checks rule files from the closest one upward. Each file's
// rules are matched relative to the directory holding it.
func (e *Engine) matchLocal(q *query) (match, bool) {
	for i := len(q.chain) - 1; i >= 0; i-- {
		rs := q.chain[i]
		rel, floor := q.rel, ""
		if q.floor != "" {
			floor, _ = e.relative(filepath.Clean(q.floor))
		}
		if rs.Dir != "" {
			if r, ok := relativeTo(rs.Dir, q.abs); ok {
				rel = r
				floor = ""
				if q.floor != "" {
					floor, _ = relativeTo(rs.Dir, filepath.Clean(q.floor))
				}
			}
		}

		if rule, ok := rs.MatchBelow(rel, q.isDir, floor); ok {
			return match{rule: rule, source: e.display(rs.Source)}, true
		}
		if e.strict {
			return match{}, false
		}
	}
	return match{}, false
}

func (e *Engine) localChain(dir string) []rules.Ruleset {
	if e.mode != ModeMerge || e.locator == nil {
		return nil
	}

	dir = filepath.Clean(dir)
	if _, ok := e.relative(dir); !ok {
		// The entry itself may be the root.
		dir = e.root
	}

	chain, err := e.locator.Chain(dir, e.root)
	if err != nil {
		e.logger.Warn().Err(err).Str("dir", dir).Msg("Cannot resolve local rules, ignoring them")
		return nil
	}
	return chain
}

func (e *Engine) relative(abs string) (string, bool) {
	if abs == e.root {
		return "", true
	}
	return relativeTo(e.root, abs)
}

// display shortens a rule file path to be root-relative when possible
func (e *Engine) display(source string) string {
	if source == "" || !filepath.IsAbs(source) {
		return source
	}
	if rel, ok := relativeTo(e.root, source); ok && rel != "" {
		return rel
	}
	return source
}

func (e *Engine) emit(result CheckResult) {
	e.logger.Debug().
		Str("path", result.Path).
		Str("tier", result.Tier.String()).
		Str("pattern", result.Pattern).
		Str("source", result.Source).
		Bool("included", result.Included).
		Str("reason", result.Reason).
		Msg("Decision")

	if e.recorder != nil {
		e.recorder.Record(result)
	}
}

// relativeTo returns target relative to base with forward slashes, failing
// when target is not below base.
func relativeTo(base, target string) (string, bool) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	if rel == "." {
		return "", true
	}
	return filepath.ToSlash(rel), true
}
