package decision

import (
	"fmt"
	"strings"
	"sync"

	"github.com/arthur-debert/ctxdump/pkg/errors"
)

// Tier identifies the rule group that produced a verdict
type Tier int

const (
	// TierNone marks verdicts not produced by a rule
	TierNone Tier = iota
	TierInline
	TierLocal
	TierGlobal
	TierDefault
)

var tierNames = map[Tier]string{
	TierNone:    "none",
	TierInline:  "inline",
	TierLocal:   "local",
	TierGlobal:  "global",
	TierDefault: "default",
}

// String returns the short name used in logs and structured output
func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// Label returns the name used in human readable reasons
func (t Tier) Label() string {
	switch t {
	case TierInline:
		return "Inline Rule"
	case TierLocal:
		return "Local Rule"
	case TierGlobal:
		return "Global Rule"
	case TierDefault:
		return "Default Rule"
	default:
		return "No Rule"
	}
}

// MarshalText renders the tier by name in JSON and YAML
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Mode selects which tiers take part in a decision
type Mode int

const (
	// ModeMerge evaluates all four tiers
	ModeMerge Mode = iota
	// ModeOverride evaluates inline rules and defaults only
	ModeOverride
)

func (m Mode) String() string {
	switch m {
	case ModeMerge:
		return "merge"
	case ModeOverride:
		return "override"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name; empty means merge
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "merge":
		return ModeMerge, nil
	case "override":
		return ModeOverride, nil
	default:
		return ModeMerge, errors.Newf(errors.ErrInvalidInput, "unknown rules mode %q (want merge or override)", s).
			WithDetail("mode", s)
	}
}

// Reasons for verdicts not produced by a matching rule
const (
	ReasonSymlink         = "Excluded: Item is a symbolic link"
	ReasonOutsideRoot     = "Excluded: path is outside the root"
	ReasonDefaultInclude  = "Included by default (no matching rules)"
	ReasonNoOverrideMatch = "Excluded: no matching override rule"
	ReasonOverrideDescend = "Included: override rules may match beneath"
	ReasonExplicit        = "Explicitly targeted"
)

// Entry is one filesystem entry to decide on
type Entry struct {
	// Path is absolute
	Path      string
	IsDir     bool
	IsSymlink bool
	// Floor is the absolute path of an explicitly targeted directory above
	// the entry. Rules matching that directory or its ancestors do not
	// reach the entry.
	Floor string
}

// CheckResult is the verdict for one entry
type CheckResult struct {
	// Path is root-relative with forward slashes, or the absolute path when
	// the entry is outside the root
	Path     string `json:"path" yaml:"path"`
	IsDir    bool   `json:"is_dir" yaml:"is_dir"`
	Included bool   `json:"included" yaml:"included"`
	Reason   string `json:"reason" yaml:"reason"`
	Tier     Tier   `json:"tier" yaml:"tier"`
	Pattern  string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Recorder receives every verdict an engine produces
type Recorder interface {
	Record(CheckResult)
}

// Collector is a Recorder that keeps verdicts in order
type Collector struct {
	mu      sync.Mutex
	results []CheckResult
}

// Record appends result
func (c *Collector) Record(result CheckResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, result)
}

// Results returns a copy of the recorded verdicts
func (c *Collector) Results() []CheckResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CheckResult, len(c.results))
	copy(out, c.results)
	return out
}
