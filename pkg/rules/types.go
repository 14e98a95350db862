package rules

import "fmt"

// Verb is the classification a rule applies when it matches
type Verb uint8

const (
	// Include selects the matching path for the dump
	Include Verb = iota + 1
	// Exclude removes the matching path from the dump
	Exclude
)

// String returns the past-tense form used in decision reasons
func (v Verb) String() string {
	switch v {
	case Include:
		return "Included"
	case Exclude:
		return "Excluded"
	default:
		return fmt.Sprintf("Verb(%d)", uint8(v))
	}
}

// Included reports whether the verb selects a path
func (v Verb) Included() bool {
	return v == Include
}

// Rule is one (verb, pattern) pair
type Rule struct {
	Verb    Verb
	Pattern string

	compiled *Pattern
}

// NewRule compiles pattern and returns the rule
func NewRule(verb Verb, pattern string) (Rule, error) {
	compiled, err := CompilePattern(pattern)
	if err != nil {
		return Rule{}, err
	}
	return Rule{Verb: verb, Pattern: pattern, compiled: compiled}, nil
}

// MustRule is NewRule for static tables; it panics on an invalid pattern
func MustRule(verb Verb, pattern string) Rule {
	rule, err := NewRule(verb, pattern)
	if err != nil {
		panic(err)
	}
	return rule
}

// Matches reports whether the rule's pattern matches relPath
func (r Rule) Matches(relPath string, isDir bool) bool {
	return r.MatchesBelow(relPath, isDir, "")
}

// MatchesBelow is Matches with ancestor checks stopping at floor
func (r Rule) MatchesBelow(relPath string, isDir bool, floor string) bool {
	compiled := r.compiled
	if compiled == nil {
		var err error
		if compiled, err = CompilePattern(r.Pattern); err != nil {
			return false
		}
	}
	return compiled.MatchesBelow(relPath, isDir, floor)
}

// MayMatchBeneath reports whether the rule could match something under dirRel
func (r Rule) MayMatchBeneath(dirRel string) bool {
	compiled := r.compiled
	if compiled == nil {
		var err error
		if compiled, err = CompilePattern(r.Pattern); err != nil {
			return false
		}
	}
	return compiled.MayMatchBeneath(dirRel)
}

// String renders the rule in rule-file syntax
func (r Rule) String() string {
	if r.Verb == Exclude {
		return "!" + r.Pattern
	}
	return r.Pattern
}

// Ruleset is an ordered list of rules from one source
type Ruleset struct {
	// Source names where the rules came from (a file path or a label)
	Source string
	// Dir is the absolute directory the rules are relative to; empty for
	// rulesets that are always matched root-relative
	Dir   string
	Rules []Rule
}

// Len returns the number of rules
func (rs Ruleset) Len() int {
	return len(rs.Rules)
}

// Empty reports whether the ruleset holds no rules
func (rs Ruleset) Empty() bool {
	return len(rs.Rules) == 0
}

// Match returns the last rule matching relPath
func (rs Ruleset) Match(relPath string, isDir bool) (Rule, bool) {
	return rs.MatchBelow(relPath, isDir, "")
}

// MatchBelow returns the last rule matching relPath, ignoring matches on
// ancestors at or above floor
func (rs Ruleset) MatchBelow(relPath string, isDir bool, floor string) (Rule, bool) {
	for i := len(rs.Rules) - 1; i >= 0; i-- {
		if rs.Rules[i].MatchesBelow(relPath, isDir, floor) {
			return rs.Rules[i], true
		}
	}
	return Rule{}, false
}

// HasInclude reports whether any rule is an Include rule
func (rs Ruleset) HasInclude() bool {
	for _, rule := range rs.Rules {
		if rule.Verb == Include {
			return true
		}
	}
	return false
}

// IncludeMayMatchBeneath reports whether an Include rule could match a path
// somewhere under dirRel
func (rs Ruleset) IncludeMayMatchBeneath(dirRel string) bool {
	for _, rule := range rs.Rules {
		if rule.Verb == Include && rule.MayMatchBeneath(dirRel) {
			return true
		}
	}
	return false
}
