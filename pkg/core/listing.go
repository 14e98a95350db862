package core

import "github.com/arthur-debert/ctxdump/pkg/rules"

// RuleListing is a ruleset in rule-file syntax
type RuleListing struct {
	Source string   `json:"source" yaml:"source"`
	Rules  []string `json:"rules" yaml:"rules"`
}

// ListRules renders rs one rule per line, exclusions with a leading "!"
func ListRules(rs rules.Ruleset) RuleListing {
	listing := RuleListing{Source: rs.Source, Rules: make([]string, 0, rs.Len())}
	for _, rule := range rs.Rules {
		listing.Rules = append(listing.Rules, rule.String())
	}
	return listing
}

// Defaults lists the built-in default ruleset
func Defaults() RuleListing {
	return ListRules(rules.DefaultRuleset())
}
