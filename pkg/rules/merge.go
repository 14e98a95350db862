package rules

import "strings"

// Merge concatenates rulesets preserving order. Because the last match wins,
// later rulesets take precedence over earlier ones.
func Merge(tiers ...Ruleset) Ruleset {
	total := 0
	sources := make([]string, 0, len(tiers))
	for _, tier := range tiers {
		total += len(tier.Rules)
		if tier.Source != "" {
			sources = append(sources, tier.Source)
		}
	}

	out := Ruleset{
		Source: strings.Join(sources, "+"),
		Rules:  make([]Rule, 0, total),
	}
	for _, tier := range tiers {
		out.Rules = append(out.Rules, tier.Rules...)
	}
	return out
}
