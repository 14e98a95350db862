package rules

import (
	"bufio"
	"io"
	"strings"

	"github.com/arthur-debert/ctxdump/pkg/errors"
	"github.com/arthur-debert/ctxdump/pkg/logging"
)

// Parse parses rule-file text into a Ruleset.
//
// Semantics:
//   - lines are trimmed; blank lines and `#` comments are skipped
//   - "!pattern" becomes an Exclude rule
//   - every other line becomes an Include rule
//
// Invalid patterns are logged and skipped so one bad line never discards
// the rest of the file.
func Parse(text string) Ruleset {
	rs, err := ParseReader(strings.NewReader(text))
	if err != nil {
		logger := logging.GetLogger("rules.parse")
		logger.Warn().Err(err).Msg("Failed to scan rules text")
	}
	return rs
}

// ParseReader parses rules from a reader
func ParseReader(r io.Reader) (Ruleset, error) {
	logger := logging.GetLogger("rules.parse")

	scanner := bufio.NewScanner(r)
	rs := Ruleset{Rules: make([]Rule, 0, 16)}
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		verb := Include
		if strings.HasPrefix(line, "!") {
			verb = Exclude
			line = strings.TrimSpace(line[1:])
		}
		if line == "" {
			continue
		}

		rule, err := NewRule(verb, line)
		if err != nil {
			logger.Warn().
				Err(err).
				Int("line", lineNo).
				Str("pattern", line).
				Msg("Skipping invalid rule")
			continue
		}
		rs.Rules = append(rs.Rules, rule)
	}

	if err := scanner.Err(); err != nil {
		return rs, errors.Wrap(err, errors.ErrRulesLoad, "scan rules")
	}

	return rs, nil
}

// ParseOverride parses an override rules file. The format is the rule-file
// format; comments are stripped and the remaining lines are handed over as
// a literal ordered list.
func ParseOverride(text string) Ruleset {
	rs := Parse(text)
	rs.Source = "override"
	return rs
}

// FromPatterns builds a ruleset from patterns given one by one, such as
// repeated command-line flags.
func FromPatterns(source string, patterns []string) Ruleset {
	rs := Parse(strings.Join(patterns, "\n"))
	rs.Source = source
	return rs
}
