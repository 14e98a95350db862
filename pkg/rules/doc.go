// Package rules provides the gitignore-style rule model used by ctxdump to
// decide which files end up in a context dump.
//
// # Rule File Syntax
//
// Rule files (".ctxrules" by default) hold one pattern per line:
//
//   - blank lines and lines starting with `#` are ignored
//   - `*.go` - Include rule
//   - `!*.log` - Exclude rule (leading !)
//   - `build/` - Directory-only pattern (trailing slash)
//   - `/TODO` - Anchored to the directory holding the rule file
//   - `docs/**/*.md` - `**` spans any number of path segments
//
// Note that the verbs are the reverse of .gitignore: a plain line selects a
// path for the dump, a bang line removes it.
//
// # Matching
//
// Within one Ruleset the last matching rule wins. Patterns without a slash
// match at any depth, patterns with a slash are relative to the rule file's
// directory. A pattern that matches a directory also matches everything
// beneath it. A plain file pattern never matches a directory whose name it
// spells literally: `build` leaves the directory alone, `build/` does not.
//
// # Sources
//
// Rulesets come from four places: inline rules given on the command line,
// local rule files found between the root and a directory (see Locator),
// a global rules file, and the built-in DefaultRuleset. How the four tiers
// are combined lives in package decision.
package rules
