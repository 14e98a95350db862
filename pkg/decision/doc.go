// Package decision turns the rule tiers into a verdict for one filesystem
// entry.
//
// Tiers are tried in fixed order, Inline > Local > Global > Default, and
// the first tier holding a matching rule decides. Inside a tier the last
// matching rule wins. When nothing matches the entry is included.
//
// The local tier walks from the entry's directory up to the root and stops
// at the closest rule file that matches; with StrictClosestLocal only the
// closest non-empty rule file is consulted.
//
// In ModeOverride the local and global tiers are skipped. If the inline
// rules contain an include, they act as a whitelist: unmatched files are
// excluded and unmatched directories are kept only while some include could
// still match beneath them.
//
// Every verdict is written to the "explain" logger at debug level and, when
// configured, handed to a Recorder.
package decision
