// Package paths provides centralized path handling for ctxdump.
// It resolves the processing root, validates targets against it and
// locates the XDG config and state directories.
//
// # Root resolution
//
// The processing root is resolved in this order:
//
//  1. The --root flag
//  2. CTXDUMP_ROOT
//  3. The enclosing git repository (git rev-parse --show-toplevel)
//  4. The current directory, reported through UsedFallback
//
// The result is absolute with symlinks resolved, and must be a directory;
// anything else is a ROOT_INVALID error.
//
// # Targets
//
// Targets given on the command line must lie under the root. One that does
// not is a TARGET_OUTSIDE_ROOT error, which stops the run before anything
// is walked.
//
// # Environment Variables
//
//   - CTXDUMP_ROOT: processing root when --root is not given
//   - CTXDUMP_CONFIG_DIR: override the config directory (default: $XDG_CONFIG_HOME/ctxdump)
//   - CTXDUMP_STATE_DIR: override the state directory holding the log file
//     (default: $XDG_STATE_HOME/ctxdump)
package paths
