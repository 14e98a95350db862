// Package testutil provides utilities for testing ctxdump components.
//
// Key components:
//   - MemoryFS: in-memory filesystem with symlinks, error injection and
//     per-directory read counters (used to assert pruning)
//   - Tree: declarative fixture builder for rule-file trees
//
// Usage guidelines:
//   - Prefer MemoryFS; only symlink behaviour against the kernel needs a
//     real t.TempDir() tree
//   - All test data should be defined inline, not in external files
package testutil
