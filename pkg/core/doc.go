// Package core implements the ctxdump pipeline: it validates targets,
// builds one decision engine and one walker per run and feeds the accepted
// files through the content collaborators.
//
// # Run model
//
// Targets are processed sequentially in the order given. They share one
// rule cache, one explicit target set and one processed-file set, so
// overlapping targets never produce a file twice and a rule file is read at
// most once per run.
//
// When no target is given the whole root is walked and nothing is
// explicitly targeted.
//
// # Hard stops
//
// Only configuration errors (invalid root, target outside the root) and the
// size limit stop a run. Everything else is logged, the entry is skipped and
// the walk continues. A run that stops returns no output at all: Dump
// renders into a buffer and only hands it back on success.
package core
