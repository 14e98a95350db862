// Package types defines the small interfaces shared across ctxdump: the FS
// abstraction every walk reads through and the Pather used to locate the
// processing root and the XDG directories.
package types
