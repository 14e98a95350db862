// Package registry provides a small generic, concurrency-safe name to item
// registry. Packages use it to expose pluggable named implementations, such
// as the text decoders of the content package, registered from init().
package registry
