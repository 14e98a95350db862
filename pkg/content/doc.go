// Package content handles the files a walk accepts: it sniffs binaries,
// decodes text through an ordered list of encodings, renders dump blocks or
// list lines, and enforces the cumulative size limit.
package content
