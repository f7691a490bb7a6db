// Package library implements the two maintenance flows over a download
// directory: updating it from the personalised home feed, and reconciling
// the dedup store against the files actually on disk.
package library
