// Package download fans the track pipeline out across a working set of
// video IDs, classifies per-track outcomes, and layers dedup caching on top.
package download
