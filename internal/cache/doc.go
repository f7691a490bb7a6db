// Package cache persists which tracks have already been processed, so a
// library update never fetches the same track twice across runs.
package cache
