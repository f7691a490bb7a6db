// Package pipeline runs the per-track processing chain: fetch the media,
// filter out non-songs, enrich with lyrics, and persist tags into the file.
package pipeline
