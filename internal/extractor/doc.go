// Package extractor expands playlist and channel references into flat
// sequences of video IDs using a bounded worker pool.
package extractor
