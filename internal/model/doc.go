// Package model contains the domain types shared across the downloader:
// track metadata, extraction requests, and cache outcomes.
package model
