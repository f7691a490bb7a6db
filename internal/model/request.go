package model

// Default values
const (
	DefaultPerSourceLimit = 50
)

// ExtractionRequest describes one bulk extraction: explicit video IDs that
// are passed through untouched, plus playlist and channel references that
// expand into more video IDs.
type ExtractionRequest struct {
	Videos    []string
	Playlists []string
	Channels  []string

	// Limit bounds the number of tracks taken from each playlist or
	// channel independently. Zero means DefaultPerSourceLimit.
	Limit int
}

// PerSourceLimit returns the effective per-source limit.
func (r ExtractionRequest) PerSourceLimit() int {
	if r.Limit <= 0 {
		return DefaultPerSourceLimit
	}
	return r.Limit
}

// IsEmpty reports whether the request contains no work at all.
func (r ExtractionRequest) IsEmpty() bool {
	return len(r.Videos) == 0 && len(r.Playlists) == 0 && len(r.Channels) == 0
}
