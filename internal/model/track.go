package model

// URL templates
const (
	WatchURLTemplate = "https://music.youtube.com/watch?v=%s"
)

// TrackInfo is the metadata exposed by the fetch backend once a track has
// been materialized on disk. Artist and Title may be empty; the pipeline's
// filter stage decides what to do about that.
type TrackInfo struct {
	VideoID    string
	Artist     string
	Title      string
	WebpageURL string
	Thumbnail  string
	Lyrics     string
	Filepath   string
}

// IsSong reports whether the track carries the descriptive fields required
// to keep it. Tracks without both artist and title are discarded.
func (t *TrackInfo) IsSong() bool {
	return t.Artist != "" && t.Title != ""
}

// Tags is the metadata mapping handed to the tag writer. Empty fields are
// skipped by the writer, never cleared.
type Tags struct {
	Artist       string
	Title        string
	URL          string
	Lyrics       string
	ThumbnailURL string
}
