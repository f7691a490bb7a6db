package platform

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	mp4tag "github.com/zhaarey/go-mp4tag"
	"go.uber.org/zap"

	"github.com/ytget/ytmdl/internal/model"
)

// Tag constants
const (
	// URLTagKey is the freeform atom the track's webpage URL lands in.
	URLTagKey = "WWW"

	ThumbnailFetchTimeout = 15 * time.Second
)

// MP4Tagger writes metadata into m4a files. Fields that are empty in the
// mapping are simply not written, so existing tag values survive.
type MP4Tagger struct {
	client *http.Client
	log    *zap.Logger
}

// NewMP4Tagger creates a tagger with its own HTTP client for cover art.
func NewMP4Tagger(log *zap.Logger) *MP4Tagger {
	return &MP4Tagger{
		client: &http.Client{Timeout: ThumbnailFetchTimeout},
		log:    log,
	}
}

// WriteTags persists the mapping into the file's mp4 atoms.
func (t *MP4Tagger) WriteTags(ctx context.Context, filepath string, tags model.Tags) error {
	mp4, err := mp4tag.Open(filepath)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath, err)
	}
	defer mp4.Close()

	out := &mp4tag.MP4Tags{
		Artist: tags.Artist,
		Title:  tags.Title,
		Lyrics: tags.Lyrics,
		Custom: map[string]string{},
	}
	if tags.URL != "" {
		out.Custom[URLTagKey] = tags.URL
	}

	if tags.ThumbnailURL != "" {
		cover, err := t.fetchThumbnail(ctx, tags.ThumbnailURL)
		if err != nil {
			// Cover art is decoration; a fetch failure never fails
			// the track.
			t.log.Debug("couldn't fetch cover art",
				zap.String("url", tags.ThumbnailURL), zap.Error(err))
		} else {
			out.Pictures = []*mp4tag.MP4Picture{{Data: cover}}
		}
	}

	if err := mp4.Write(out, []string{}); err != nil {
		return fmt.Errorf("write tags to %s: %w", filepath, err)
	}
	return nil
}

// fetchThumbnail downloads cover art bytes.
func (t *MP4Tagger) fetchThumbnail(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build thumbnail request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get thumbnail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get thumbnail: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
