package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/ytget/ytdlp/v2"
	"go.uber.org/zap"
)

// Timeout constants
const (
	DefaultListTimeout = 60 * time.Second
)

// PlaylistLister lists a public playlist's video IDs without touching the
// authenticated music API. The extractor uses it as the primary playlist
// lookup; personalised mixes fall through to the watch-playlist path.
type PlaylistLister struct {
	timeout time.Duration
	log     *zap.Logger
}

// NewPlaylistLister creates a lister with the default timeout.
func NewPlaylistLister(log *zap.Logger) *PlaylistLister {
	return &PlaylistLister{timeout: DefaultListTimeout, log: log}
}

// SetTimeout sets the timeout for a single listing call.
func (l *PlaylistLister) SetTimeout(timeout time.Duration) {
	l.timeout = timeout
}

// Playlist returns up to limit video IDs from the playlist.
func (l *PlaylistLister) Playlist(ctx context.Context, playlistID string, limit int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, limit)
	if err != nil {
		return nil, fmt.Errorf("get playlist items: %w", err)
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.VideoID)
	}
	l.log.Debug("listed playlist",
		zap.String("playlistId", playlistID), zap.Int("items", len(ids)))
	return ids, nil
}
