package extractor

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ytget/ytmdl/internal/model"
)

// Concurrency constants
const (
	// MaxConcurrentResolutions caps in-flight source resolutions,
	// independent of how many references a request carries.
	MaxConcurrentResolutions = 10
)

// Catalog resolves collection references against the music catalog.
type Catalog interface {
	// Playlist returns up to limit video IDs from a playlist.
	Playlist(ctx context.Context, playlistID string, limit int) ([]string, error)

	// WatchPlaylist is the secondary lookup for playlists the primary
	// endpoint cannot serve (mixes, radio-style lists).
	WatchPlaylist(ctx context.Context, playlistID string, limit int) ([]string, error)

	// ArtistSongsPlaylist returns the playlist ID holding all songs of
	// the channel's artist.
	ArtistSongsPlaylist(ctx context.Context, channelID string) (string, error)
}

// Extractor turns an ExtractionRequest into video IDs. Failures of a single
// source are logged and dropped; extraction as a whole never fails, it only
// degrades to fewer IDs.
type Extractor struct {
	catalog Catalog
	log     *zap.Logger
}

// New creates an extractor over the given catalog.
func New(catalog Catalog, log *zap.Logger) *Extractor {
	return &Extractor{catalog: catalog, log: log}
}

// Extract resolves every playlist and channel reference concurrently and
// returns the union of the request's explicit video IDs and all resolved
// ones. Duplicates are preserved; the orchestrator de-duplicates later.
func (e *Extractor) Extract(ctx context.Context, req model.ExtractionRequest) []string {
	limit := req.PerSourceLimit()

	var mu sync.Mutex
	videoIDs := append([]string{}, req.Videos...)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentResolutions)

	resolve := func(ref string, fn func(context.Context, string, int) ([]string, error)) {
		g.Go(func() error {
			ids, err := fn(ctx, ref, limit)
			if err != nil {
				e.log.Warn("skipping source, couldn't extract video ids",
					zap.String("ref", ref), zap.Error(err))
				return nil
			}
			mu.Lock()
			videoIDs = append(videoIDs, ids...)
			mu.Unlock()
			return nil
		})
	}

	for _, playlist := range req.Playlists {
		resolve(playlist, e.fromPlaylist)
	}
	for _, channel := range req.Channels {
		resolve(channel, e.fromChannel)
	}

	// Workers never return errors, so Wait only synchronizes.
	g.Wait()

	e.log.Info("extraction finished", zap.Int("videoIds", len(videoIDs)))
	return videoIDs
}

// fromPlaylist resolves one playlist reference, falling back to the watch
// playlist lookup when the primary one fails or comes back empty.
func (e *Extractor) fromPlaylist(ctx context.Context, playlistID string, limit int) ([]string, error) {
	ids, err := e.catalog.Playlist(ctx, playlistID, limit)
	if err == nil && len(ids) > 0 {
		return capIDs(ids, limit), nil
	}
	if err != nil {
		e.log.Debug("primary playlist lookup failed, trying watch playlist",
			zap.String("playlistId", playlistID), zap.Error(err))
	}

	ids, err = e.catalog.WatchPlaylist(ctx, playlistID, limit)
	if err != nil {
		return nil, fmt.Errorf("couldn't get songs from %s: %w", playlistID, err)
	}
	return capIDs(ids, limit), nil
}

// fromChannel resolves a channel in two steps: locate the artist's songs
// playlist, then resolve it like any other playlist.
func (e *Extractor) fromChannel(ctx context.Context, channelID string, limit int) ([]string, error) {
	playlistID, err := e.catalog.ArtistSongsPlaylist(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("resolve channel %s: %w", channelID, err)
	}
	return e.fromPlaylist(ctx, playlistID, limit)
}

// capIDs bounds the slice to the per-source limit.
func capIDs(ids []string, limit int) []string {
	if len(ids) > limit {
		return ids[:limit]
	}
	return ids
}
