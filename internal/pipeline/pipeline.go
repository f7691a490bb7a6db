package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ytget/ytmdl/internal/model"
)

// ErrFiltered marks a track rejected by the filter stage. It is an expected
// outcome, not a failure: the caller records the track as discarded so it is
// never retried.
var ErrFiltered = errors.New("pipeline: track filtered out")

// Fetcher retrieves a track's media to disk and exposes its metadata.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string) (*model.TrackInfo, error)
}

// LyricsProvider returns lyric text for a track, best effort.
type LyricsProvider interface {
	Lyrics(ctx context.Context, videoID string) (string, error)
}

// Tagger writes a metadata mapping into a finished media file. Fields absent
// from the mapping are left untouched, never cleared.
type Tagger interface {
	WriteTags(ctx context.Context, filepath string, tags model.Tags) error
}

// Pipeline processes one track at a time: fetch, filter, enrich, persist.
// Stages run strictly in that order for a given track.
type Pipeline struct {
	fetcher Fetcher
	lyrics  LyricsProvider
	tagger  Tagger
	log     *zap.Logger
}

// New creates a pipeline over the given collaborators.
func New(fetcher Fetcher, lyrics LyricsProvider, tagger Tagger, log *zap.Logger) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		lyrics:  lyrics,
		tagger:  tagger,
		log:     log,
	}
}

// Run processes a single track. It returns ErrFiltered (possibly wrapped)
// when the track is intentionally discarded, and any other error when the
// track failed and should stay eligible for retry.
func (p *Pipeline) Run(ctx context.Context, videoID string) error {
	info, err := p.fetcher.Fetch(ctx, videoID)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", videoID, err)
	}

	if !info.IsSong() {
		p.log.Info("discarding track without artist or title",
			zap.String("videoId", videoID))
		return fmt.Errorf("track %s: %w", videoID, ErrFiltered)
	}

	// Lyrics are best effort; a lookup failure means no lyrics, never a
	// failed track.
	lyrics, err := p.lyrics.Lyrics(ctx, videoID)
	if err != nil {
		p.log.Debug("no lyrics for track",
			zap.String("videoId", videoID), zap.Error(err))
		lyrics = ""
	}
	info.Lyrics = lyrics

	tags := model.Tags{
		Artist:       info.Artist,
		Title:        info.Title,
		URL:          info.WebpageURL,
		Lyrics:       info.Lyrics,
		ThumbnailURL: info.Thumbnail,
	}
	if err := p.tagger.WriteTags(ctx, info.Filepath, tags); err != nil {
		return fmt.Errorf("write tags for %s: %w", videoID, err)
	}

	p.log.Debug("processed track",
		zap.String("videoId", videoID),
		zap.String("file", info.Filepath))
	return nil
}
