package download

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ytget/ytmdl/internal/pipeline"
)

// TrackPipeline processes a single track end to end.
type TrackPipeline interface {
	Run(ctx context.Context, videoID string) error
}

// result is one finished track task.
type result struct {
	videoID string
	err     error
}

// Downloader executes the track pipeline for each video ID concurrently and
// partitions the outcomes. It holds no durable state; construct one per run
// or reuse freely.
type Downloader struct {
	pipeline TrackPipeline
	log      *zap.Logger
	stopped  atomic.Bool
}

// New creates a downloader over the given pipeline.
func New(p TrackPipeline, log *zap.Logger) *Downloader {
	return &Downloader{pipeline: p, log: log}
}

// Stop requests cooperative cancellation of an in-progress Download. Tracks
// already in flight finish to avoid half-written files; results not yet
// collected are dropped. Safe to call repeatedly and from any goroutine.
func (d *Downloader) Stop() {
	d.stopped.Store(true)
}

// Download runs the pipeline for every unique video ID and returns the IDs
// that downloaded successfully, in completion order.
//
// onSuccess fires once per successful track and onDiscarded once per
// filtered track, both from the result-collection goroutine only, so cache
// callbacks need no locking of their own. Either callback may be nil.
// Failures are logged and returned nowhere: a failed track stays uncached
// and eligible for retry.
func (d *Downloader) Download(ctx context.Context, videoIDs []string, onSuccess func(videoID string), onDiscarded func(videoIDs []string)) []string {
	d.stopped.Store(false)

	unique := dedupe(videoIDs)
	log := d.log.With(zap.String("runId", uuid.NewString()))
	log.Info("starting download", zap.Int("tracks", len(unique)))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so workers can always deliver and exit, even when the
	// fan-in loop bails out early on Stop.
	results := make(chan result, len(unique))
	for _, videoID := range unique {
		go func(videoID string) {
			results <- result{videoID: videoID, err: d.pipeline.Run(ctx, videoID)}
		}(videoID)
	}

	downloaded := make([]string, 0, len(unique))
	for range unique {
		if d.stopped.Load() {
			cancel()
			log.Info("download stopped", zap.Int("downloaded", len(downloaded)))
			break
		}

		res := <-results
		switch {
		case res.err == nil:
			downloaded = append(downloaded, res.videoID)
			if onSuccess != nil {
				onSuccess(res.videoID)
			}
		case errors.Is(res.err, pipeline.ErrFiltered):
			log.Info("discarding track", zap.String("videoId", res.videoID))
			if onDiscarded != nil {
				onDiscarded([]string{res.videoID})
			}
		default:
			log.Warn("couldn't download track",
				zap.String("videoId", res.videoID), zap.Error(res.err))
		}
	}

	log.Info("download finished", zap.Int("downloaded", len(downloaded)))
	return downloaded
}

// dedupe drops duplicate IDs while keeping first-seen order.
func dedupe(videoIDs []string) []string {
	seen := make(map[string]struct{}, len(videoIDs))
	unique := make([]string, 0, len(videoIDs))
	for _, id := range videoIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
