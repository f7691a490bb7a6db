package download

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ytget/ytmdl/internal/cache"
)

// CacheDownloader composes a Downloader with a dedup store: already-seen
// tracks are filtered out before dispatch, outcomes are written back through
// the fan-in callbacks, and the pending batch is flushed on completion.
type CacheDownloader struct {
	downloader *Downloader
	cache      cache.Cache
	log        *zap.Logger
}

// NewCached wraps a downloader with the given store.
func NewCached(d *Downloader, c cache.Cache, log *zap.Logger) *CacheDownloader {
	return &CacheDownloader{downloader: d, cache: c, log: log}
}

// Stop forwards cooperative cancellation to the underlying downloader.
func (cd *CacheDownloader) Stop() {
	cd.downloader.Stop()
}

// Download runs the pipeline for the uncached subset of videoIDs and
// records every classified outcome. The store is committed before
// returning, including after a Stop, so the store is always left flushable.
func (cd *CacheDownloader) Download(ctx context.Context, videoIDs []string) ([]string, error) {
	uncached, err := cd.cache.FilterUncached(ctx, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("filter uncached: %w", err)
	}
	cd.log.Info("downloading uncached tracks",
		zap.Int("requested", len(videoIDs)), zap.Int("uncached", len(uncached)))

	// Callbacks run on the fan-in goroutine only, which serializes all
	// store mutations during the run.
	onSuccess := func(videoID string) {
		if err := cd.cache.AddItems(ctx, []string{videoID}); err != nil {
			cd.log.Error("couldn't record downloaded track",
				zap.String("videoId", videoID), zap.Error(err))
		}
	}
	onDiscarded := func(videoIDs []string) {
		if err := cd.cache.AddDiscardedItems(ctx, videoIDs); err != nil {
			cd.log.Error("couldn't record discarded tracks",
				zap.Strings("videoIds", videoIDs), zap.Error(err))
		}
	}

	downloaded := cd.downloader.Download(ctx, uncached, onSuccess, onDiscarded)

	if err := cd.cache.Commit(ctx); err != nil {
		return downloaded, fmt.Errorf("commit cache: %w", err)
	}
	return downloaded, nil
}
