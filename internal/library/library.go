package library

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ytget/ytmdl/internal/model"
)

// PersonalisedHomeTitles names the home feed sections worth pulling tracks
// from; everything else on home is charts and promos.
var PersonalisedHomeTitles = []string{
	"Listen again",
	"Mixed for you: moods",
	"Quick picks",
	"Mixed for you",
	"Forgotten favorites",
}

// HomeFeed supplies the personalised home feed as an extraction request.
type HomeFeed interface {
	HomeItems(ctx context.Context, filterTitles []string) (model.ExtractionRequest, error)
}

// Extractor expands an extraction request into video IDs.
type Extractor interface {
	Extract(ctx context.Context, req model.ExtractionRequest) []string
}

// CachedDownloader downloads a set of video IDs, skipping cached ones.
type CachedDownloader interface {
	Download(ctx context.Context, videoIDs []string) ([]string, error)
}

// Updater refreshes a library from the user's personalised home feed.
type Updater struct {
	home       HomeFeed
	extractor  Extractor
	downloader CachedDownloader
	log        *zap.Logger
}

// NewUpdater creates an updater over the given collaborators.
func NewUpdater(home HomeFeed, extractor Extractor, downloader CachedDownloader, log *zap.Logger) *Updater {
	return &Updater{
		home:       home,
		extractor:  extractor,
		downloader: downloader,
		log:        log,
	}
}

// Update pulls the personalised home sections, expands them, and downloads
// whatever the cache hasn't seen. limit bounds tracks per source.
// It returns the video IDs downloaded this run.
func (u *Updater) Update(ctx context.Context, limit int) ([]string, error) {
	u.log.Info("starting library update")

	req, err := u.home.HomeItems(ctx, PersonalisedHomeTitles)
	if err != nil {
		return nil, fmt.Errorf("fetch home items: %w", err)
	}
	req.Limit = limit

	videoIDs := u.extractor.Extract(ctx, req)
	downloaded, err := u.downloader.Download(ctx, videoIDs)
	if err != nil {
		return downloaded, fmt.Errorf("download library tracks: %w", err)
	}

	u.log.Info("library update finished", zap.Int("downloaded", len(downloaded)))
	return downloaded, nil
}
