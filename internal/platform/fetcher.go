package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	ytdlp "github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"github.com/ytget/ytmdl/internal/model"
)

// Fetch constants
const (
	// OutputTemplate keeps the video ID in the filename so the library
	// fix command can reconcile the cache against the directory later.
	OutputTemplate = "%(artist).30s - %(title).50s [%(id)s].%(ext)s"

	MaxFetchRetries      = 2
	InitialRetryInterval = 2 * time.Second
)

// YTDLPFetcher materializes tracks with yt-dlp: best audio, extracted to
// m4a, written under the download directory.
type YTDLPFetcher struct {
	downloadDir string
	log         *zap.Logger
}

// NewYTDLPFetcher creates a fetcher writing into downloadDir.
func NewYTDLPFetcher(downloadDir string, log *zap.Logger) *YTDLPFetcher {
	return &YTDLPFetcher{downloadDir: downloadDir, log: log}
}

// Fetch downloads one track and returns the metadata yt-dlp extracted.
// Transient failures are retried with exponential backoff before giving up.
func (f *YTDLPFetcher) Fetch(ctx context.Context, videoID string) (*model.TrackInfo, error) {
	url := fmt.Sprintf(model.WatchURLTemplate, videoID)

	cmd := ytdlp.New().
		Format("bestaudio/best").
		ExtractAudio().
		AudioFormat("m4a").
		RestrictFilenames().
		Output(f.downloadDir + "/" + OutputTemplate)

	var res *ytdlp.Result
	run := func() error {
		var err error
		res, err = cmd.Run(ctx, url)
		if err != nil {
			f.log.Debug("fetch attempt failed",
				zap.String("videoId", videoID), zap.Error(err))
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = InitialRetryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, MaxFetchRetries), ctx)
	if err := backoff.Retry(run, policy); err != nil {
		return nil, fmt.Errorf("yt-dlp run: %w", err)
	}

	return f.trackInfo(videoID, res)
}

// trackInfo maps yt-dlp's extracted info onto the pipeline's metadata view.
func (f *YTDLPFetcher) trackInfo(videoID string, res *ytdlp.Result) (*model.TrackInfo, error) {
	infos, err := res.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("extract info: %w", err)
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("no extracted info for %s", videoID)
	}

	info := infos[0]
	return &model.TrackInfo{
		VideoID:    videoID,
		Artist:     deref(info.Artist),
		Title:      deref(info.Title),
		WebpageURL: deref(info.WebpageURL),
		Thumbnail:  deref(info.Thumbnail),
		Filepath:   deref(info.Filename),
	}, nil
}

// deref unwraps yt-dlp's optional string fields.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
