package ytmusic

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ytget/ytmdl/internal/model"
)

// Browse IDs
const (
	homeBrowseID = "FEmusic_home"
)

// HomeItems fetches the personalised home feed and splits its contents into
// an extraction request: plain tracks, playlists, and artist channels.
// Sections whose title is not in filterTitles are skipped; an empty filter
// keeps everything.
func (c *Client) HomeItems(ctx context.Context, filterTitles []string) (model.ExtractionRequest, error) {
	var req model.ExtractionRequest

	resp, err := c.post(ctx, endpointBrowse, map[string]any{
		"browseId": homeBrowseID,
	})
	if err != nil {
		return req, err
	}

	wanted := make(map[string]struct{}, len(filterTitles))
	for _, title := range filterTitles {
		wanted[strings.ToLower(title)] = struct{}{}
	}

	for _, shelf := range findAllMaps(resp, "musicCarouselShelfRenderer") {
		title := navString(shelf,
			"header", "musicCarouselShelfBasicHeaderRenderer", "title", "runs", 0, "text")
		if len(wanted) > 0 {
			if _, ok := wanted[strings.ToLower(title)]; !ok {
				continue
			}
		}

		for _, item := range navSlice(shelf, "contents") {
			// Items carry a videoId, a playlistId, or (for artists)
			// a browseId next to a subscriber count. An item can be
			// both a track and part of a playlist; record each facet.
			if id, ok := findKey(item, "videoId"); ok {
				req.Videos = append(req.Videos, id)
				continue
			}
			if hasKey(item, "subscribers") {
				if id, ok := findKey(item, "browseId"); ok {
					req.Channels = append(req.Channels, id)
				}
				continue
			}
			if id, ok := findKey(item, "playlistId"); ok {
				req.Playlists = append(req.Playlists, id)
			}
		}
	}

	c.log.Info("fetched home feed",
		zap.Int("videos", len(req.Videos)),
		zap.Int("playlists", len(req.Playlists)),
		zap.Int("channels", len(req.Channels)))
	return req, nil
}
