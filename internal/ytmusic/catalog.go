package ytmusic

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// WatchPlaylist returns up to limit video IDs from a playlist's watch queue.
// This serves the radio and mix style playlists the plain playlist endpoint
// cannot list.
func (c *Client) WatchPlaylist(ctx context.Context, playlistID string, limit int) ([]string, error) {
	resp, err := c.post(ctx, endpointNext, map[string]any{
		"playlistId":  playlistID,
		"isAudioOnly": true,
	})
	if err != nil {
		return nil, err
	}

	contents := navSlice(resp,
		"contents", "singleColumnMusicWatchNextResultsRenderer", "tabbedRenderer",
		"watchNextTabbedResultsRenderer", "tabs", 0, "tabRenderer", "content",
		"musicQueueRenderer", "content", "playlistPanelRenderer", "contents")
	if contents == nil {
		return nil, fmt.Errorf("watch playlist %s: unexpected response shape", playlistID)
	}

	ids := make([]string, 0, len(contents))
	for _, item := range contents {
		id := navString(item, "playlistPanelVideoRenderer", "videoId")
		if id == "" {
			continue
		}
		ids = append(ids, id)
		if len(ids) >= limit {
			break
		}
	}

	c.log.Debug("listed watch playlist",
		zap.String("playlistId", playlistID), zap.Int("items", len(ids)))
	return ids, nil
}

// ArtistSongsPlaylist resolves a channel to the browse ID of the playlist
// holding all of the artist's songs.
func (c *Client) ArtistSongsPlaylist(ctx context.Context, channelID string) (string, error) {
	resp, err := c.post(ctx, endpointBrowse, map[string]any{
		"browseId": channelID,
	})
	if err != nil {
		return "", err
	}

	sections := navSlice(resp,
		"contents", "singleColumnBrowseResultsRenderer", "tabs", 0,
		"tabRenderer", "content", "sectionListRenderer", "contents")
	for _, section := range sections {
		shelf, ok := nav(section, "musicShelfRenderer").(map[string]any)
		if !ok {
			continue
		}
		browseID := navString(shelf,
			"title", "runs", 0, "navigationEndpoint", "browseEndpoint", "browseId")
		if browseID != "" {
			return browseID, nil
		}
	}
	return "", fmt.Errorf("channel %s: no songs playlist found", channelID)
}
