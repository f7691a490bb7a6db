package ytmusic

import (
	"context"
	"fmt"
)

// Lyrics returns lyric text for a track, or an empty string when the track
// has none. Callers treat any error as "no lyrics".
func (c *Client) Lyrics(ctx context.Context, videoID string) (string, error) {
	browseID, err := c.lyricsBrowseID(ctx, videoID)
	if err != nil {
		return "", err
	}
	if browseID == "" {
		return "", nil
	}

	resp, err := c.post(ctx, endpointBrowse, map[string]any{
		"browseId": browseID,
	})
	if err != nil {
		return "", err
	}

	lyrics := navString(resp,
		"contents", "sectionListRenderer", "contents", 0,
		"musicDescriptionShelfRenderer", "description", "runs", 0, "text")
	return lyrics, nil
}

// lyricsBrowseID locates the lyrics tab for a track's watch page. An empty
// ID means the track has no lyrics.
func (c *Client) lyricsBrowseID(ctx context.Context, videoID string) (string, error) {
	resp, err := c.post(ctx, endpointNext, map[string]any{
		"videoId":     videoID,
		"isAudioOnly": true,
	})
	if err != nil {
		return "", err
	}

	tabs := navSlice(resp,
		"contents", "singleColumnMusicWatchNextResultsRenderer", "tabbedRenderer",
		"watchNextTabbedResultsRenderer", "tabs")
	if tabs == nil {
		return "", fmt.Errorf("watch page for %s: unexpected response shape", videoID)
	}

	for _, tab := range tabs {
		title := navString(tab, "tabRenderer", "title")
		if title != "Lyrics" {
			continue
		}
		return navString(tab, "tabRenderer", "endpoint", "browseEndpoint", "browseId"), nil
	}
	return "", nil
}
