// Package ytmusic is a thin client for the YouTube Music web API, covering
// the handful of browse calls the downloader needs: watch playlists, artist
// song lists, the personalised home feed, and lyrics.
package ytmusic
