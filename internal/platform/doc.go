// Package platform binds the external collaborators: the yt-dlp fetch
// backend, playlist listing, mp4 tag writing, and download-dir scanning.
package platform
