package platform

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// File extensions to skip while scanning (in-progress downloads)
var skippedExtensions = []string{".part", ".ytdl", ".tmp"}

// videoIDPattern matches the "[VIDEOID]" suffix the output template puts in
// every finished filename.
var videoIDPattern = regexp.MustCompile(`\[([A-Za-z0-9_-]{11})\]\.[A-Za-z0-9]+$`)

// ScanDownloadedVideoIDs walks the download directory and returns the video
// IDs of every finished track found in filenames. Files without a
// recognizable ID suffix are ignored.
func ScanDownloadedVideoIDs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read download dir: %w", err)
	}

	seen := make(map[string]struct{})
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || isSkipped(entry.Name()) {
			continue
		}
		m := videoIDPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		id := m[1]
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// isSkipped reports whether the filename is an in-progress artifact.
func isSkipped(name string) bool {
	for _, ext := range skippedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
