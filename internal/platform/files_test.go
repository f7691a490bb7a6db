package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
}

func TestScanDownloadedVideoIDs(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Artist - Title [dQw4w9WgXcQ].m4a")
	touch(t, dir, "Other_Artist - Song [abcDEF12345].m4a")
	touch(t, dir, "no id here.m4a")
	touch(t, dir, "Partial - Track [xyzXYZ09876].m4a.part")
	touch(t, dir, "Resume - Data [xyzXYZ09876].m4a.ytdl")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "[dirNotFile]"), 0o755))

	ids, err := ScanDownloadedVideoIDs(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"dQw4w9WgXcQ", "abcDEF12345"}, ids)
}

func TestScanDownloadedVideoIDsDeduplicates(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "A - One [dQw4w9WgXcQ].m4a")
	touch(t, dir, "A - One copy [dQw4w9WgXcQ].opus")

	ids, err := ScanDownloadedVideoIDs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"dQw4w9WgXcQ"}, ids)
}

func TestScanDownloadedVideoIDsMissingDir(t *testing.T) {
	_, err := ScanDownloadedVideoIDs(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
