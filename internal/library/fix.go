package library

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ytget/ytmdl/internal/platform"
)

// FixableCache is the store surface the repair flow needs.
type FixableCache interface {
	FixDownloadedColumn(ctx context.Context, videoIDs []string) error
	FilterUncached(ctx context.Context, ids []string) ([]string, error)
}

// FixResult reports what the repair found.
type FixResult struct {
	// OnDisk is every video ID found in the download directory.
	OnDisk []string
	// Uncached is the subset of OnDisk with no cache record at all;
	// these files exist but the store never heard of them.
	Uncached []string
}

// Fix reconciles the store's downloaded column against the files actually
// present in dir: exactly the tracks on disk end up marked downloaded.
func Fix(ctx context.Context, dir string, cache FixableCache, log *zap.Logger) (*FixResult, error) {
	onDisk, err := platform.ScanDownloadedVideoIDs(dir)
	if err != nil {
		return nil, fmt.Errorf("scan download dir: %w", err)
	}
	log.Info("scanned download dir",
		zap.String("dir", dir), zap.Int("tracks", len(onDisk)))

	if err := cache.FixDownloadedColumn(ctx, onDisk); err != nil {
		return nil, fmt.Errorf("fix downloaded column: %w", err)
	}

	uncached, err := cache.FilterUncached(ctx, onDisk)
	if err != nil {
		return nil, fmt.Errorf("check uncached tracks: %w", err)
	}
	if len(uncached) > 0 {
		log.Warn("tracks on disk missing from cache", zap.Int("count", len(uncached)))
	}

	return &FixResult{OnDisk: onDisk, Uncached: uncached}, nil
}
