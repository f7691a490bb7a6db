package download

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ytget/ytmdl/internal/cache"
	"github.com/ytget/ytmdl/internal/pipeline"
)

// fakePipeline classifies tracks by ID prefix: "bad" fails, "skip" gets
// filtered, everything else succeeds.
type fakePipeline struct {
	mu    sync.Mutex
	runs  []string
	block chan struct{}
}

func (f *fakePipeline) Run(ctx context.Context, videoID string) error {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	f.runs = append(f.runs, videoID)
	f.mu.Unlock()

	switch {
	case len(videoID) >= 3 && videoID[:3] == "bad":
		return errors.New("fetch failed")
	case len(videoID) >= 4 && videoID[:4] == "skip":
		return fmt.Errorf("track %s: %w", videoID, pipeline.ErrFiltered)
	default:
		return nil
	}
}

func (f *fakePipeline) ranCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.runs)
}

func TestDownloadClassifiesOutcomes(t *testing.T) {
	d := New(&fakePipeline{}, zap.NewNop())

	var succeeded []string
	var discarded []string
	got := d.Download(context.Background(),
		[]string{"ok1", "skip1", "bad1", "ok2"},
		func(id string) { succeeded = append(succeeded, id) },
		func(ids []string) { discarded = append(discarded, ids...) },
	)

	assert.ElementsMatch(t, []string{"ok1", "ok2"}, got)
	assert.ElementsMatch(t, []string{"ok1", "ok2"}, succeeded)
	assert.ElementsMatch(t, []string{"skip1"}, discarded)
}

func TestDownloadDeduplicatesInput(t *testing.T) {
	p := &fakePipeline{}
	d := New(p, zap.NewNop())

	got := d.Download(context.Background(), []string{"ok1", "ok1", "ok1", "ok2"}, nil, nil)

	assert.ElementsMatch(t, []string{"ok1", "ok2"}, got)
	assert.Equal(t, 2, p.ranCount(), "each unique ID runs exactly once")
}

func TestDownloadNilCallbacks(t *testing.T) {
	d := New(&fakePipeline{}, zap.NewNop())

	got := d.Download(context.Background(), []string{"ok1", "skip1"}, nil, nil)
	assert.ElementsMatch(t, []string{"ok1"}, got)
}

func TestDownloadStopReturnsSubsetWithoutError(t *testing.T) {
	block := make(chan struct{})
	p := &fakePipeline{block: block}
	d := New(p, zap.NewNop())

	done := make(chan []string)
	go func() {
		done <- d.Download(context.Background(),
			[]string{"ok1", "ok2", "ok3", "ok4"}, nil, nil)
	}()

	// Let one track through, then stop.
	block <- struct{}{}
	d.Stop()
	d.Stop() // idempotent
	close(block)

	select {
	case got := <-done:
		assert.LessOrEqual(t, len(got), 4)
	case <-time.After(5 * time.Second):
		t.Fatal("Download did not return after Stop")
	}
}

func TestDownloadFreshCallResetsStopFlag(t *testing.T) {
	d := New(&fakePipeline{}, zap.NewNop())
	d.Stop()

	got := d.Download(context.Background(), []string{"ok1"}, nil, nil)
	assert.ElementsMatch(t, []string{"ok1"}, got, "a fresh Download call must reset the stop flag")
}

func TestDownloadCallbacksRunOnFanInGoroutineOnly(t *testing.T) {
	d := New(&fakePipeline{}, zap.NewNop())

	var concurrent atomic.Int32
	var max atomic.Int32
	ids := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		ids = append(ids, fmt.Sprintf("ok%d", i))
	}

	d.Download(context.Background(), ids, func(string) {
		cur := concurrent.Add(1)
		defer concurrent.Add(-1)
		if cur > max.Load() {
			max.Store(cur)
		}
	}, nil)

	assert.Equal(t, int32(1), max.Load(), "callbacks must never overlap")
}

func TestCacheDownloaderFiltersAndRecords(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryCache()
	require.NoError(t, store.AddItems(ctx, []string{"1", "2", "3"}))

	p := &fakePipeline{}
	cd := NewCached(New(p, zap.NewNop()), store, zap.NewNop())

	// "4" downloads, "skip5" is discarded, "2"/"3" are already cached.
	got, err := cd.Download(ctx, []string{"2", "3", "4", "skip5"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"4"}, got)
	assert.Equal(t, 2, p.ranCount(), "cached tracks must not be dispatched")

	uncached, err := store.FilterUncached(ctx, []string{"1", "4", "skip5", "6"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"6"}, uncached)
}

func TestCacheDownloaderFailedTracksStayUncached(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryCache()
	cd := NewCached(New(&fakePipeline{}, zap.NewNop()), store, zap.NewNop())

	got, err := cd.Download(ctx, []string{"bad1", "ok1"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ok1"}, got)

	uncached, err := store.FilterUncached(ctx, []string{"bad1", "ok1"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bad1"}, uncached, "failed tracks stay eligible for retry")
}
