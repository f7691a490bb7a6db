package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestSqlite(t *testing.T, batchSize int) *SqliteCache {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ytmdl.db")
	s, err := OpenSqliteCache(path, batchSize, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// Both variants must satisfy the same contract.
func TestCacheContract(t *testing.T) {
	variants := map[string]func(t *testing.T) Cache{
		"memory": func(t *testing.T) Cache { return NewMemoryCache() },
		"sqlite": func(t *testing.T) Cache { return openTestSqlite(t, 0) },
	}

	for name, open := range variants {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c := open(t)

			require.NoError(t, c.AddItems(ctx, []string{"0", "1", "2"}))
			require.NoError(t, c.Commit(ctx))

			uncached, err := c.FilterUncached(ctx, []string{"1", "2", "3", "4"})
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"3", "4"}, uncached)
		})

		t.Run(name+" dedup idempotence", func(t *testing.T) {
			ctx := context.Background()
			c := open(t)

			a := []string{"a1", "a2"}
			b := []string{"b1", "b2", "b3"}
			require.NoError(t, c.AddItems(ctx, a))
			require.NoError(t, c.Commit(ctx))

			uncached, err := c.FilterUncached(ctx, append(append([]string{}, a...), b...))
			require.NoError(t, err)
			assert.ElementsMatch(t, b, uncached)
		})

		t.Run(name+" discarded items are cached too", func(t *testing.T) {
			ctx := context.Background()
			c := open(t)

			require.NoError(t, c.AddDiscardedItems(ctx, []string{"junk"}))
			require.NoError(t, c.Commit(ctx))

			uncached, err := c.FilterUncached(ctx, []string{"junk", "song"})
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"song"}, uncached)
		})

		t.Run(name+" empty commit is a no-op", func(t *testing.T) {
			ctx := context.Background()
			c := open(t)
			require.NoError(t, c.Commit(ctx))
			require.NoError(t, c.Commit(ctx))
		})

		t.Run(name+" operations after close fail", func(t *testing.T) {
			ctx := context.Background()
			c := open(t)
			require.NoError(t, c.Close())

			err := c.AddItems(ctx, []string{"x"})
			assert.ErrorIs(t, err, ErrClosed)
			_, err = c.FilterUncached(ctx, []string{"x"})
			assert.ErrorIs(t, err, ErrClosed)
		})
	}
}

func TestSqliteCacheBatchThreshold(t *testing.T) {
	ctx := context.Background()
	s := openTestSqlite(t, 2)

	require.NoError(t, s.AddItems(ctx, []string{"10"}))
	assert.Len(t, s.batch, 1, "below threshold, nothing flushed")

	uncached, err := s.FilterUncached(ctx, []string{"10"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"10"}, uncached, "pending entries invisible to reads")

	require.NoError(t, s.AddItems(ctx, []string{"11"}))
	assert.Empty(t, s.batch, "threshold reached, batch flushed")

	uncached, err = s.FilterUncached(ctx, []string{"10", "11", "12"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"12"}, uncached)
}

func TestSqliteCacheZeroBatchSizeWritesImmediately(t *testing.T) {
	ctx := context.Background()
	s := openTestSqlite(t, 0)

	require.NoError(t, s.AddItems(ctx, []string{"a"}))
	assert.Empty(t, s.batch)

	uncached, err := s.FilterUncached(ctx, []string{"a"})
	require.NoError(t, err)
	assert.Empty(t, uncached)
}

func TestSqliteCacheFirstWriteWins(t *testing.T) {
	ctx := context.Background()
	s := openTestSqlite(t, 0)

	require.NoError(t, s.AddItems(ctx, []string{"track"}))
	require.NoError(t, s.AddDiscardedItems(ctx, []string{"track"}))

	var downloaded bool
	require.NoError(t, s.db.Get(&downloaded, `SELECT downloaded FROM items WHERE item = ?`, "track"))
	assert.True(t, downloaded, "second insert must not overwrite the first outcome")

	var count int
	require.NoError(t, s.db.Get(&count, `SELECT COUNT(*) FROM items WHERE item = ?`, "track"))
	assert.Equal(t, 1, count)
}

func TestSqliteCacheMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v1.db")

	// Build a store the way the very first schema version did.
	db, err := sqlx.Connect("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE items (item VARCHAR(50) UNIQUE NOT NULL);`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO items (item) VALUES ('old1'), ('old2');`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// First open migrates, second open must skip the applied steps quietly.
	for i := 0; i < 2; i++ {
		s, err := OpenSqliteCache(path, 0, zap.NewNop())
		require.NoError(t, err, "open #%d", i+1)
		require.NoError(t, s.Close())
	}

	db, err = sqlx.Connect("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var nullTimestamps int
	require.NoError(t, db.Get(&nullTimestamps, `SELECT COUNT(*) FROM items WHERE timestamp IS NULL`))
	assert.Zero(t, nullTimestamps, "migrated rows must have a backfilled timestamp")

	var downloaded []bool
	require.NoError(t, db.Select(&downloaded, `SELECT downloaded FROM items ORDER BY item`))
	assert.Equal(t, []bool{true, true}, downloaded, "pre-migration rows default to downloaded")
}

func TestSqliteCacheFixDownloadedColumn(t *testing.T) {
	ctx := context.Background()
	s := openTestSqlite(t, 0)

	require.NoError(t, s.AddItems(ctx, []string{"on-disk", "deleted"}))
	require.NoError(t, s.AddDiscardedItems(ctx, []string{"junk"}))

	require.NoError(t, s.FixDownloadedColumn(ctx, []string{"on-disk"}))

	rows := map[string]bool{}
	var entries []struct {
		Item       string `db:"item"`
		Downloaded bool   `db:"downloaded"`
	}
	require.NoError(t, s.db.Select(&entries, `SELECT item, downloaded FROM items`))
	for _, e := range entries {
		rows[e.Item] = e.Downloaded
	}

	assert.Equal(t, map[string]bool{
		"on-disk": true,
		"deleted": false,
		"junk":    false,
	}, rows)
}

func TestSqliteCacheCloseCommitsPendingBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ytmdl.db")
	s, err := OpenSqliteCache(path, 100, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.AddItems(context.Background(), []string{"pending"}))
	require.NoError(t, s.Close())

	reopened, err := OpenSqliteCache(path, 0, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	uncached, err := reopened.FilterUncached(context.Background(), []string{"pending"})
	require.NoError(t, err)
	assert.Empty(t, uncached, "Close must flush the pending batch")
}
