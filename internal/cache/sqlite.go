package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/ytget/ytmdl/internal/model"
)

// Base schema. Older stores were created with exactly this table; every
// later column arrives through a migration so those stores keep working.
const schemaBase = `CREATE TABLE IF NOT EXISTS items (item VARCHAR(50) UNIQUE NOT NULL);`

// migration is one additive schema step. The alter statement is allowed to
// fail with SQLite's duplicate-column error, which means the step already
// ran; backfills only run when the alter succeeded.
type migration struct {
	name     string
	alter    string
	backfill []string
}

// migrations run unconditionally, in order, on every open.
//
// SQLite cannot ALTER TABLE ADD COLUMN with a non-constant default, so the
// timestamp column is added nullable and backfilled in a second statement.
var migrations = []migration{
	{
		name:  "add timestamp column",
		alter: `ALTER TABLE items ADD COLUMN timestamp DATETIME;`,
		backfill: []string{
			`UPDATE items SET timestamp = CURRENT_TIMESTAMP WHERE timestamp IS NULL;`,
		},
	},
	{
		name:  "add downloaded column",
		alter: `ALTER TABLE items ADD COLUMN downloaded BOOLEAN NOT NULL DEFAULT 1;`,
	},
}

// batchEntry is one pending write.
type batchEntry struct {
	videoID    string
	downloaded bool
}

// SqliteCache is the durable store variant. Writes accumulate in a pending
// batch and reach the database on Commit, or automatically once the batch
// reaches batchSize. All operations are serialized behind one lock.
type SqliteCache struct {
	mu        sync.Mutex
	db        *sqlx.DB
	batch     []batchEntry
	batchSize int
	closed    bool
	log       *zap.Logger
}

// OpenSqliteCache opens (creating and migrating as needed) the store at
// path. A batchSize of zero flushes every add immediately.
func OpenSqliteCache(path string, batchSize int, log *zap.Logger) (*SqliteCache, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	if _, err := db.Exec(schemaBase); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	if err := migrate(db, log); err != nil {
		db.Close()
		return nil, err
	}

	return &SqliteCache{
		db:        db,
		batchSize: batchSize,
		log:       log,
	}, nil
}

// migrate applies every known migration. Already-applied steps surface as
// duplicate-column errors and are skipped; anything else aborts the open.
func migrate(db *sqlx.DB, log *zap.Logger) error {
	for _, m := range migrations {
		if _, err := db.Exec(m.alter); err != nil {
			if isDuplicateColumnErr(err) {
				log.Debug("migration already applied", zap.String("migration", m.name))
				continue
			}
			return fmt.Errorf("migration %q: %w", m.name, err)
		}
		for _, stmt := range m.backfill {
			if _, err := db.Exec(stmt); err != nil {
				return fmt.Errorf("migration %q backfill: %w", m.name, err)
			}
		}
		log.Info("applied cache migration", zap.String("migration", m.name))
	}
	return nil
}

// isDuplicateColumnErr recognizes SQLite's error for ALTER TABLE ADD COLUMN
// on a column that already exists.
func isDuplicateColumnErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate column name")
}

// FilterUncached returns the subset of ids without a committed record.
// Entries still in the pending batch are not visible here; reads reflect
// last-committed state only.
func (s *SqliteCache) FilterUncached(ctx context.Context, ids []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT item FROM items WHERE item IN (?);`, ids)
	if err != nil {
		return nil, fmt.Errorf("build filter query: %w", err)
	}

	var cached []string
	if err := s.db.SelectContext(ctx, &cached, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("filter uncached: %w", err)
	}

	cachedSet := make(map[string]struct{}, len(cached))
	for _, id := range cached {
		cachedSet[id] = struct{}{}
	}

	uncached := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := cachedSet[id]; ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		uncached = append(uncached, id)
	}
	return uncached, nil
}

// AddItems queues ids for recording as downloaded.
func (s *SqliteCache) AddItems(ctx context.Context, ids []string) error {
	return s.add(ctx, ids, model.OutcomeDownloaded)
}

// AddDiscardedItems queues ids for recording as discarded.
func (s *SqliteCache) AddDiscardedItems(ctx context.Context, ids []string) error {
	return s.add(ctx, ids, model.OutcomeDiscarded)
}

func (s *SqliteCache) add(ctx context.Context, ids []string, outcome model.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	for _, id := range ids {
		s.batch = append(s.batch, batchEntry{videoID: id, downloaded: outcome.Downloaded()})
	}

	if s.batchSize == 0 || len(s.batch) >= s.batchSize {
		return s.commitLocked(ctx)
	}
	return nil
}

// Commit flushes the pending batch in one transaction. No-op when empty.
func (s *SqliteCache) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.commitLocked(ctx)
}

// commitLocked writes the batch with insert-or-ignore semantics, so the
// first recorded outcome for a video always wins. Callers hold s.mu.
func (s *SqliteCache) commitLocked(ctx context.Context) error {
	if len(s.batch) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit: %w", err)
	}

	const insert = `INSERT OR IGNORE INTO items (item, timestamp, downloaded)
		VALUES (?, CURRENT_TIMESTAMP, ?);`
	for _, e := range s.batch {
		if _, err := tx.ExecContext(ctx, insert, e.videoID, e.downloaded); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert item %s: %w", e.videoID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	s.log.Debug("committed cache batch", zap.Int("items", len(s.batch)))
	s.batch = s.batch[:0]
	return nil
}

// FixDownloadedColumn reconciles the store against an authoritative list of
// video IDs known to be on disk: every record is marked not downloaded,
// then exactly ids are marked downloaded. Pending writes flush first.
func (s *SqliteCache) FixDownloadedColumn(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.commitLocked(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin fix: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE items SET downloaded = 0;`); err != nil {
		tx.Rollback()
		return fmt.Errorf("reset downloaded column: %w", err)
	}

	if len(ids) > 0 {
		query, args, err := sqlx.In(`UPDATE items SET downloaded = 1 WHERE item IN (?);`, ids)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("build fix query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("set downloaded column: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit fix: %w", err)
	}

	s.log.Info("fixed downloaded column", zap.Int("downloaded", len(ids)))
	return nil
}

// Close commits any pending batch and closes the database handle.
func (s *SqliteCache) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}

	commitErr := s.commitLocked(context.Background())
	s.closed = true

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close cache db: %w", err)
	}
	return commitErr
}
