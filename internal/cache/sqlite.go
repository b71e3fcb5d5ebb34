package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"
)

func init() {
	Register("sqlite", newSQLiteCache)
}

// cacheEntry is one row of the cache_entries table.
type cacheEntry struct {
	bun.BaseModel `bun:"table:cache_entries,alias:ce"`

	Key      string `bun:"cache_key,pk"`
	Data     []byte `bun:"data,notnull"`
	CachedAt int64  `bun:"cached_at,notnull"` // unix milliseconds
}

// sqliteCache persists entries in a SQLite database through bun.
type sqliteCache struct {
	db  *bun.DB
	ttl time.Duration
	now func() time.Time
}

func newSQLiteCache(cfg ProviderConfig) (Cache, error) {
	dbPath := cfg.DBFile
	if dbPath == "" {
		dbPath = "./cache.db"
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	sqldb, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	// one writer at a time keeps SQLite from returning SQLITE_BUSY
	sqldb.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := sqldb.PingContext(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to connect to cache database: %w", err), sqldb.Close())
	}

	c := &sqliteCache{
		db:  bun.NewDB(sqldb, sqlitedialect.New()),
		ttl: cfg.TTL,
		now: time.Now,
	}
	if err := c.createSchema(ctx); err != nil {
		return nil, errors.Join(err, sqldb.Close())
	}
	return c, nil
}

func (c *sqliteCache) createSchema(ctx context.Context) error {
	if _, err := c.db.NewCreateTable().Model((*cacheEntry)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to create cache table: %w", err)
	}
	if _, err := c.db.NewCreateIndex().
		Model((*cacheEntry)(nil)).
		Index("idx_cache_entries_cached_at").
		Column("cached_at").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create cache index: %w", err)
	}
	return nil
}

func (c *sqliteCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry cacheEntry
	err := c.db.NewSelect().
		Model(&entry).
		Where("cache_key = ?", key).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query cache: %w", err)
	}

	age := c.now().Sub(time.UnixMilli(entry.CachedAt))
	if age > c.ttl {
		slog.Debug("Cache expired", "key", key, "age", age)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

func (c *sqliteCache) Set(ctx context.Context, key string, value []byte) error {
	entry := cacheEntry{Key: key, Data: value, CachedAt: c.now().UnixMilli()}
	_, err := c.db.NewInsert().
		Model(&entry).
		On("CONFLICT (cache_key) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("cached_at = EXCLUDED.cached_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

func (c *sqliteCache) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	res, err := c.db.NewDelete().
		Model((*cacheEntry)(nil)).
		Where("substr(cache_key, 1, ?) = ?", len(prefix), prefix).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache entries: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	slog.Debug("Cache entries cleared", "prefix", prefix, "rows_deleted", rows)
	return rows, nil
}

// ClearExpired removes entries older than the TTL.
func (c *sqliteCache) ClearExpired(ctx context.Context) (int64, error) {
	cutoff := c.now().Add(-c.ttl).UnixMilli()
	res, err := c.db.NewDelete().
		Model((*cacheEntry)(nil)).
		Where("cached_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired cache: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows > 0 {
		slog.Info("Cleared expired cache entries", "count", rows)
	}
	return rows, nil
}

func (c *sqliteCache) Close() error {
	return c.db.Close()
}
