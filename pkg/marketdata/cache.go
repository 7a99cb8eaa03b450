package marketdata

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"

	"github.com/rogersacchelli/stock-analysis/internal/logger"
	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
	"go.uber.org/zap"
)

// Cache is the on-disk price cache keyed by (ticker, start, end). Writers
// for the same key are serialized so concurrent fetches cannot corrupt a
// cached range.
type Cache interface {
	// Get returns the cached bars for the key, if present.
	Get(ticker string, start, end time.Time) ([]types.PriceBar, bool, error)
	// Put stores the bars for the key. Storing an already-present key is
	// a no-op.
	Put(ticker string, start, end time.Time, bars []types.PriceBar) error
	// Close closes the cache and releases any resources.
	Close() error
}

// DuckDBCache stores cached price ranges in a DuckDB database file.
type DuckDBCache struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType

	mu       sync.Mutex
	keyLocks map[string]*sync.Mutex
}

// NewDuckDBCache opens (or creates) the cache database at path.
func NewDuckDBCache(path string, log *logger.Logger) (*DuckDBCache, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCacheUnavailable, "failed to open cache database", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS price_cache (
			cache_key TEXT,
			symbol TEXT,
			time TIMESTAMP,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE
		)
	`)
	if err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeCacheUnavailable, "failed to create cache table", err)
	}

	return &DuckDBCache{
		db:       db,
		logger:   log,
		sq:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		keyLocks: make(map[string]*sync.Mutex),
	}, nil
}

func cacheKey(ticker string, start, end time.Time) string {
	return fmt.Sprintf("%s|%s|%s", ticker, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// lockKey returns the mutex guarding one cache key.
func (c *DuckDBCache) lockKey(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.keyLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		c.keyLocks[key] = lock
	}

	return lock
}

// Get implements Cache.
func (c *DuckDBCache) Get(ticker string, start, end time.Time) ([]types.PriceBar, bool, error) {
	key := cacheKey(ticker, start, end)

	query, args, err := c.sq.
		Select("symbol", "time", "open", "high", "low", "close", "volume").
		From("price_cache").
		Where(squirrel.Eq{"cache_key": key}).
		OrderBy("time ASC").
		ToSql()
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build cache query", err)
	}

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query cache", err)
	}
	defer rows.Close()

	var bars []types.PriceBar

	for rows.Next() {
		var bar types.PriceBar
		if err := rows.Scan(&bar.Symbol, &bar.Time, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan cached bar", err)
		}

		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read cached bars", err)
	}

	if len(bars) == 0 {
		return nil, false, nil
	}

	return bars, true, nil
}

// Put implements Cache.
func (c *DuckDBCache) Put(ticker string, start, end time.Time, bars []types.PriceBar) error {
	key := cacheKey(ticker, start, end)

	lock := c.lockKey(key)
	lock.Lock()
	defer lock.Unlock()

	// Another writer may have filled the key while we waited on the lock.
	if _, hit, err := c.Get(ticker, start, end); err != nil {
		return err
	} else if hit {
		c.logger.Debug("cache key already present, skipping write", zap.String("key", key))

		return nil
	}

	tx, err := c.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeCacheUnavailable, "failed to begin cache transaction", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO price_cache (cache_key, symbol, time, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeCacheUnavailable, "failed to prepare cache insert", err)
	}
	defer stmt.Close()

	for _, bar := range bars {
		if _, err := stmt.Exec(key, bar.Symbol, bar.Time, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume); err != nil {
			tx.Rollback()

			return errors.Wrapf(errors.ErrCodeCacheUnavailable, err, "failed to insert cached bar for %s", ticker)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeCacheUnavailable, "failed to commit cache transaction", err)
	}

	return nil
}

// Close implements Cache.
func (c *DuckDBCache) Close() error {
	return c.db.Close()
}
