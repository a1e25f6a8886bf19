package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"rotator/internal/config"
)

// SQLStore is the SQLite-backed item store. It is opened, used and closed
// within a single run.
type SQLStore struct {
	db   *sql.DB
	path string
}

var (
	_ Store   = (*SQLStore)(nil)
	_ Batcher = (*SQLStore)(nil)
)

// Writes that hit SQLITE_BUSY are retried with doubling backoff.
const (
	busyAttempts   = 5
	busyBackoff    = 10 * time.Millisecond
	busyBackoffMax = 200 * time.Millisecond
)

// Open creates or opens the item database at cfg.StorePath().
func Open(cfg *config.Config) (*SQLStore, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	path := cfg.StorePath()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open item store %s: %w", path, err)
	}
	store := &SQLStore{db: db, path: path}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLStore) init(ctx context.Context) error {
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout = 5000"} {
		if _, err := s.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	return s.ensureSchema(ctx)
}

// Path returns the database file location.
func (s *SQLStore) Path() string {
	return s.path
}

// Close releases the database. Closing a nil or closed store is a no-op.
func (s *SQLStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func isBusy(err error) bool {
	var coded interface{ Code() int }
	if errors.As(err, &coded) && coded.Code()&0xff == 5 {
		return true
	}
	return err != nil && (strings.Contains(err.Error(), "SQLITE_BUSY") || strings.Contains(err.Error(), "database is locked"))
}

// withBusyRetry runs op until it succeeds, fails with a non-busy error, or
// runs out of attempts.
func withBusyRetry(ctx context.Context, op func() error) error {
	delay := busyBackoff
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil || !isBusy(err) || attempt == busyAttempts {
			return err
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = min(delay*2, busyBackoffMax)
	}
}
