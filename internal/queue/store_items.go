package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Get fetches the record for id. The boolean is false when no record exists.
func (s *SQLStore) Get(ctx context.Context, id string) (Record, bool, error) {
	entry, err := scanEntry(s.db.QueryRowContext(orBackground(ctx), selectEntries+` WHERE id = ?`, id))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return Record{}, false, nil
	case err != nil:
		return Record{}, false, fmt.Errorf("get item %q: %w", id, err)
	}
	return entry.Record, true, nil
}

// Put writes rec for id, replacing any existing record.
func (s *SQLStore) Put(ctx context.Context, id string, rec Record) error {
	return s.PutAll(ctx, []Entry{{ID: id, Record: rec}})
}

// PutAll writes every entry in one transaction. Nothing is written if any
// entry has an unknown status.
func (s *SQLStore) PutAll(ctx context.Context, entries []Entry) error {
	for _, entry := range entries {
		if err := checkRecord(entry.ID, entry.Record); err != nil {
			return err
		}
	}
	if len(entries) == 0 {
		return nil
	}
	ctx = orBackground(ctx)
	return withBusyRetry(ctx, func() error {
		return s.writeEntries(ctx, entries)
	})
}

func (s *SQLStore) writeEntries(ctx context.Context, entries []Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin write: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertItem)
	if err != nil {
		return fmt.Errorf("prepare write: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		if _, err := stmt.ExecContext(ctx, entry.ID, epochSeconds(entry.EnteredAt), string(entry.Status)); err != nil {
			return fmt.Errorf("write item %q: %w", entry.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit write: %w", err)
	}
	return nil
}

// Iterate returns every record ordered by identifier.
func (s *SQLStore) Iterate(ctx context.Context) ([]Entry, error) {
	return s.List(ctx)
}

// List returns the records whose status is one of statuses, or every record
// when none are given, ordered by identifier.
func (s *SQLStore) List(ctx context.Context, statuses ...Status) ([]Entry, error) {
	where, args := statusFilter(statuses)
	rows, err := s.db.QueryContext(orBackground(ctx), selectEntries+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Stats counts records per status. Statuses with no records are absent.
func (s *SQLStore) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(orBackground(ctx), `SELECT status, COUNT(1) FROM items GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("count items: %w", err)
		}
		stats[Status(status)] = count
	}
	return stats, rows.Err()
}
