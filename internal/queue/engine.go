package queue

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Engine evaluates dwell time for queue items. The dwell is fixed for the
// lifetime of the engine; now and the store are supplied per call.
type Engine struct {
	dwell time.Duration
}

// NewEngine constructs an engine for the provided dwell duration.
func NewEngine(dwell time.Duration) (*Engine, error) {
	if dwell < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNegativeDwell, dwell)
	}
	return &Engine{dwell: dwell}, nil
}

// Dwell returns the configured dwell duration.
func (e *Engine) Dwell() time.Duration {
	return e.dwell
}

// Waiting lists Waiting items whose dwell has not elapsed at now, with the
// time each has left, ordered by identifier. It does not modify the store.
//
// All engine operations truncate now to microseconds, the resolution of the
// stored timestamps.
func (e *Engine) Waiting(ctx context.Context, now time.Time, store Store) ([]Pending, error) {
	now = stamp(now)
	entries, err := e.load(ctx, store)
	if err != nil {
		return nil, err
	}
	var pending []Pending
	for _, entry := range entries {
		if entry.Status != StatusWaiting {
			continue
		}
		elapsed := entry.Elapsed(now)
		if elapsed >= e.dwell {
			continue
		}
		pending = append(pending, Pending{ID: entry.ID, Remaining: e.dwell - elapsed})
	}
	return pending, nil
}

// ApplyReady promotes every Waiting item whose dwell has elapsed at now to
// Ready, stamping it with now, and returns the promoted identifiers in the
// order they were processed.
func (e *Engine) ApplyReady(ctx context.Context, now time.Time, store Store) ([]string, error) {
	now = stamp(now)
	entries, err := e.load(ctx, store)
	if err != nil {
		return nil, err
	}
	var (
		ready   []string
		updates []Entry
	)
	for _, entry := range entries {
		if entry.Status != StatusWaiting || entry.Elapsed(now) < e.dwell {
			continue
		}
		ready = append(ready, entry.ID)
		updates = append(updates, Entry{ID: entry.ID, Record: Record{EnteredAt: now, Status: StatusReady}})
	}
	if err := putEntries(ctx, store, updates); err != nil {
		return nil, fmt.Errorf("mark items ready: %w", err)
	}
	return ready, nil
}

// Add places every identifier in the waiting queue as of now, overwriting any
// existing record regardless of its status. Duplicate identifiers collapse
// into a single record.
func (e *Engine) Add(ctx context.Context, now time.Time, ids []string, store Store) error {
	now = stamp(now)
	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, Entry{ID: id, Record: Record{EnteredAt: now, Status: StatusWaiting}})
	}
	if err := putEntries(ctx, store, entries); err != nil {
		return fmt.Errorf("add items: %w", err)
	}
	return nil
}

// load reads every record, rejecting the whole set if any record is malformed
// so that no partial promotion happens.
func (e *Engine) load(ctx context.Context, store Store) ([]Entry, error) {
	entries, err := store.Iterate(ctx)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	for _, entry := range entries {
		if err := checkRecord(entry.ID, entry.Record); err != nil {
			return nil, err
		}
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.ID, b.ID)
	})
	return entries, nil
}
