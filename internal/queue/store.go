package queue

import "context"

// Store is the durable key-value mapping from item identifier to record.
// Put overwrites any existing record for the identifier.
type Store interface {
	Get(ctx context.Context, id string) (Record, bool, error)
	Put(ctx context.Context, id string, rec Record) error
	Iterate(ctx context.Context) ([]Entry, error)
	Close() error
}

// Batcher is implemented by stores that can persist several records in one
// atomic write. Entries are applied in order, so a later entry for the same
// identifier wins.
type Batcher interface {
	PutAll(ctx context.Context, entries []Entry) error
}

func putEntries(ctx context.Context, store Store, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if batcher, ok := store.(Batcher); ok {
		return batcher.PutAll(ctx, entries)
	}
	for _, entry := range entries {
		if err := store.Put(ctx, entry.ID, entry.Record); err != nil {
			return err
		}
	}
	return nil
}
