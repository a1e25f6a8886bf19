package testsupport

import (
	"context"
	"maps"
	"slices"
	"strings"
	"testing"
	"time"

	"rotator/internal/config"
	"rotator/internal/queue"
)

// MustOpenStore opens a queue.SQLStore for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.SQLStore {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// Seed writes a record for each id with the given status and timestamp.
func Seed(t testing.TB, store queue.Store, status queue.Status, at time.Time, ids ...string) {
	t.Helper()

	for _, id := range ids {
		if err := store.Put(context.Background(), id, queue.Record{EnteredAt: at, Status: status}); err != nil {
			t.Fatalf("seed %q: %v", id, err)
		}
	}
}

// MustGet fetches the record for id, failing the test when it is absent.
func MustGet(t testing.TB, store queue.Store, id string) queue.Record {
	t.Helper()

	rec, ok, err := store.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get %q: %v", id, err)
	}
	if !ok {
		t.Fatalf("expected record for %q", id)
	}
	return rec
}

// MemStore is a map-backed queue.Store. It performs no status validation so
// tests can seed malformed records.
type MemStore struct {
	Records map[string]queue.Record
	Puts    int
	Closed  bool
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{Records: make(map[string]queue.Record)}
}

func (m *MemStore) Get(_ context.Context, id string) (queue.Record, bool, error) {
	rec, ok := m.Records[id]
	return rec, ok, nil
}

func (m *MemStore) Put(_ context.Context, id string, rec queue.Record) error {
	m.Records[id] = rec
	m.Puts++
	return nil
}

// Iterate returns entries in reverse identifier order so callers cannot rely
// on store ordering.
func (m *MemStore) Iterate(context.Context) ([]queue.Entry, error) {
	ids := slices.SortedFunc(maps.Keys(m.Records), func(a, b string) int {
		return strings.Compare(b, a)
	})
	entries := make([]queue.Entry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, queue.Entry{ID: id, Record: m.Records[id]})
	}
	return entries, nil
}

func (m *MemStore) Close() error {
	m.Closed = true
	return nil
}
