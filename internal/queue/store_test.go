package queue_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rotator/internal/queue"
	"rotator/internal/testsupport"
)

func TestOpenCreatesSchemaAndPersistsAcrossReopen(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	store, err := queue.Open(cfg)
	require.NoError(t, err)
	require.Equal(t, cfg.StorePath(), store.Path())
	entered := time.Unix(1_700_000_000, 250_000_000)
	require.NoError(t, store.Put(ctx, "item-1", queue.Record{EnteredAt: entered, Status: queue.StatusWaiting}))
	require.NoError(t, store.Close())

	reopened := testsupport.MustOpenStore(t, cfg)
	rec, ok, err := reopened.Get(ctx, "item-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, queue.StatusWaiting, rec.Status)
	require.WithinDuration(t, entered, rec.EnteredAt, time.Microsecond)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	_, ok, err := store.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIdentifiersAreCaseSensitive(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	testsupport.Seed(t, store, queue.StatusWaiting, time.Unix(1, 0), "abc")
	testsupport.Seed(t, store, queue.StatusReady, time.Unix(2, 0), "ABC")

	entries, err := store.Iterate(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, queue.StatusReady, testsupport.MustGet(t, store, "ABC").Status)
	require.Equal(t, queue.StatusWaiting, testsupport.MustGet(t, store, "abc").Status)
}

func TestPutRejectsUnknownStatus(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	err := store.Put(ctx, "x", queue.Record{EnteredAt: time.Unix(1, 0), Status: "QUALIFIED"})
	require.ErrorIs(t, err, queue.ErrInvalidStatus)

	err = store.PutAll(ctx, []queue.Entry{
		{ID: "ok", Record: queue.Record{EnteredAt: time.Unix(1, 0), Status: queue.StatusWaiting}},
		{ID: "bad", Record: queue.Record{EnteredAt: time.Unix(1, 0)}},
	})
	require.ErrorIs(t, err, queue.ErrInvalidStatus)

	_, ok, err := store.Get(ctx, "ok")
	require.NoError(t, err)
	require.False(t, ok, "batch must not be partially applied")
}

func TestPutAllLastEntryWins(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	require.NoError(t, store.PutAll(ctx, []queue.Entry{
		{ID: "dup", Record: queue.Record{EnteredAt: time.Unix(1, 0), Status: queue.StatusTesting}},
		{ID: "dup", Record: queue.Record{EnteredAt: time.Unix(2, 0), Status: queue.StatusWaiting}},
	}))

	rec := testsupport.MustGet(t, store, "dup")
	require.Equal(t, queue.StatusWaiting, rec.Status)
	require.True(t, rec.EnteredAt.Equal(time.Unix(2, 0)))
}

func TestListSupportsStatusFilterAndStats(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	testsupport.Seed(t, store, queue.StatusWaiting, time.Unix(10, 0), "w2", "w1")
	testsupport.Seed(t, store, queue.StatusReady, time.Unix(20, 0), "r1")
	testsupport.Seed(t, store, queue.StatusTesting, time.Unix(30, 0), "t1")

	all, err := store.List(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, entry := range all {
		ids = append(ids, entry.ID)
	}
	require.Equal(t, []string{"r1", "t1", "w1", "w2"}, ids)

	waiting, err := store.List(ctx, queue.StatusWaiting, queue.StatusTesting)
	require.NoError(t, err)
	require.Len(t, waiting, 3)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, map[queue.Status]int{
		queue.StatusWaiting: 2,
		queue.StatusReady:   1,
		queue.StatusTesting: 1,
	}, stats)
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := queue.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	db, err := sql.Open("sqlite", cfg.StorePath())
	require.NoError(t, err)
	_, err = db.Exec("UPDATE schema_version SET version = 99")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = queue.Open(cfg)
	require.ErrorIs(t, err, queue.ErrSchemaMismatch)
}

func TestIterateFailsOnCorruptStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.Seed(t, store, queue.StatusWaiting, time.Unix(1, 0), "fine")

	db, err := sql.Open("sqlite", cfg.StorePath())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec("INSERT INTO items (id, entered_at, status) VALUES ('odd', 1.0, 'QUALIFIED')")
	require.NoError(t, err)

	_, err = store.Iterate(context.Background())
	require.ErrorIs(t, err, queue.ErrInvalidStatus)

	engine, err := queue.NewEngine(0)
	require.NoError(t, err)
	_, err = engine.ApplyReady(context.Background(), time.Unix(100, 0), store)
	require.ErrorIs(t, err, queue.ErrInvalidStatus)
	require.Equal(t, queue.StatusWaiting, testsupport.MustGet(t, store, "fine").Status)
}
