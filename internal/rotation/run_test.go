package rotation_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"rotator/internal/config"
	"rotator/internal/logging"
	"rotator/internal/queue"
	"rotator/internal/report"
	"rotator/internal/rotation"
	"rotator/internal/testsupport"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type scriptedPrompter struct {
	ids     []string
	err     error
	onAsk   func()
	invoked int
}

func (p *scriptedPrompter) CollectIDs() ([]string, error) {
	p.invoked++
	if p.onAsk != nil {
		p.onAsk()
	}
	return p.ids, p.err
}

type harness struct {
	cfg   *config.Config
	clock *fakeClock
	fs    afero.Fs
	out   *bytes.Buffer
}

func newHarness(t *testing.T, opts ...testsupport.ConfigOption) *harness {
	t.Helper()
	opts = append([]testsupport.ConfigOption{testsupport.WithDwell(10 * time.Second)}, opts...)
	return &harness{
		cfg:   testsupport.NewConfig(t, opts...),
		clock: &fakeClock{now: time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local)},
		fs:    afero.NewMemMapFs(),
		out:   &bytes.Buffer{},
	}
}

func (h *harness) run(t *testing.T, prompter rotation.Prompter) (report.Report, error) {
	t.Helper()
	h.out.Reset()
	runner := &rotation.Runner{
		Config:   h.cfg,
		Logger:   logging.NewNop(),
		Clock:    h.clock.Now,
		Fs:       h.fs,
		Prompter: prompter,
		Out:      h.out,
	}
	return runner.Run(context.Background())
}

func (h *harness) record(t *testing.T, id string) queue.Record {
	t.Helper()
	store := testsupport.MustOpenStore(t, h.cfg)
	defer store.Close()
	return testsupport.MustGet(t, store, id)
}

func (h *harness) runLog(t *testing.T, runAt time.Time) string {
	t.Helper()
	data, err := afero.ReadFile(h.fs, filepath.Join(h.cfg.Paths.LogDir, report.LogFileName(runAt)))
	require.NoError(t, err)
	return string(data)
}

func TestRunAddsThenPromotesAfterDwell(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := newHarness(t)
	start := h.clock.Now()

	rep, err := h.run(t, &scriptedPrompter{ids: []string{"A"}})
	require.NoError(t, err)
	require.Empty(t, rep.Waiting)
	require.Empty(t, rep.Ready)
	require.Equal(t, []string{"A"}, rep.Added)
	require.Contains(t, h.out.String(), "There are no items in the waiting queue")
	require.Contains(t, h.out.String(), "1 item has been added to the waiting queue.")
	require.Contains(t, h.runLog(t, start), "Items added to waiting queue:\n1: A\n")

	h.clock.Advance(5 * time.Second)
	rep, err = h.run(t, &scriptedPrompter{})
	require.NoError(t, err)
	require.Equal(t, []queue.Pending{{ID: "A", Remaining: 5 * time.Second}}, rep.Waiting)
	require.Empty(t, rep.Ready)
	require.Contains(t, h.out.String(), "1: A - 5 seconds left in the waiting queue.")

	h.clock.Advance(6 * time.Second)
	rep, err = h.run(t, &scriptedPrompter{})
	require.NoError(t, err)
	require.Empty(t, rep.Waiting)
	require.Equal(t, []string{"A"}, rep.Ready)
	require.Contains(t, h.out.String(), "Please remove the following items from the waiting queue for further use:")

	rec := h.record(t, "A")
	require.Equal(t, queue.StatusReady, rec.Status)
	require.WithinDuration(t, start.Add(11*time.Second), rec.EnteredAt, time.Millisecond)

	logText := h.runLog(t, h.clock.Now())
	require.Contains(t, logText, "Items still in waiting queue:\nNone\n")
	require.Contains(t, logText, "Items removed from waiting queue:\n1: A\n")
	require.Contains(t, logText, "Items added to waiting queue:\nNone\n")
}

func TestRunStampsAddedItemsAfterPrompt(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := newHarness(t)
	start := h.clock.Now()

	prompter := &scriptedPrompter{
		ids:   []string{"B", "B", "C"},
		onAsk: func() { h.clock.Advance(3 * time.Second) },
	}
	rep, err := h.run(t, prompter)
	require.NoError(t, err)
	require.Equal(t, start, rep.RunAt)

	for _, id := range []string{"B", "C"} {
		rec := h.record(t, id)
		require.Equal(t, queue.StatusWaiting, rec.Status)
		require.WithinDuration(t, start.Add(3*time.Second), rec.EnteredAt, time.Millisecond)
	}
}

func TestRunRefusesConcurrentRun(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := newHarness(t)
	require.NoError(t, h.cfg.EnsureDirectories())

	held := flock.New(h.cfg.LockPath())
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer held.Unlock()

	prompter := &scriptedPrompter{}
	_, err = h.run(t, prompter)
	require.ErrorIs(t, err, rotation.ErrRunInProgress)
	require.Zero(t, prompter.invoked)
	require.Empty(t, h.out.String())
}

func TestRunPromptFailureKeepsEvaluation(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := newHarness(t)

	store := testsupport.MustOpenStore(t, h.cfg)
	testsupport.Seed(t, store, queue.StatusWaiting, h.clock.Now().Add(-time.Minute), "old")
	require.NoError(t, store.Close())

	promptErr := errors.New("stdin closed")
	rep, err := h.run(t, &scriptedPrompter{err: promptErr})
	require.ErrorIs(t, err, promptErr)
	require.Equal(t, []string{"old"}, rep.Ready)
	require.Equal(t, queue.StatusReady, h.record(t, "old").Status)

	logText := h.runLog(t, h.clock.Now())
	require.Contains(t, logText, "Items removed from waiting queue:\n1: old\n")
	require.NotContains(t, logText, "Items added to waiting queue:")
}

func TestRunPrunesExpiredRunLogs(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := newHarness(t, testsupport.WithRetentionDays(7))

	stale := filepath.Join(h.cfg.Paths.LogDir, report.LogFileName(h.clock.Now().AddDate(0, 0, -30)))
	recent := filepath.Join(h.cfg.Paths.LogDir, report.LogFileName(h.clock.Now().AddDate(0, 0, -1)))
	for _, path := range []string{stale, recent} {
		require.NoError(t, afero.WriteFile(h.fs, path, []byte("x"), 0o644))
	}
	old := h.clock.Now().AddDate(0, 0, -30)
	require.NoError(t, h.fs.Chtimes(stale, old, old))
	require.NoError(t, h.fs.Chtimes(recent, h.clock.Now(), h.clock.Now()))

	_, err := h.run(t, &scriptedPrompter{})
	require.NoError(t, err)

	exists, err := afero.Exists(h.fs, stale)
	require.NoError(t, err)
	require.False(t, exists)
	exists, err = afero.Exists(h.fs, recent)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestRunRequiresPrompter(t *testing.T) {
	runner := &rotation.Runner{Config: testsupport.NewConfig(t)}
	_, err := runner.Run(context.Background())
	require.Error(t, err)
}
