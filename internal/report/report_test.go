package report_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"rotator/internal/queue"
	"rotator/internal/report"
)

func TestRoundedSeconds(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want int64
	}{
		{5 * time.Second, 5},
		{4*time.Second + 499*time.Millisecond, 4},
		{4*time.Second + 500*time.Millisecond, 5},
		{200 * time.Millisecond, 0},
		{3 * time.Hour, 10800},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, report.RoundedSeconds(tc.in), tc.in.String())
	}
}

func TestRenderEvaluationListsWaitingAndReady(t *testing.T) {
	rep := report.Report{
		Waiting: []queue.Pending{
			{ID: "A", Remaining: 5*time.Second + 300*time.Millisecond},
			{ID: "B", Remaining: time.Second},
		},
		Ready: []string{"C", "D"},
	}
	var buf bytes.Buffer
	require.NoError(t, report.RenderEvaluation(&buf, rep, report.ConsoleOptions{}))

	out := buf.String()
	require.Contains(t, out, "1: A - 5 seconds left in the waiting queue.\n")
	require.Contains(t, out, "2: B - 1 second left in the waiting queue.\n")
	require.Contains(t, out, "Please remove the following items from the waiting queue for further use:\n\n1: C\n2: D\n")
	require.NotContains(t, out, "There are no items")
	require.Less(t, strings.Index(out, "1: A"), strings.Index(out, "1: C"))
}

func TestRenderEvaluationEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.RenderEvaluation(&buf, report.Report{}, report.ConsoleOptions{Color: true}))
	require.Equal(t, "There are no items in the waiting queue\n"+report.Divider, buf.String())
}

func TestRenderEvaluationColorOnlyWhenRequested(t *testing.T) {
	rep := report.Report{Ready: []string{"C"}}

	var plain bytes.Buffer
	require.NoError(t, report.RenderEvaluation(&plain, rep, report.ConsoleOptions{}))
	require.NotContains(t, plain.String(), "\x1b[")

	text.EnableColors()
	var colored bytes.Buffer
	require.NoError(t, report.RenderEvaluation(&colored, rep, report.ConsoleOptions{Color: true}))
	require.Contains(t, colored.String(), "\x1b[")
}

func TestRenderAdded(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.RenderAdded(&buf, []string{"X", "Y"}))
	require.True(t, strings.HasPrefix(buf.String(), "2 items have been added to the waiting queue.\n"))

	buf.Reset()
	require.NoError(t, report.RenderAdded(&buf, nil))
	require.True(t, strings.HasPrefix(buf.String(), "No items were added"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderSurfacesWriteErrors(t *testing.T) {
	require.Error(t, report.RenderEvaluation(failingWriter{}, report.Report{}, report.ConsoleOptions{}))
	require.Error(t, report.RenderAdded(failingWriter{}, []string{"X"}))
}

func TestLogFileName(t *testing.T) {
	runAt := time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.Local)
	require.Equal(t, "log_2026-03-14 09_26_53", report.LogFileName(runAt))
}

func TestLogWriterSections(t *testing.T) {
	fsys := afero.NewMemMapFs()
	dir := filepath.Join("/data", "logs")
	runAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.Local)
	writer := report.NewLogWriter(fsys, dir, runAt)
	require.Equal(t, filepath.Join(dir, "log_2026-03-14 09_26_53"), writer.Path())

	rep := report.Report{
		Waiting: []queue.Pending{{ID: "A", Remaining: 5 * time.Second}},
		Ready:   []string{"R1", "R2"},
	}
	require.NoError(t, writer.WriteEvaluation(rep))
	require.NoError(t, writer.AppendAdded([]string{"N1"}))

	content, err := afero.ReadFile(fsys, writer.Path())
	require.NoError(t, err)
	require.Equal(t, "Items still in waiting queue:\n"+
		"A - 5 seconds left in the waiting queue.\n"+
		"\nItems removed from waiting queue:\n"+
		"1: R1\n2: R2\n"+
		"\nItems added to waiting queue:\n"+
		"1: N1\n", string(content))
}

func TestLogWriterEmptySectionsReadNone(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writer := report.NewLogWriter(fsys, "/logs", time.Unix(0, 0))

	require.NoError(t, writer.WriteEvaluation(report.Report{}))
	require.NoError(t, writer.AppendAdded(nil))

	content, err := afero.ReadFile(fsys, writer.Path())
	require.NoError(t, err)
	require.Equal(t, "Items still in waiting queue:\nNone\n"+
		"\nItems removed from waiting queue:\nNone\n"+
		"\nItems added to waiting queue:\nNone\n", string(content))
}

func TestLogWriterSurfacesFailures(t *testing.T) {
	fsys := afero.NewReadOnlyFs(afero.NewMemMapFs())
	writer := report.NewLogWriter(fsys, "/logs", time.Unix(0, 0))

	require.Error(t, writer.WriteEvaluation(report.Report{}))
	require.Error(t, writer.AppendAdded([]string{"X"}))
}
