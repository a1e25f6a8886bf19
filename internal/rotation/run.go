package rotation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"rotator/internal/config"
	"rotator/internal/logging"
	"rotator/internal/queue"
	"rotator/internal/report"
)

// ErrRunInProgress is returned when another run holds the lock.
var ErrRunInProgress = errors.New("another rotation run is in progress")

// Prompter supplies the identifiers the operator wants to add.
type Prompter interface {
	CollectIDs() ([]string, error)
}

// Runner performs a single rotation cycle.
type Runner struct {
	Config   *config.Config
	Logger   *slog.Logger
	Clock    func() time.Time
	Fs       afero.Fs
	Prompter Prompter
	Out      io.Writer
	Color    bool
}

func (r *Runner) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return time.Now()
}

func (r *Runner) fs() afero.Fs {
	if r.Fs != nil {
		return r.Fs
	}
	return afero.NewOsFs()
}

func (r *Runner) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stdout
}

// Run executes one cycle and returns what it did. The returned report is
// partially filled when a later step fails.
func (r *Runner) Run(ctx context.Context) (report.Report, error) {
	if r.Config == nil {
		return report.Report{}, errors.New("rotation: config is required")
	}
	if r.Prompter == nil {
		return report.Report{}, errors.New("rotation: prompter is required")
	}

	ctx = logging.WithRunID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, logging.NewComponentLogger(r.Logger, "rotation"))

	if err := r.Config.EnsureDirectories(); err != nil {
		return report.Report{}, err
	}

	lock := flock.New(r.Config.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return report.Report{}, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return report.Report{}, ErrRunInProgress
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logging.WarnWithContext(logger, "failed to release run lock", "run_lock_release_failed",
				logging.String("path", r.Config.LockPath()),
				logging.Error(err),
				logging.String(logging.FieldImpact, "next run may need to wait for the lock"),
			)
		}
	}()

	engine, err := queue.NewEngine(r.Config.Dwell.Duration())
	if err != nil {
		return report.Report{}, err
	}

	rep := report.Report{RunAt: r.now(), Dwell: engine.Dwell()}
	logger.Info("rotation run started",
		logging.String(logging.FieldEventType, "run_started"),
		logging.Duration("dwell", rep.Dwell),
		logging.String("store", r.Config.StorePath()),
	)

	if err := r.evaluate(ctx, engine, &rep); err != nil {
		return rep, err
	}
	logger.Info("queue evaluated",
		logging.String(logging.FieldEventType, "queue_evaluated"),
		logging.Int("waiting", len(rep.Waiting)),
		logging.Int("ready", len(rep.Ready)),
	)
	for _, id := range rep.Ready {
		logger.Debug("item ready",
			logging.String(logging.FieldItemID, id),
			logging.String(logging.FieldEventType, "item_ready"),
		)
	}

	out := r.out()
	if err := report.RenderEvaluation(out, rep, report.ConsoleOptions{Color: r.Color}); err != nil {
		return rep, fmt.Errorf("render report: %w", err)
	}
	runLog := report.NewLogWriter(r.fs(), r.Config.Paths.LogDir, rep.RunAt)
	if err := runLog.WriteEvaluation(rep); err != nil {
		return rep, err
	}

	ids, err := r.Prompter.CollectIDs()
	if err != nil {
		return rep, fmt.Errorf("collect item ids: %w", err)
	}
	if len(ids) > 0 {
		if err := r.add(ctx, engine, ids); err != nil {
			return rep, err
		}
		rep.Added = ids
		logger.Info("items added",
			logging.String(logging.FieldEventType, "items_added"),
			logging.Strings("item_ids", ids),
		)
	}

	if err := report.RenderAdded(out, rep.Added); err != nil {
		return rep, fmt.Errorf("render added items: %w", err)
	}
	if err := runLog.AppendAdded(rep.Added); err != nil {
		return rep, err
	}

	logging.CleanupOldLogs(r.fs(), logger, r.now(), r.Config.Logging.RetentionDays, logging.RetentionTarget{
		Dir:     r.Config.Paths.LogDir,
		Pattern: report.LogPattern,
		Exclude: []string{runLog.Path()},
	})

	logger.Info("rotation run finished",
		logging.String(logging.FieldEventType, "run_finished"),
		logging.String("run_log", runLog.Path()),
	)
	return rep, nil
}

// evaluate opens the store, records the waiting list, promotes ready items
// and closes the store again.
func (r *Runner) evaluate(ctx context.Context, engine *queue.Engine, rep *report.Report) (err error) {
	store, err := queue.Open(r.Config)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close store: %w", closeErr)
		}
	}()

	waiting, err := engine.Waiting(ctx, rep.RunAt, store)
	if err != nil {
		return err
	}
	ready, err := engine.ApplyReady(ctx, rep.RunAt, store)
	if err != nil {
		return err
	}
	rep.Waiting = waiting
	rep.Ready = ready
	return nil
}

// add reopens the store and enters ids with a fresh timestamp, so the time
// the operator spent answering counts toward the dwell.
func (r *Runner) add(ctx context.Context, engine *queue.Engine, ids []string) (err error) {
	store, err := queue.Open(r.Config)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close store: %w", closeErr)
		}
	}()
	return engine.Add(ctx, r.now(), ids, store)
}
