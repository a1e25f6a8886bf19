package main

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"rotator/internal/logging"
	"rotator/internal/prompt"
	"rotator/internal/rotation"
)

func runRotation(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, logFiles, err := ctx.newLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logFiles.Close()

	out := cmd.OutOrStdout()
	runner := &rotation.Runner{
		Config:   cfg,
		Logger:   logger,
		Fs:       afero.NewOsFs(),
		Prompter: prompt.NewSession(cmd.InOrStdin(), out),
		Out:      out,
		Color:    shouldColorize(out),
	}
	if _, err := runner.Run(cmd.Context()); err != nil {
		logging.ErrorWithContext(logger, "rotation run failed", "run_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "see the message printed on stderr"),
		)
		if errors.Is(err, rotation.ErrRunInProgress) {
			return fmt.Errorf("%w (lock held on %s)", err, cfg.LockPath())
		}
		return err
	}
	return nil
}
