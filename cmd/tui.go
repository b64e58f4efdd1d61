package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mindcheck/mindcheck/internal/app"
	"github.com/mindcheck/mindcheck/internal/logger"
	"github.com/mindcheck/mindcheck/internal/screen"
)

var errNoTTY = errors.New("mindcheck needs an interactive terminal; use `mindcheck ask` or `mindcheck score` instead")

// runTUI opens the store, takes the database lock and launches the TUI.
func (c *cli) runTUI(cmd *cobra.Command, start *screen.StartAttemptMsg) error {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return errNoTTY
	}

	st, path, err := c.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	lock, err := lockDB(path)
	if err != nil {
		return err
	}
	defer lock.Release()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	count, err := st.ResultRepo().Count(ctx)
	if err != nil {
		return fmt.Errorf("count results: %w", err)
	}

	logger.Get().Info("starting TUI", zap.String("db", path), zap.Int("results", count))
	return app.Run(ctx, app.Options{
		Env:     c.env(st),
		Start:   start,
		Welcome: count == 0,
	})
}

func newTakeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "take <assessment>",
		Short: "Open a questionnaire in the TUI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.resolve(cmd, args[0])
			if err != nil {
				return err
			}
			return c.runTUI(cmd, &screen.StartAttemptMsg{AssessmentID: a.ID})
		},
	}
}
